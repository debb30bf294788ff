package schema

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pureflow/pureflow-api/logger"
	"github.com/pureflow/pureflow-api/models"
)

// SeedIfEmpty populates each reference table with its canonical fixture set,
// but only when the table holds no rows. Running it twice never duplicates
// rows. Must run after Reconcile.
func SeedIfEmpty(db *gorm.DB) error {
	if err := seedTable(db, &models.Plan{}, "plans", func(tx *gorm.DB) error {
		plans := seedPlans()
		return tx.Create(&plans).Error
	}); err != nil {
		return err
	}

	if err := seedTable(db, &models.Service{}, "services", func(tx *gorm.DB) error {
		services := seedServices()
		return tx.Create(&services).Error
	}); err != nil {
		return err
	}

	return seedTable(db, &models.Location{}, "locations", func(tx *gorm.DB) error {
		locations := seedLocations()
		return tx.Create(&locations).Error
	})
}

func seedTable(db *gorm.DB, model interface{}, name string, insert func(*gorm.DB) error) error {
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count %s: %w", name, err)
	}
	if count > 0 {
		return nil
	}
	if err := insert(db); err != nil {
		return fmt.Errorf("failed to seed %s: %w", name, err)
	}
	logger.L().Info("seeded reference table", zap.String("table", name))
	return nil
}

// seedPlans returns the canonical plan catalog. Prices are yearly amounts in
// whole currency units; the reconciler's content check keys off the Basic row.
func seedPlans() []models.Plan {
	return []models.Plan{
		{
			Name:         "Basic",
			Description:  "Essential purification for small households",
			Price:        899,
			BillingCycle: models.BillingCycleYear,
			Popular:      false,
			Features: []models.PlanFeature{
				{Position: 1, Text: "RO + UV purification unit"},
				{Position: 2, Text: "Two scheduled maintenance visits per year"},
				{Position: 3, Text: "Filter replacement included"},
			},
		},
		{
			Name:         "Premium",
			Description:  "Advanced purification with priority support",
			Price:        1499,
			BillingCycle: models.BillingCycleYear,
			Popular:      true,
			Features: []models.PlanFeature{
				{Position: 1, Text: "RO + UV + UF purification unit"},
				{Position: 2, Text: "Four scheduled maintenance visits per year"},
				{Position: 3, Text: "Filter and membrane replacement included"},
				{Position: 4, Text: "Priority service requests"},
			},
		},
		{
			Name:         "Ultimate",
			Description:  "Whole-home purification with same-day service",
			Price:        2499,
			BillingCycle: models.BillingCycleYear,
			Popular:      false,
			Features: []models.PlanFeature{
				{Position: 1, Text: "Whole-home RO + UV + mineraliser system"},
				{Position: 2, Text: "Unlimited maintenance visits"},
				{Position: 3, Text: "All consumables included"},
				{Position: 4, Text: "Same-day service requests"},
				{Position: 5, Text: "Annual water quality report"},
			},
		},
	}
}

func seedServices() []models.Service {
	return []models.Service{
		{
			Name:             "Installation",
			Description:      "Professional installation of your purification unit, including inlet plumbing and a post-install water quality check.",
			ShortDescription: "New unit installation",
			Icon:             "wrench",
			PriceFrom:        0,
		},
		{
			Name:             "Filter Replacement",
			Description:      "Replacement of sediment, carbon and RO filters with genuine parts.",
			ShortDescription: "Genuine filter replacement",
			Icon:             "filter",
			PriceFrom:        49,
		},
		{
			Name:             "Repair",
			Description:      "Diagnosis and repair of leaks, pump faults and electrical issues.",
			ShortDescription: "Unit diagnosis and repair",
			Icon:             "tool",
			PriceFrom:        79,
		},
		{
			Name:             "Water Quality Test",
			Description:      "On-site TDS, hardness and microbiological testing with a written report.",
			ShortDescription: "On-site quality testing",
			Icon:             "droplet",
			PriceFrom:        29,
		},
		{
			Name:             "Relocation",
			Description:      "Uninstall, transport preparation and reinstallation at your new address.",
			ShortDescription: "Move your unit safely",
			Icon:             "truck",
			PriceFrom:        99,
		},
	}
}

// seedLocations returns the branch list; exactly one row is the head office.
func seedLocations() []models.Location {
	return []models.Location{
		{
			Name:          "PureFlow Head Office",
			Address:       "12 Riverside Business Park, Watermill Lane",
			Phone:         "+1 555 010 1200",
			Email:         "hello@pureflow.example",
			BusinessHours: "Mon-Fri 8:00-18:00, Sat 9:00-13:00",
			Latitude:      51.5072,
			Longitude:     -0.1276,
			IsHeadOffice:  true,
		},
		{
			Name:          "Northside Service Centre",
			Address:       "4 Aqueduct Road",
			Phone:         "+1 555 010 1201",
			Email:         "northside@pureflow.example",
			BusinessHours: "Mon-Fri 8:30-17:30",
			Latitude:      51.5850,
			Longitude:     -0.1100,
			IsHeadOffice:  false,
		},
		{
			Name:          "Harbour District Branch",
			Address:       "88 Quayside Walk",
			Phone:         "+1 555 010 1202",
			Email:         "harbour@pureflow.example",
			BusinessHours: "Mon-Sat 9:00-17:00",
			Latitude:      51.4720,
			Longitude:     -0.0600,
			IsHeadOffice:  false,
		},
	}
}
