package schema

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pureflow/pureflow-api/models"
)

// TableSpec declares the canonical shape of one table: the model that defines
// it, the signature columns whose absence marks the live table as
// structurally incompatible, and the additive columns that can be added in
// place without losing rows. Pure data; the reconciler interprets it.
type TableSpec struct {
	Name  string
	Model interface{}

	// Signature lists load-bearing column names (foreign keys, columns whose
	// absence implies a previous incompatible design). A live table missing
	// any of these is dropped and recreated.
	Signature []string

	// Additive lists struct field names that may be missing from an older but
	// otherwise compatible table; they are added with their declared default,
	// preserving rows.
	Additive []string

	// DropWith names side-tables that only make sense alongside this table
	// and are destroyed with it on a destructive repair.
	DropWith []interface{}

	// RebuiltWith names the owning table for a side-table: a structural
	// incompatibility here is repaired by rebuilding the owner (whose
	// DropWith destroys this table with it), so the pair never splits into
	// a seeded owner over an empty side-table.
	RebuiltWith string

	// Indexes lists index names that must exist beyond what CreateTable
	// builds, so older compatible tables pick them up in place.
	Indexes []string

	// ContentCheck inspects seeded content that schema inspection cannot see.
	// A true result means the table content was produced under an old
	// revision and the table must be dropped for reseeding.
	ContentCheck func(db *gorm.DB) (drifted bool, reason string, err error)
}

// Catalog returns the canonical table set in creation order. Side-tables
// follow the table they depend on so a destructive repair earlier in the
// slice is healed by the later entry's existence check.
func Catalog() []TableSpec {
	return []TableSpec{
		{
			Name:      "users",
			Model:     &models.User{},
			Signature: []string{"email", "password_hash", "role"},
			Additive:  []string{"Phone", "Address"},
		},
		{
			Name:         "plans",
			Model:        &models.Plan{},
			Signature:    []string{"billing_cycle", "price"},
			Additive:     []string{"Popular"},
			DropWith:     []interface{}{&models.PlanFeature{}},
			ContentCheck: planContentCheck,
		},
		{
			Name:        "plan_features",
			Model:       &models.PlanFeature{},
			Signature:   []string{"plan_id", "position"},
			RebuiltWith: "plans",
		},
		{
			Name:      "services",
			Model:     &models.Service{},
			Signature: []string{"short_description", "price_from"},
		},
		{
			Name:      "locations",
			Model:     &models.Location{},
			Signature: []string{"is_head_office", "latitude", "longitude"},
		},
		{
			Name:      "subscriptions",
			Model:     &models.Subscription{},
			Signature: []string{"user_id", "plan_id", "payment_method"},
			Indexes:   []string{"uniq_active_subscription_per_user"},
		},
		{
			Name:      "service_requests",
			Model:     &models.ServiceRequest{},
			Signature: []string{"user_id", "service_id", "preferred_date"},
			Additive:  []string{"TechnicianNotes", "PreferredTime", "Address", "PhotoS3Key"},
		},
		{
			Name:      "maintenance_visits",
			Model:     &models.MaintenanceVisit{},
			Signature: []string{"user_id", "subscription_id", "scheduled_date"},
			Additive:  []string{"ScheduledTime", "TechnicianName", "Notes"},
		},
	}
}

// planSentinelName is the plan row whose values attest the seed revision
const planSentinelName = "Basic"

const (
	planSentinelPrice   = int64(899)
	planSentinelBilling = models.BillingCycleYear
)

// planContentCheck detects reference rows seeded under the old revision
// (monthly billing, fractional prices). The sentinel row must carry the
// current canonical values; anything else means the whole table is stale.
func planContentCheck(db *gorm.DB) (bool, string, error) {
	var plan models.Plan
	err := db.Where("name = ?", planSentinelName).First(&plan).Error
	if err == gorm.ErrRecordNotFound {
		// empty or renamed catalog; the seeder decides, nothing to repair
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("failed to read plan sentinel row: %w", err)
	}

	if plan.BillingCycle != planSentinelBilling || plan.Price != planSentinelPrice {
		reason := fmt.Sprintf("plan %q seeded as price=%d cycle=%s, want price=%d cycle=%s",
			planSentinelName, plan.Price, plan.BillingCycle, planSentinelPrice, planSentinelBilling)
		return true, reason, nil
	}
	return false, "", nil
}
