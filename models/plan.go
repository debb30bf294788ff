package models

import (
	"time"
)

// BillingCycle is the closed set of plan billing periods
type BillingCycle string

const (
	BillingCycleMonth BillingCycle = "month"
	BillingCycleYear  BillingCycle = "year"
)

// Plan represents a purifier subscription plan. Reference data: seeded once,
// never mutated by end users. Price is an integer amount in the final
// currency unit; a fractional price or a month billing cycle on a seeded row
// marks stale seed content that the schema reconciler must replace.
type Plan struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Name         string        `gorm:"not null" json:"name"`
	Description  string        `gorm:"not null" json:"description"`
	Price        int64         `gorm:"not null" json:"price"`
	BillingCycle BillingCycle  `gorm:"not null;default:'year'" json:"billing_cycle"`
	Popular      bool          `gorm:"not null;default:false" json:"popular"`
	Features     []PlanFeature `gorm:"foreignKey:PlanID" json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// TableName specifies the table name for the Plan model
func (Plan) TableName() string {
	return "plans"
}

// FeatureList flattens the ordered feature rows into the strings the API
// exposes
func (p *Plan) FeatureList() []string {
	features := make([]string, 0, len(p.Features))
	for _, f := range p.Features {
		features = append(features, f.Text)
	}
	return features
}

// PlanFeature is one bullet point of a plan, ordered by Position
type PlanFeature struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PlanID   uint   `gorm:"not null;index" json:"plan_id"`
	Position int    `gorm:"not null" json:"position"`
	Text     string `gorm:"not null" json:"text"`
}

// TableName specifies the table name for the PlanFeature model
func (PlanFeature) TableName() string {
	return "plan_features"
}
