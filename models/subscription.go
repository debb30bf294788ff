package models

import (
	"time"
)

// SubscriptionStatus is the closed set of subscription states
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// subscriptionTransitions is the full transition table. Cancellation is the
// only move; a cancelled subscription is never reactivated, a new one is
// created instead.
var subscriptionTransitions = map[SubscriptionStatus][]SubscriptionStatus{
	SubscriptionActive:    {SubscriptionCancelled},
	SubscriptionCancelled: {},
}

// Valid reports whether the status is one of the declared values
func (s SubscriptionStatus) Valid() bool {
	_, ok := subscriptionTransitions[s]
	return ok
}

// CanTransitionTo reports whether the transition table permits moving to next
func (s SubscriptionStatus) CanTransitionTo(next SubscriptionStatus) bool {
	for _, allowed := range subscriptionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Subscription ties a user to a plan. Created when the external payment
// collaborator confirms payment; PaymentMethod is an opaque tag recorded
// as-is.
type Subscription struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	UserID        uint               `gorm:"not null;index;uniqueIndex:uniq_active_subscription_per_user,where:status = 'active'" json:"user_id"`
	User          User               `gorm:"foreignKey:UserID" json:"-"`
	PlanID        uint               `gorm:"not null;index" json:"plan_id"`
	Plan          Plan               `gorm:"foreignKey:PlanID" json:"plan"`
	Status        SubscriptionStatus `gorm:"not null;default:'active'" json:"status"`
	PaymentMethod string             `gorm:"not null" json:"payment_method"`
	StartDate     time.Time          `gorm:"not null" json:"start_date"`
	EndDate       time.Time          `gorm:"not null" json:"end_date"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// TableName specifies the table name for the Subscription model
func (Subscription) TableName() string {
	return "subscriptions"
}
