package models

import (
	"time"
)

// MaintenanceVisitStatus is the closed set of maintenance visit states
type MaintenanceVisitStatus string

const (
	MaintenanceScheduled MaintenanceVisitStatus = "scheduled"
	MaintenanceCompleted MaintenanceVisitStatus = "completed"
	MaintenanceCancelled MaintenanceVisitStatus = "cancelled"
)

// maintenanceTransitions is the full transition table; both destinations are
// terminal.
var maintenanceTransitions = map[MaintenanceVisitStatus][]MaintenanceVisitStatus{
	MaintenanceScheduled: {MaintenanceCompleted, MaintenanceCancelled},
	MaintenanceCompleted: {},
	MaintenanceCancelled: {},
}

// Valid reports whether the status is one of the declared values
func (s MaintenanceVisitStatus) Valid() bool {
	_, ok := maintenanceTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition is permitted
func (s MaintenanceVisitStatus) IsTerminal() bool {
	return s.Valid() && len(maintenanceTransitions[s]) == 0
}

// CanTransitionTo reports whether the transition table permits moving to
// next. Re-asserting the current status is permitted: it is a no-op for the
// state while notes may still change.
func (s MaintenanceVisitStatus) CanTransitionTo(next MaintenanceVisitStatus) bool {
	if s == next {
		return !s.IsTerminal()
	}
	for _, allowed := range maintenanceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// MaintenanceVisit is a technician-scheduled visit against an active
// subscription.
type MaintenanceVisit struct {
	ID             uint                   `gorm:"primaryKey" json:"id"`
	UserID         uint                   `gorm:"not null;index" json:"user_id"`
	User           User                   `gorm:"foreignKey:UserID" json:"-"`
	SubscriptionID uint                   `gorm:"not null;index" json:"subscription_id"`
	Subscription   Subscription           `gorm:"foreignKey:SubscriptionID" json:"-"`
	ScheduledDate  time.Time              `gorm:"not null" json:"scheduled_date"`
	ScheduledTime  *string                `json:"scheduled_time,omitempty"`
	Status         MaintenanceVisitStatus `gorm:"not null;default:'scheduled'" json:"status"`
	TechnicianName *string                `json:"technician_name,omitempty"`
	Notes          *string                `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// TableName specifies the table name for the MaintenanceVisit model
func (MaintenanceVisit) TableName() string {
	return "maintenance_visits"
}
