package models

import (
	"time"
)

// ServiceRequestStatus is the closed set of service request states
type ServiceRequestStatus string

const (
	ServiceRequestPending    ServiceRequestStatus = "pending"
	ServiceRequestInProgress ServiceRequestStatus = "in_progress"
	ServiceRequestCompleted  ServiceRequestStatus = "completed"
	ServiceRequestCancelled  ServiceRequestStatus = "cancelled"
)

// serviceRequestTransitions is the full transition table; completed and
// cancelled are terminal.
var serviceRequestTransitions = map[ServiceRequestStatus][]ServiceRequestStatus{
	ServiceRequestPending:    {ServiceRequestInProgress, ServiceRequestCompleted, ServiceRequestCancelled},
	ServiceRequestInProgress: {ServiceRequestCompleted, ServiceRequestCancelled},
	ServiceRequestCompleted:  {},
	ServiceRequestCancelled:  {},
}

// Valid reports whether the status is one of the declared values
func (s ServiceRequestStatus) Valid() bool {
	_, ok := serviceRequestTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition is permitted
func (s ServiceRequestStatus) IsTerminal() bool {
	return s.Valid() && len(serviceRequestTransitions[s]) == 0
}

// CanTransitionTo reports whether the transition table permits moving to next
func (s ServiceRequestStatus) CanTransitionTo(next ServiceRequestStatus) bool {
	for _, allowed := range serviceRequestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ServiceRequest is a client's ask for work on their purifier. Created only
// while the client holds an active subscription; driven through its states by
// technicians/admins, except that the owning client may cancel a pending
// request.
type ServiceRequest struct {
	ID              uint                 `gorm:"primaryKey" json:"id"`
	UserID          uint                 `gorm:"not null;index" json:"user_id"`
	User            User                 `gorm:"foreignKey:UserID" json:"-"`
	ServiceID       uint                 `gorm:"not null;index" json:"service_id"`
	Service         Service              `gorm:"foreignKey:ServiceID" json:"service"`
	Description     string               `gorm:"type:text;not null" json:"description"`
	PreferredDate   time.Time            `gorm:"not null" json:"preferred_date"`
	PreferredTime   *string              `json:"preferred_time,omitempty"`
	Address         *string              `json:"address,omitempty"`
	Status          ServiceRequestStatus `gorm:"not null;default:'pending'" json:"status"`
	TechnicianNotes *string              `gorm:"type:text" json:"technician_notes,omitempty"`
	PhotoS3Key      *string              `json:"-"`
	PhotoURL        *string              `gorm:"-" json:"photo_url,omitempty"` // computed, presigned
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// TableName specifies the table name for the ServiceRequest model
func (ServiceRequest) TableName() string {
	return "service_requests"
}
