package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pureflow/pureflow-api/logger"
	"github.com/pureflow/pureflow-api/models"
	"github.com/pureflow/pureflow-api/repositories"
)

// ScheduleVisitInput carries the fields a technician submits when scheduling
// a maintenance visit.
type ScheduleVisitInput struct {
	UserID         uint
	SubscriptionID uint
	ScheduledDate  time.Time
	ScheduledTime  *string
	TechnicianName *string
	Notes          *string
}

// MaintenanceService owns the maintenance visit lifecycle. It is the only
// code that writes a visit's status field.
type MaintenanceService struct {
	visits *repositories.MaintenanceVisitRepository
	subs   *repositories.SubscriptionRepository
}

// NewMaintenanceService creates a MaintenanceService over the given handle
func NewMaintenanceService(db *gorm.DB) *MaintenanceService {
	return &MaintenanceService{
		visits: repositories.NewMaintenanceVisitRepository(db),
		subs:   repositories.NewSubscriptionRepository(db),
	}
}

// Schedule creates a visit in the scheduled state against an existing active
// subscription. Technician/admin only.
func (s *MaintenanceService) Schedule(in ScheduleVisitInput, actorRole models.Role) (*models.MaintenanceVisit, error) {
	if !actorRole.IsStaff() {
		return nil, ErrUnauthorized
	}
	if in.UserID == 0 {
		return nil, NewValidationError("userId is required")
	}
	if in.SubscriptionID == 0 {
		return nil, NewValidationError("subscriptionId is required")
	}
	if in.ScheduledDate.IsZero() {
		return nil, NewValidationError("scheduledDate is required")
	}

	sub, err := s.subs.GetActiveByID(in.SubscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("subscription %d does not exist or is not active", in.SubscriptionID)
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub.UserID != in.UserID {
		return nil, NewValidationError("subscription %d does not belong to user %d", in.SubscriptionID, in.UserID)
	}

	visit := &models.MaintenanceVisit{
		UserID:         in.UserID,
		SubscriptionID: in.SubscriptionID,
		ScheduledDate:  in.ScheduledDate,
		ScheduledTime:  in.ScheduledTime,
		TechnicianName: in.TechnicianName,
		Notes:          in.Notes,
		Status:         models.MaintenanceScheduled,
	}
	if err := s.visits.Create(visit); err != nil {
		return nil, fmt.Errorf("failed to create maintenance visit: %w", err)
	}

	logger.L().Info("maintenance visit scheduled",
		zap.Uint("visit_id", visit.ID),
		zap.Uint("subscription_id", in.SubscriptionID),
		zap.Time("scheduled_date", in.ScheduledDate),
	)
	return visit, nil
}

// UpdateStatus drives a visit through its state machine. Technician/admin
// only. Re-asserting the current status of a non-terminal visit is a no-op
// for the state while notes may still update; a terminal visit accepts
// nothing further.
func (s *MaintenanceService) UpdateStatus(visitID uint, next models.MaintenanceVisitStatus, notes *string, actorRole models.Role) (*models.MaintenanceVisit, error) {
	if !actorRole.IsStaff() {
		return nil, ErrUnauthorized
	}

	visit, err := s.visits.GetByID(visitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load maintenance visit: %w", err)
	}

	if !next.Valid() || !visit.Status.CanTransitionTo(next) {
		return nil, NewInvalidTransition(string(visit.Status), string(next))
	}

	affected, err := s.visits.UpdateStatusIf(visit.ID, visit.Status, next, notes)
	if err != nil {
		return nil, fmt.Errorf("failed to update maintenance visit: %w", err)
	}
	if affected == 0 {
		return nil, ErrConflict
	}

	logger.L().Info("maintenance visit status updated",
		zap.Uint("visit_id", visit.ID),
		zap.String("from", string(visit.Status)),
		zap.String("to", string(next)),
	)
	return s.visits.GetByID(visit.ID)
}

// ListForUser returns the user's visits
func (s *MaintenanceService) ListForUser(userID uint) ([]models.MaintenanceVisit, error) {
	return s.visits.ListByUser(userID)
}

// ListAll returns every visit (technician/admin views)
func (s *MaintenanceService) ListAll() ([]models.MaintenanceVisit, error) {
	return s.visits.ListAll()
}
