package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pureflow/pureflow-api/logger"
	"github.com/pureflow/pureflow-api/models"
	"github.com/pureflow/pureflow-api/repositories"
)

// SubscriptionService owns the subscription lifecycle. It is the only code
// that writes a subscription's status field.
type SubscriptionService struct {
	subs    *repositories.SubscriptionRepository
	catalog *repositories.CatalogRepository
}

// NewSubscriptionService creates a SubscriptionService over the given handle
func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{
		subs:    repositories.NewSubscriptionRepository(db),
		catalog: repositories.NewCatalogRepository(db),
	}
}

// Create records a subscription after the external payment collaborator has
// confirmed payment. PaymentMethod is an opaque tag. A user holds at most one
// active subscription; a second one is rejected rather than superseding the
// first.
func (s *SubscriptionService) Create(userID, planID uint, paymentMethod string) (*models.Subscription, error) {
	if paymentMethod == "" {
		return nil, NewValidationError("paymentMethod is required")
	}

	plan, err := s.catalog.GetPlanByID(planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	hasActive, err := s.subs.HasActive(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active subscriptions: %w", err)
	}
	if hasActive {
		return nil, ErrActiveSubscriptionExists
	}

	start := time.Now()
	end := start.AddDate(1, 0, 0)
	if plan.BillingCycle == models.BillingCycleMonth {
		end = start.AddDate(0, 1, 0)
	}

	sub := &models.Subscription{
		UserID:        userID,
		PlanID:        plan.ID,
		Status:        models.SubscriptionActive,
		PaymentMethod: paymentMethod,
		StartDate:     start,
		EndDate:       end,
	}
	if err := s.subs.Create(sub); err != nil {
		// the partial unique index on active subscriptions closes the race
		// between the HasActive read and this insert
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") || strings.Contains(errMsg, "unique") {
			return nil, ErrActiveSubscriptionExists
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	logger.L().Info("subscription created",
		zap.Uint("subscription_id", sub.ID),
		zap.Uint("user_id", userID),
		zap.Uint("plan_id", plan.ID),
	)
	return sub, nil
}

// Cancel moves a subscription from active to cancelled. Ownership is
// mandatory: a subscription that exists but belongs to someone else reads as
// not found. Cancelling an already-cancelled subscription is reported
// explicitly and mutates nothing. In-flight service requests and maintenance
// visits tied to the subscription are left alone.
func (s *SubscriptionService) Cancel(subscriptionID, actorID uint) (*models.Subscription, error) {
	sub, err := s.subs.GetOwned(subscriptionID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	if sub.Status == models.SubscriptionCancelled {
		return nil, ErrAlreadyCancelled
	}
	if !sub.Status.CanTransitionTo(models.SubscriptionCancelled) {
		return nil, NewInvalidTransition(string(sub.Status), string(models.SubscriptionCancelled))
	}

	// Conditional write: lands only while the row is still active, so two
	// concurrent cancels cannot both report success.
	affected, err := s.subs.UpdateStatusIf(sub.ID, sub.Status, models.SubscriptionCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}
	if affected == 0 {
		return nil, ErrAlreadyCancelled
	}

	logger.L().Info("subscription cancelled",
		zap.Uint("subscription_id", sub.ID),
		zap.Uint("user_id", actorID),
	)
	return s.subs.GetByID(sub.ID)
}

// ListForUser returns the user's subscriptions
func (s *SubscriptionService) ListForUser(userID uint) ([]models.Subscription, error) {
	return s.subs.ListByUser(userID)
}
