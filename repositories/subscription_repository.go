package repositories

import (
	"gorm.io/gorm"

	"github.com/pureflow/pureflow-api/models"
)

// SubscriptionRepository provides typed access to the subscriptions table
type SubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a SubscriptionRepository over the given handle
func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create inserts a new subscription row
func (r *SubscriptionRepository) Create(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

// GetByID fetches a subscription with its plan
func (r *SubscriptionRepository) GetByID(id uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Preload("Plan.Features", orderFeatures).First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetOwned fetches a subscription only when it belongs to the given user.
// Callers use this for ownership-gated operations; a foreign id reads the
// same as a missing one, so nothing leaks about other users' subscriptions.
func (r *SubscriptionRepository) GetOwned(id, userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListByUser returns all subscriptions of a user, newest first
func (r *SubscriptionRepository) ListByUser(userID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Preload("Plan.Features", orderFeatures).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

// HasActive reports whether the user currently holds an active subscription
func (r *SubscriptionRepository) HasActive(userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).
		Where("user_id = ? AND status = ?", userID, models.SubscriptionActive).
		Count(&count).Error
	return count > 0, err
}

// GetActiveByID fetches a subscription only when it is currently active
func (r *SubscriptionRepository) GetActiveByID(id uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("id = ? AND status = ?", id, models.SubscriptionActive).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpdateStatusIf applies a conditional status update: the write only lands
// when the row still carries the expected status. Returns the number of rows
// affected; zero means the precondition no longer held.
func (r *SubscriptionRepository) UpdateStatusIf(id uint, expected, next models.SubscriptionStatus) (int64, error) {
	res := r.db.Model(&models.Subscription{}).
		Where("id = ? AND status = ?", id, expected).
		Update("status", next)
	return res.RowsAffected, res.Error
}
