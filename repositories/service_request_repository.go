package repositories

import (
	"gorm.io/gorm"

	"github.com/pureflow/pureflow-api/models"
)

// ServiceRequestRepository provides typed access to the service_requests table
type ServiceRequestRepository struct {
	db *gorm.DB
}

// NewServiceRequestRepository creates a ServiceRequestRepository over the given handle
func NewServiceRequestRepository(db *gorm.DB) *ServiceRequestRepository {
	return &ServiceRequestRepository{db: db}
}

// Create inserts a new service request row
func (r *ServiceRequestRepository) Create(req *models.ServiceRequest) error {
	return r.db.Create(req).Error
}

// GetByID fetches a service request with its service
func (r *ServiceRequestRepository) GetByID(id uint) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	if err := r.db.Preload("Service").First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByUser returns a user's requests, newest first
func (r *ServiceRequestRepository) ListByUser(userID uint) ([]models.ServiceRequest, error) {
	var reqs []models.ServiceRequest
	err := r.db.Preload("Service").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// ListAll returns every request, newest first (technician/admin views)
func (r *ServiceRequestRepository) ListAll() ([]models.ServiceRequest, error) {
	var reqs []models.ServiceRequest
	err := r.db.Preload("Service").Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

// UpdateStatusIf applies a conditional status (and notes) update: the write
// only lands while the row still carries the expected status. Zero rows
// affected means the precondition no longer held.
func (r *ServiceRequestRepository) UpdateStatusIf(id uint, expected, next models.ServiceRequestStatus, notes *string) (int64, error) {
	updates := map[string]interface{}{"status": next}
	if notes != nil {
		updates["technician_notes"] = notes
	}
	res := r.db.Model(&models.ServiceRequest{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// SetPhotoKey records the storage key of an uploaded request photo
func (r *ServiceRequestRepository) SetPhotoKey(id uint, s3Key string) error {
	return r.db.Model(&models.ServiceRequest{}).
		Where("id = ?", id).
		Update("photo_s3_key", s3Key).Error
}
