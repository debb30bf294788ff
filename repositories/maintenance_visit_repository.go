package repositories

import (
	"gorm.io/gorm"

	"github.com/pureflow/pureflow-api/models"
)

// MaintenanceVisitRepository provides typed access to the maintenance_visits table
type MaintenanceVisitRepository struct {
	db *gorm.DB
}

// NewMaintenanceVisitRepository creates a MaintenanceVisitRepository over the given handle
func NewMaintenanceVisitRepository(db *gorm.DB) *MaintenanceVisitRepository {
	return &MaintenanceVisitRepository{db: db}
}

// Create inserts a new maintenance visit row
func (r *MaintenanceVisitRepository) Create(visit *models.MaintenanceVisit) error {
	return r.db.Create(visit).Error
}

// GetByID fetches a maintenance visit
func (r *MaintenanceVisitRepository) GetByID(id uint) (*models.MaintenanceVisit, error) {
	var visit models.MaintenanceVisit
	if err := r.db.First(&visit, id).Error; err != nil {
		return nil, err
	}
	return &visit, nil
}

// ListByUser returns a user's visits, soonest scheduled first
func (r *MaintenanceVisitRepository) ListByUser(userID uint) ([]models.MaintenanceVisit, error) {
	var visits []models.MaintenanceVisit
	err := r.db.Where("user_id = ?", userID).
		Order("scheduled_date ASC").
		Find(&visits).Error
	return visits, err
}

// ListAll returns every visit, soonest scheduled first (technician/admin views)
func (r *MaintenanceVisitRepository) ListAll() ([]models.MaintenanceVisit, error) {
	var visits []models.MaintenanceVisit
	err := r.db.Order("scheduled_date ASC").Find(&visits).Error
	return visits, err
}

// UpdateStatusIf applies a conditional status (and notes) update; zero rows
// affected means the row no longer carried the expected status.
func (r *MaintenanceVisitRepository) UpdateStatusIf(id uint, expected, next models.MaintenanceVisitStatus, notes *string) (int64, error) {
	updates := map[string]interface{}{"status": next}
	if notes != nil {
		updates["notes"] = notes
	}
	res := r.db.Model(&models.MaintenanceVisit{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	return res.RowsAffected, res.Error
}
