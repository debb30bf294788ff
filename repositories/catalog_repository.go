package repositories

import (
	"gorm.io/gorm"

	"github.com/pureflow/pureflow-api/models"
)

// CatalogRepository reads the reference tables (plans, services, locations)
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a CatalogRepository over the given handle
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func orderFeatures(db *gorm.DB) *gorm.DB {
	return db.Order("plan_features.position ASC")
}

// GetAllPlans returns every plan with its ordered feature list
func (r *CatalogRepository) GetAllPlans() ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Preload("Features", orderFeatures).Order("price ASC").Find(&plans).Error
	return plans, err
}

// GetPlanByID fetches one plan with its ordered feature list
func (r *CatalogRepository) GetPlanByID(id uint) (*models.Plan, error) {
	var plan models.Plan
	if err := r.db.Preload("Features", orderFeatures).First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetAllServices returns the service catalog
func (r *CatalogRepository) GetAllServices() ([]models.Service, error) {
	var services []models.Service
	err := r.db.Order("id ASC").Find(&services).Error
	return services, err
}

// GetServiceByID fetches one service
func (r *CatalogRepository) GetServiceByID(id uint) (*models.Service, error) {
	var service models.Service
	if err := r.db.First(&service, id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// GetAllLocations returns every branch, head office first
func (r *CatalogRepository) GetAllLocations() ([]models.Location, error) {
	var locations []models.Location
	err := r.db.Order("is_head_office DESC, id ASC").Find(&locations).Error
	return locations, err
}
