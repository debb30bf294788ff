package repositories

import (
	"gorm.io/gorm"

	"github.com/pureflow/pureflow-api/models"
)

// UserRepository provides typed access to the users table, scoped to one
// acquired database handle.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a UserRepository over the given handle
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user row
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID fetches a user by primary key
func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail fetches a user by unique email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates the mutable profile fields of a user
func (r *UserRepository) UpdateProfile(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}
