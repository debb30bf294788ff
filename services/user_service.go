package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pureflow/pureflow-api/models"
	"github.com/pureflow/pureflow-api/repositories"
)

// RegisterUserInput carries the fields submitted on registration
type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
	Phone    *string
	Address  *string
}

// UserService handles account creation and profile updates. Credential
// verification and session issuance live with the external auth collaborator;
// this service only stores the hash it will verify against.
type UserService struct {
	users *repositories.UserRepository
}

// NewUserService creates a UserService over the given handle
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{users: repositories.NewUserRepository(db)}
}

// Register creates a new client account with a bcrypt password hash
func (s *UserService) Register(in RegisterUserInput) (*models.User, error) {
	if in.Name == "" {
		return nil, NewValidationError("name is required")
	}
	if in.Email == "" {
		return nil, NewValidationError("email is required")
	}
	if len(in.Password) < 8 {
		return nil, NewValidationError("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         in.Name,
		Email:        strings.ToLower(in.Email),
		PasswordHash: string(hash),
		Phone:        in.Phone,
		Address:      in.Address,
		Role:         models.RoleClient,
	}
	if err := s.users.Create(user); err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") || strings.Contains(errMsg, "unique") {
			return nil, &ServiceError{Code: CodeConflict, Message: "A user with this email already exists"}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByID fetches a user profile
func (s *UserService) GetByID(id uint) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// UpdateProfile changes the mutable profile fields of a user
func (s *UserService) UpdateProfile(id uint, name *string, phone, address *string) (*models.User, error) {
	updates := map[string]interface{}{}
	if name != nil {
		if *name == "" {
			return nil, NewValidationError("name cannot be empty")
		}
		updates["name"] = *name
	}
	if phone != nil {
		updates["phone"] = phone
	}
	if address != nil {
		updates["address"] = address
	}
	if len(updates) == 0 {
		return s.GetByID(id)
	}

	if err := s.users.UpdateProfile(id, updates); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetByID(id)
}
