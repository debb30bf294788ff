package testutil

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pureflow/pureflow-api/config"
	"github.com/pureflow/pureflow-api/models"
	"github.com/pureflow/pureflow-api/schema"
)

// NewTestDB opens a fresh in-memory store, reconciles it to the canonical
// catalog and seeds the reference data, exactly as main does at startup.
// The handle is also installed as the process-wide DB so controllers reach it.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// each pooled connection to :memory: is a distinct database
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := schema.Reconcile(db); err != nil {
		t.Fatalf("Failed to reconcile test schema: %v", err)
	}
	if err := schema.SeedIfEmpty(db); err != nil {
		t.Fatalf("Failed to seed test reference data: %v", err)
	}

	config.SetDB(db)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user row directly, bypassing registration. The
// password hash is a throwaway since these users never authenticate.
func CreateUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user %s: %v", email, err)
	}
	return user
}

// CheapestPlan returns the seeded plan with the lowest price.
func CheapestPlan(t *testing.T, db *gorm.DB) *models.Plan {
	t.Helper()

	var plan models.Plan
	if err := db.Order("price ASC").First(&plan).Error; err != nil {
		t.Fatalf("Failed to load seeded plan: %v", err)
	}
	return &plan
}

// FirstService returns the first seeded catalog service.
func FirstService(t *testing.T, db *gorm.DB) *models.Service {
	t.Helper()

	var service models.Service
	if err := db.Order("id ASC").First(&service).Error; err != nil {
		t.Fatalf("Failed to load seeded service: %v", err)
	}
	return &service
}
