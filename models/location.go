package models

import (
	"time"
)

// Location represents a branch office. Reference data; the seeder guarantees
// exactly one row with IsHeadOffice set.
type Location struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Address       string    `gorm:"not null" json:"address"`
	Phone         string    `gorm:"not null" json:"phone"`
	Email         string    `gorm:"not null" json:"email"`
	BusinessHours string    `gorm:"not null" json:"business_hours"`
	Latitude      float64   `gorm:"not null" json:"latitude"`
	Longitude     float64   `gorm:"not null" json:"longitude"`
	IsHeadOffice  bool      `gorm:"not null;default:false" json:"is_head_office"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Location model
func (Location) TableName() string {
	return "locations"
}
