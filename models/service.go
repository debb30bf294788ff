package models

import (
	"time"
)

// Service represents one type of work a client can request (installation,
// filter replacement, repair, ...). Reference data.
type Service struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	Description      string    `gorm:"not null" json:"description"`
	ShortDescription string    `gorm:"not null" json:"short_description"`
	Icon             string    `gorm:"not null" json:"icon"`
	PriceFrom        int64     `gorm:"not null" json:"price_from"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}
