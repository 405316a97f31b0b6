package models

import (
	"time"
)

// Delivery partner statuses
const (
	PartnerAvailable = "AVAILABLE"
	PartnerBusy      = "BUSY"
)

type DeliveryPartner struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `gorm:"uniqueIndex;not null" json:"phone"`
	Email     string    `json:"email"`
	Status    string    `gorm:"default:AVAILABLE;index" json:"status"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
