package models

import (
	"time"
)

// DeliveryCharge overrides the default delivery fee for a postal code
type DeliveryCharge struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Pincode        string    `json:"pincode" gorm:"uniqueIndex;not null"`
	Charge         float64   `json:"charge" gorm:"not null"`
	MinOrderAmount float64   `json:"min_order_amount" gorm:"default:0"` // free above this, 0 disables
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
