package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon discount kinds
const (
	DiscountFlat       = "FLAT"
	DiscountPercentage = "PERCENTAGE"
)

type Coupon struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Code         string         `gorm:"uniqueIndex;not null" json:"code"`
	DiscountType string         `gorm:"not null" json:"discount_type"`
	Value        float64        `json:"value"`
	Expiry       time.Time      `json:"expiry"`
	UsageLimit   *int           `json:"usage_limit"` // nil means unlimited
	UsedCount    int            `gorm:"default:0" json:"used_count"`
	Active       bool           `json:"active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// LimitReached reports whether a usage limit is set and exhausted
func (c Coupon) LimitReached() bool {
	return c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit
}
