package models

import (
	"time"
)

// Referral transaction statuses
const (
	ReferralStatusCredited = "CREDITED"
)

// ReferralTransaction is an append-only ledger row written once per
// converted referee
type ReferralTransaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ReferrerID   uint      `gorm:"index;not null" json:"referrer_id"`
	RefereeID    uint      `gorm:"uniqueIndex;not null" json:"referee_id"`
	OrderID      uint      `json:"order_id"`
	OrderValue   float64   `json:"order_value"`
	RewardAmount float64   `json:"reward_amount"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
