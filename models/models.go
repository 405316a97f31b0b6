package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

// User represents a customer or a member of staff
type User struct {
	gorm.Model
	Name             string     `gorm:"not null" json:"name"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Phone            string     `json:"phone"`
	Password         string     `json:"-"`
	Role             string     `gorm:"default:customer" json:"role"`
	IsBlocked        bool       `json:"is_blocked"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	ReferralCode     *string    `gorm:"uniqueIndex" json:"referral_code,omitempty"`
	ReferredBy       *uint      `gorm:"index" json:"referred_by,omitempty"`
	TotalReferrals   int        `gorm:"default:0" json:"total_referrals"`
	ReferralRewards  float64    `gorm:"default:0" json:"referral_rewards"`
	LifetimeSpending float64    `gorm:"default:0" json:"lifetime_spending"`
	MembershipTier   string     `gorm:"default:BRONZE" json:"membership_tier"`
	MembershipPoints int64      `gorm:"default:0" json:"membership_points"`
}

// IsStaff reports whether the user may use the back-office
func (u User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleStaff
}
