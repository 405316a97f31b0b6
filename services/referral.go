package services

import (
	"errors"
	"strings"
	"unicode"

	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	referralPrefixLen       = 3
	referralSuffixLen       = 6
	maxReferralCodeAttempts = 8
)

// referralSuffix returns the random part of a referral code
var referralSuffix = func() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:referralSuffixLen])
}

// ReferralSummary is what a customer sees about their own referrals
type ReferralSummary struct {
	ReferralCode    string                       `json:"referral_code"`
	TotalReferrals  int                          `json:"total_referrals"`
	ReferralRewards float64                      `json:"referral_rewards"`
	ReferredBy      *uint                        `json:"referred_by,omitempty"`
	Recent          []models.ReferralTransaction `json:"recent"`
}

// referralPrefix takes the first three letters of a name, upper-cased and
// padded with X for short names
func referralPrefix(name string) string {
	var b strings.Builder
	for _, r := range name {
		if b.Len() == referralPrefixLen {
			break
		}
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	for b.Len() < referralPrefixLen {
		b.WriteByte('X')
	}
	return b.String()
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}

// GetOrCreateReferralCode returns the user's referral code, generating and
// storing one on first use. Colliding codes are regenerated.
func GetOrCreateReferralCode(db *gorm.DB, userID uint) (string, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if user.ReferralCode != nil && *user.ReferralCode != "" {
		return *user.ReferralCode, nil
	}

	prefix := referralPrefix(user.Name)
	for attempt := 0; attempt < maxReferralCodeAttempts; attempt++ {
		code := prefix + referralSuffix()

		var taken int64
		if err := db.Unscoped().Model(&models.User{}).Where("referral_code = ?", code).Count(&taken).Error; err != nil {
			return "", err
		}
		if taken > 0 {
			utils.LogDebug("Referral code %s already taken, regenerating", code)
			continue
		}

		res := db.Model(&models.User{}).
			Where("id = ? AND referral_code IS NULL", userID).
			Update("referral_code", code)
		if res.Error != nil {
			if isDuplicateKey(res.Error) {
				continue
			}
			return "", res.Error
		}
		if res.RowsAffected == 0 {
			// a concurrent request stored a code first
			if err := db.First(&user, userID).Error; err != nil {
				return "", err
			}
			if user.ReferralCode != nil {
				return *user.ReferralCode, nil
			}
			continue
		}

		utils.LogInfo("Generated referral code %s for user %d", code, userID)
		return code, nil
	}

	utils.LogError("Could not allocate referral code for user %d after %d attempts", userID, maxReferralCodeAttempts)
	return "", ErrReferralCodeSpace
}

// applyReferral writes the referred-by link inside tx and returns the referrer
func applyReferral(tx *gorm.DB, userID uint, code string) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.ReferredBy != nil {
		return nil, ErrAlreadyReferred
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrInvalidReferralCode
	}

	referrer, err := findReferrer(tx, code)
	if err != nil {
		return nil, err
	}
	if referrer.ID == user.ID {
		return nil, ErrSelfReferral
	}

	res := tx.Model(&models.User{}).
		Where("id = ? AND referred_by IS NULL", userID).
		Update("referred_by", referrer.ID)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyReferred
	}

	utils.LogInfo("User %d applied referral code %s", userID, code)
	return referrer, nil
}

func findReferrer(db *gorm.DB, code string) (*models.User, error) {
	var referrer models.User
	if err := db.Where("referral_code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&referrer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidReferralCode
		}
		return nil, err
	}
	return &referrer, nil
}

// ApplyReferralCode links userID to the owner of code and returns the
// referrer's name. The link is written at most once.
func ApplyReferralCode(db *gorm.DB, userID uint, code string) (string, error) {
	var referrer *models.User
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		referrer, err = applyReferral(tx, userID, code)
		return err
	})
	if err != nil {
		return "", err
	}
	return referrer.Name, nil
}

// hasPriorOrders reports whether the user has placed an order that was not
// cancelled
func hasPriorOrders(db *gorm.DB, userID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Order{}).
		Where("user_id = ? AND status <> ?", userID, models.OrderStatusCancelled).
		Count(&count).Error
	return count > 0, err
}

// RecordConversion appends a ledger row and credits the referrer. Callers
// make sure it runs once per referee.
func RecordConversion(tx *gorm.DB, referrerID, refereeID, orderID uint, orderValue, reward float64) (*models.ReferralTransaction, error) {
	entry := models.ReferralTransaction{
		ReferrerID:   referrerID,
		RefereeID:    refereeID,
		OrderID:      orderID,
		OrderValue:   utils.RoundMoney(orderValue),
		RewardAmount: utils.RoundMoney(reward),
		Status:       models.ReferralStatusCredited,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}

	res := tx.Model(&models.User{}).Where("id = ?", referrerID).Updates(map[string]interface{}{
		"total_referrals":  gorm.Expr("total_referrals + ?", 1),
		"referral_rewards": gorm.Expr("referral_rewards + ?", entry.RewardAmount),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	utils.LogInfo("Referral conversion: referrer %d earned %.2f from referee %d (order %d)",
		referrerID, entry.RewardAmount, refereeID, orderID)
	return &entry, nil
}

// GetReferralSummary collects a customer's referral code, totals and latest
// ledger entries
func GetReferralSummary(db *gorm.DB, userID uint) (*ReferralSummary, error) {
	code, err := GetOrCreateReferralCode(db, userID)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	summary := &ReferralSummary{
		ReferralCode:    code,
		TotalReferrals:  user.TotalReferrals,
		ReferralRewards: user.ReferralRewards,
		ReferredBy:      user.ReferredBy,
	}
	if err := db.Where("referrer_id = ?", userID).Order("created_at DESC, id DESC").Limit(5).Find(&summary.Recent).Error; err != nil {
		return nil, err
	}
	return summary, nil
}

// ListReferralTransactions pages through the ledger, optionally for one referrer
func ListReferralTransactions(db *gorm.DB, referrerID *uint, p *utils.Pagination) ([]models.ReferralTransaction, error) {
	query := db.Model(&models.ReferralTransaction{})
	if referrerID != nil {
		query = query.Where("referrer_id = ?", *referrerID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}
	p.SetTotal(total)

	var entries []models.ReferralTransaction
	if err := query.Scopes(p.Scope()).Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
