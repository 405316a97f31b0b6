package services

import (
	"errors"
	"strings"
	"time"

	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/utils"
	"gorm.io/gorm"
)

// CouponEvaluation is the outcome of checking a coupon against a cart total
type CouponEvaluation struct {
	Coupon     *models.Coupon `json:"-"`
	Code       string         `json:"code"`
	CartTotal  float64        `json:"cart_total"`
	Discount   float64        `json:"discount"`
	FinalTotal float64        `json:"final_total"`
}

// CouponInput carries the administrator editable fields of a coupon
type CouponInput struct {
	Code         string
	DiscountType string
	Value        float64
	Expiry       time.Time
	UsageLimit   *int
	Active       *bool
}

// NormalizeCouponCode trims and upper-cases a coupon code
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeDiscountType maps accepted spellings onto the stored discount kinds
func NormalizeDiscountType(kind string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(kind)) {
	case models.DiscountFlat:
		return models.DiscountFlat, true
	case models.DiscountPercentage, "PERCENT":
		return models.DiscountPercentage, true
	}
	return "", false
}

// CalculateCouponDiscount returns the discount a coupon grants on cartTotal.
// The result is never negative and never exceeds cartTotal.
func CalculateCouponDiscount(coupon models.Coupon, cartTotal float64) float64 {
	if cartTotal <= 0 {
		return 0
	}

	var discount float64
	switch coupon.DiscountType {
	case models.DiscountPercentage:
		discount = utils.Percent(cartTotal, coupon.Value)
	default:
		discount = utils.RoundMoney(coupon.Value)
	}

	if discount < 0 {
		return 0
	}
	return utils.MinMoney(discount, cartTotal)
}

// checkCoupon applies the inactive, expired and limit rules in that order
func checkCoupon(coupon *models.Coupon, now time.Time) error {
	if !coupon.Active {
		return ErrCouponInactive
	}
	if now.After(coupon.Expiry) {
		return ErrCouponExpired
	}
	if coupon.LimitReached() {
		return ErrCouponLimitReached
	}
	return nil
}

func findCouponByCode(db *gorm.DB, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := db.Where("code = ?", NormalizeCouponCode(code)).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// EvaluateCoupon validates code against cartTotal without changing anything
func EvaluateCoupon(db *gorm.DB, code string, cartTotal float64, now time.Time) (*CouponEvaluation, error) {
	coupon, err := findCouponByCode(db, code)
	if err != nil {
		return nil, err
	}
	if err := checkCoupon(coupon, now); err != nil {
		return nil, err
	}

	discount := CalculateCouponDiscount(*coupon, cartTotal)
	return &CouponEvaluation{
		Coupon:     coupon,
		Code:       coupon.Code,
		CartTotal:  cartTotal,
		Discount:   discount,
		FinalTotal: utils.RoundMoney(cartTotal - discount),
	}, nil
}

// RedeemCoupon consumes one use of a coupon. The limit check and the
// increment are a single conditional UPDATE so concurrent checkouts cannot
// oversell a limited coupon.
func RedeemCoupon(tx *gorm.DB, couponID uint, now time.Time) error {
	var coupon models.Coupon
	if err := tx.First(&coupon, couponID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCouponNotFound
		}
		return err
	}
	if err := checkCoupon(&coupon, now); err != nil {
		utils.RecordCouponRedemption("rejected")
		return err
	}

	res := tx.Model(&models.Coupon{}).
		Where("id = ?", couponID).
		Where("(usage_limit IS NULL OR used_count < usage_limit)").
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		utils.RecordCouponRedemption("limit_reached")
		return ErrCouponLimitReached
	}

	utils.RecordCouponRedemption("redeemed")
	utils.LogInfo("Coupon %s redeemed", coupon.Code)
	return nil
}

// FeaturedCoupon returns the newest active, unexpired coupon that still has
// uses left, or ErrNoFeaturedCoupon
func FeaturedCoupon(db *gorm.DB, now time.Time) (*models.Coupon, error) {
	var coupons []models.Coupon
	if err := db.Where("active = ?", true).Order("created_at DESC, id DESC").Find(&coupons).Error; err != nil {
		return nil, err
	}
	for i := range coupons {
		if checkCoupon(&coupons[i], now) == nil {
			return &coupons[i], nil
		}
	}
	return nil, ErrNoFeaturedCoupon
}

func validateCouponInput(in *CouponInput) error {
	kind, ok := NormalizeDiscountType(in.DiscountType)
	if !ok || in.Value <= 0 {
		return ErrInvalidDiscount
	}
	if kind == models.DiscountPercentage && in.Value > 100 {
		return utils.BadRequestError("Percentage coupon value cannot exceed 100", nil)
	}
	if in.UsageLimit != nil && *in.UsageLimit < 1 {
		return utils.BadRequestError("Usage limit must be at least 1", nil)
	}
	in.DiscountType = kind
	in.Code = NormalizeCouponCode(in.Code)
	if in.Code == "" {
		return utils.BadRequestError("Coupon code is required", nil)
	}
	return nil
}

// CreateCoupon stores a new coupon; codes are unique regardless of case
func CreateCoupon(db *gorm.DB, in CouponInput, now time.Time) (*models.Coupon, error) {
	if err := validateCouponInput(&in); err != nil {
		return nil, err
	}
	if !in.Expiry.After(now) {
		return nil, utils.BadRequestError("Expiry date must be in the future", nil)
	}

	coupon := models.Coupon{
		Code:         in.Code,
		DiscountType: in.DiscountType,
		Value:        in.Value,
		Expiry:       in.Expiry,
		UsageLimit:   in.UsageLimit,
		Active:       true,
	}
	if in.Active != nil {
		coupon.Active = *in.Active
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Unscoped().Model(&models.Coupon{}).Where("code = ?", coupon.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCouponExists
		}
		return tx.Create(&coupon).Error
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Created coupon %s (id %d)", coupon.Code, coupon.ID)
	return &coupon, nil
}

// UpdateCoupon rewrites the editable fields of a coupon. The used count is
// never touched here.
func UpdateCoupon(db *gorm.DB, id uint, in CouponInput) (*models.Coupon, error) {
	if err := validateCouponInput(&in); err != nil {
		return nil, err
	}

	var coupon models.Coupon
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&coupon, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCouponNotFound
			}
			return err
		}

		if in.Code != coupon.Code {
			var count int64
			if err := tx.Unscoped().Model(&models.Coupon{}).Where("code = ? AND id <> ?", in.Code, id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrCouponExists
			}
		}

		updates := map[string]interface{}{
			"code":          in.Code,
			"discount_type": in.DiscountType,
			"value":         in.Value,
			"expiry":        in.Expiry,
			"usage_limit":   in.UsageLimit,
		}
		if in.Active != nil {
			updates["active"] = *in.Active
		}
		if err := tx.Model(&coupon).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&coupon, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// DeleteCoupon soft deletes a coupon
func DeleteCoupon(db *gorm.DB, id uint) error {
	res := db.Delete(&models.Coupon{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

// ListCoupons returns one page of coupons, newest first
func ListCoupons(db *gorm.DB, p *utils.Pagination, activeOnly bool) ([]models.Coupon, error) {
	query := db.Model(&models.Coupon{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}
	p.SetTotal(total)

	var coupons []models.Coupon
	if err := query.Scopes(p.Scope()).Order("created_at DESC, id DESC").Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}
