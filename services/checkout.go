package services

import (
	"errors"
	"strings"
	"time"

	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/utils"
	"gorm.io/gorm"
)

// PricingPolicy holds the knobs checkout pricing depends on
type PricingPolicy struct {
	CGSTRate                float64
	SGSTRate                float64
	DeliveryFee             float64
	FreeDeliveryThreshold   float64
	ReferralDiscountPercent float64
	ReferralDiscountCap     float64
	ReferrerRewardPercent   float64
	PointsPerUnit           float64
}

// DefaultPricingPolicy mirrors the configuration defaults
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		CGSTRate:                2.5,
		SGSTRate:                2.5,
		DeliveryFee:             40,
		FreeDeliveryThreshold:   499,
		ReferralDiscountPercent: 10,
		ReferralDiscountCap:     100,
		ReferrerRewardPercent:   5,
		PointsPerUnit:           DefaultPointsPerUnit,
	}
}

// PricingInput is everything PriceOrder needs besides the policy
type PricingInput struct {
	Subtotal         float64
	CouponCode       string
	CouponDiscount   float64
	ReferralEligible bool
	Tier             Tier
	// Delivery overrides the policy fee for the delivery postal code
	Delivery *models.DeliveryCharge
}

// PriceBreakdown is the priced cart
type PriceBreakdown struct {
	Subtotal           float64 `json:"subtotal"`
	CouponCode         string  `json:"coupon_code,omitempty"`
	CouponDiscount     float64 `json:"coupon_discount"`
	ReferralDiscount   float64 `json:"referral_discount"`
	Tier               Tier    `json:"membership_tier"`
	MembershipDiscount float64 `json:"membership_discount"`
	DiscountAmount     float64 `json:"discount_amount"`
	TaxableAmount      float64 `json:"taxable_amount"`
	CGSTRate           float64 `json:"cgst_rate"`
	CGSTAmount         float64 `json:"cgst_amount"`
	SGSTRate           float64 `json:"sgst_rate"`
	SGSTAmount         float64 `json:"sgst_amount"`
	DeliveryFee        float64 `json:"delivery_fee"`
	FreeDelivery       bool    `json:"free_delivery"`
	GrandTotal         float64 `json:"grand_total"`
}

// ReferralDiscountFor is the first-order discount of a referred customer
func ReferralDiscountFor(policy PricingPolicy, amount float64) float64 {
	if amount <= 0 || policy.ReferralDiscountPercent <= 0 {
		return 0
	}
	discount := utils.Percent(amount, policy.ReferralDiscountPercent)
	if policy.ReferralDiscountCap > 0 {
		discount = utils.MinMoney(discount, policy.ReferralDiscountCap)
	}
	return discount
}

// PriceOrder applies coupon, referral and membership discounts in that order,
// each bounded by what is left of the subtotal, then adds tax on the
// discounted amount and the delivery fee
func PriceOrder(in PricingInput, policy PricingPolicy) PriceBreakdown {
	subtotal := utils.RoundMoney(in.Subtotal)
	if subtotal < 0 {
		subtotal = 0
	}
	tier := in.Tier
	if TierRank(tier) < 0 {
		tier = TierBronze
	}

	out := PriceBreakdown{
		Subtotal:   subtotal,
		CouponCode: in.CouponCode,
		Tier:       tier,
		CGSTRate:   policy.CGSTRate,
		SGSTRate:   policy.SGSTRate,
	}
	remaining := subtotal

	if in.CouponDiscount > 0 {
		out.CouponDiscount = utils.MinMoney(utils.RoundMoney(in.CouponDiscount), remaining)
		remaining = utils.RoundMoney(remaining - out.CouponDiscount)
	}
	if in.ReferralEligible {
		out.ReferralDiscount = utils.MinMoney(ReferralDiscountFor(policy, subtotal), remaining)
		remaining = utils.RoundMoney(remaining - out.ReferralDiscount)
	}
	benefits := BenefitsFor(tier)
	if benefits.DiscountPercent > 0 {
		out.MembershipDiscount = utils.MinMoney(utils.Percent(remaining, benefits.DiscountPercent), remaining)
		remaining = utils.RoundMoney(remaining - out.MembershipDiscount)
	}

	out.DiscountAmount = utils.RoundMoney(out.CouponDiscount + out.ReferralDiscount + out.MembershipDiscount)
	out.TaxableAmount = remaining
	out.CGSTAmount = utils.Percent(remaining, policy.CGSTRate)
	out.SGSTAmount = utils.Percent(remaining, policy.SGSTRate)

	fee, freeAbove := policy.DeliveryFee, policy.FreeDeliveryThreshold
	if in.Delivery != nil && in.Delivery.IsActive {
		fee, freeAbove = in.Delivery.Charge, in.Delivery.MinOrderAmount
	}
	if subtotal == 0 || benefits.FreeDelivery || (freeAbove > 0 && subtotal >= freeAbove) {
		out.FreeDelivery = true
		fee = 0
	}
	out.DeliveryFee = utils.RoundMoney(fee)

	out.GrandTotal = utils.RoundMoney(remaining + out.CGSTAmount + out.SGSTAmount + out.DeliveryFee)
	return out
}

// CartLine is one requested menu item
type CartLine struct {
	MenuItemID uint  `json:"menu_item_id" binding:"required"`
	VariantID  *uint `json:"variant_id"`
	Quantity   int   `json:"quantity" binding:"required"`
}

// CheckoutRequest is a cart submitted for pricing or ordering. UserID is nil
// for guest checkout.
type CheckoutRequest struct {
	UserID        *uint
	GuestName     string
	GuestPhone    string
	Items         []CartLine
	CouponCode    string
	ReferralCode  string
	PaymentMethod string
	ScheduledFor  *time.Time
	AddressLine   string
	City          string
	PostalCode    string
}

// Quote is a priced cart that has not been ordered
type Quote struct {
	Items         []models.OrderItem `json:"items"`
	Pricing       PriceBreakdown     `json:"pricing"`
	InitialStatus string             `json:"initial_status"`
}

// NormalizePaymentMethod maps accepted spellings onto the stored methods
func NormalizePaymentMethod(method string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case "", models.PaymentMethodCOD:
		return models.PaymentMethodCOD, true
	case models.PaymentMethodOnline, "RAZORPAY":
		return models.PaymentMethodOnline, true
	}
	return "", false
}

func validateCheckout(req *CheckoutRequest, now time.Time) error {
	if len(req.Items) == 0 {
		return ErrEmptyCart
	}
	method, ok := NormalizePaymentMethod(req.PaymentMethod)
	if !ok {
		return ErrInvalidPayment
	}
	req.PaymentMethod = method
	if req.ScheduledFor != nil && !req.ScheduledFor.After(now) {
		return ErrScheduleInPast
	}
	if req.UserID == nil && (strings.TrimSpace(req.GuestName) == "" || strings.TrimSpace(req.GuestPhone) == "") {
		return utils.BadRequestError("Guest checkout needs a name and phone number", nil)
	}
	return nil
}

// snapshotItems prices each line from the current menu
func snapshotItems(tx *gorm.DB, lines []CartLine) ([]models.OrderItem, float64, error) {
	items := make([]models.OrderItem, 0, len(lines))
	var subtotal float64
	for _, line := range lines {
		if line.Quantity < 1 || line.Quantity > utils.MaxLineQuantity {
			return nil, 0, ErrInvalidQuantity
		}

		var menuItem models.MenuItem
		if err := tx.Preload("Variants").First(&menuItem, line.MenuItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, ErrMenuItemNotFound
			}
			return nil, 0, err
		}
		if !menuItem.IsAvailable {
			return nil, 0, ErrMenuItemUnavailable
		}

		item := models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			UnitPrice:  menuItem.Price,
			Quantity:   line.Quantity,
		}
		if line.VariantID != nil {
			found := false
			for _, v := range menuItem.Variants {
				if v.ID == *line.VariantID {
					item.Variant = v.Name
					item.UnitPrice = v.Price
					found = true
					break
				}
			}
			if !found {
				return nil, 0, ErrVariantNotFound
			}
		}
		item.LineTotal = utils.RoundMoney(item.UnitPrice * float64(item.Quantity))
		subtotal += item.LineTotal
		items = append(items, item)
	}
	return items, utils.RoundMoney(subtotal), nil
}

// DeliveryChargeFor returns the active override for a postal code, or nil
func DeliveryChargeFor(db *gorm.DB, pincode string) (*models.DeliveryCharge, error) {
	pincode = strings.TrimSpace(pincode)
	if pincode == "" {
		return nil, nil
	}
	var charge models.DeliveryCharge
	if err := db.Where("pincode = ? AND is_active = ?", pincode, true).First(&charge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &charge, nil
}

// checkoutPlan is a priced cart ready to be stored
type checkoutPlan struct {
	user     *models.User
	items    []models.OrderItem
	coupon   *models.Coupon
	referral bool
	pricing  PriceBreakdown
}

// planCheckout prices a cart. With commit set it also redeems the coupon and
// writes the referral link; otherwise it only reads.
func planCheckout(tx *gorm.DB, req CheckoutRequest, policy PricingPolicy, now time.Time, commit bool) (*checkoutPlan, error) {
	plan := &checkoutPlan{}

	if req.UserID != nil {
		var user models.User
		if err := tx.First(&user, *req.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		if user.IsBlocked {
			return nil, ErrUserBlocked
		}
		plan.user = &user
	}

	items, subtotal, err := snapshotItems(tx, req.Items)
	if err != nil {
		return nil, err
	}
	plan.items = items

	input := PricingInput{Subtotal: subtotal, Tier: TierBronze}

	if code := NormalizeCouponCode(req.CouponCode); code != "" {
		eval, err := EvaluateCoupon(tx, code, subtotal, now)
		if err != nil {
			return nil, err
		}
		if commit {
			if err := RedeemCoupon(tx, eval.Coupon.ID, now); err != nil {
				return nil, err
			}
		}
		plan.coupon = eval.Coupon
		input.CouponCode = eval.Code
		input.CouponDiscount = eval.Discount
	}

	if plan.user != nil {
		eligible, err := referralEligibility(tx, plan.user, req.ReferralCode, commit)
		if err != nil {
			return nil, err
		}
		plan.referral = eligible
		input.ReferralEligible = eligible
		input.Tier = EffectiveTier(*plan.user)
	} else if strings.TrimSpace(req.ReferralCode) != "" {
		utils.LogDebug("Ignoring referral code on guest checkout")
	}

	delivery, err := DeliveryChargeFor(tx, req.PostalCode)
	if err != nil {
		return nil, err
	}
	input.Delivery = delivery

	plan.pricing = PriceOrder(input, policy)
	return plan, nil
}

// referralEligibility applies a referral code supplied at checkout when the
// customer has none yet and reports whether this is a referred first order
func referralEligibility(tx *gorm.DB, user *models.User, code string, commit bool) (bool, error) {
	referred := user.ReferredBy != nil
	if strings.TrimSpace(code) != "" && !referred {
		if commit {
			referrer, err := applyReferral(tx, user.ID, code)
			if err != nil {
				return false, err
			}
			user.ReferredBy = &referrer.ID
		} else {
			referrer, err := findReferrer(tx, code)
			if err != nil {
				return false, err
			}
			if referrer.ID == user.ID {
				return false, ErrSelfReferral
			}
		}
		referred = true
	}
	if !referred {
		return false, nil
	}

	prior, err := hasPriorOrders(tx, user.ID)
	if err != nil {
		return false, err
	}
	if prior {
		return false, nil
	}

	var converted int64
	if err := tx.Model(&models.ReferralTransaction{}).Where("referee_id = ?", user.ID).Count(&converted).Error; err != nil {
		return false, err
	}
	return converted == 0, nil
}

// QuoteOrder prices a cart without redeeming anything
func QuoteOrder(db *gorm.DB, req CheckoutRequest, policy PricingPolicy, now time.Time) (*Quote, error) {
	if err := validateCheckout(&req, now); err != nil {
		return nil, err
	}
	plan, err := planCheckout(db, req, policy, now, false)
	if err != nil {
		return nil, err
	}
	return &Quote{
		Items:         plan.items,
		Pricing:       plan.pricing,
		InitialStatus: InitialStatus(req.ScheduledFor, now),
	}, nil
}

// PlaceOrder prices the cart, redeems its coupon and stores the order with
// its items in a single transaction
func PlaceOrder(db *gorm.DB, req CheckoutRequest, policy PricingPolicy, now time.Time) (*models.Order, error) {
	if err := validateCheckout(&req, now); err != nil {
		return nil, err
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		plan, err := planCheckout(tx, req, policy, now, true)
		if err != nil {
			return err
		}

		number, err := NextSequence(tx, models.SequenceOrderNumber)
		if err != nil {
			return err
		}

		p := plan.pricing
		order = models.Order{
			OrderNumber:           number,
			UserID:                req.UserID,
			GuestName:             strings.TrimSpace(req.GuestName),
			GuestPhone:            strings.TrimSpace(req.GuestPhone),
			Status:                InitialStatus(req.ScheduledFor, now),
			ScheduledFor:          req.ScheduledFor,
			AddressLine:           strings.TrimSpace(req.AddressLine),
			City:                  strings.TrimSpace(req.City),
			PostalCode:            strings.TrimSpace(req.PostalCode),
			Subtotal:              p.Subtotal,
			CouponCode:            p.CouponCode,
			CouponDiscount:        p.CouponDiscount,
			ReferralDiscount:      p.ReferralDiscount,
			MembershipDiscount:    p.MembershipDiscount,
			DiscountAmount:        p.DiscountAmount,
			CGSTRate:              p.CGSTRate,
			CGSTAmount:            p.CGSTAmount,
			SGSTRate:              p.SGSTRate,
			SGSTAmount:            p.SGSTAmount,
			DeliveryFee:           p.DeliveryFee,
			GrandTotal:            p.GrandTotal,
			PaymentMethod:         req.PaymentMethod,
			PaymentStatus:         models.PaymentStatusPending,
			ReferralRewardPending: plan.referral,
			OrderItems:            plan.items,
		}
		if plan.coupon != nil {
			order.CouponID = &plan.coupon.ID
		}
		if plan.user != nil {
			order.GuestName = ""
			order.GuestPhone = ""
		}

		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	utils.OrdersPlaced.WithLabelValues(order.PaymentMethod).Inc()
	utils.LogInfo("Order %d (#%d) placed: subtotal %.2f, discount %.2f, total %.2f, status %s",
		order.ID, order.OrderNumber, order.Subtotal, order.DiscountAmount, order.GrandTotal, order.Status)
	return &order, nil
}
