package services

import (
	"testing"
	"time"

	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceOrder(t *testing.T) {
	policy := DefaultPricingPolicy()

	t.Run("coupon only", func(t *testing.T) {
		p := PriceOrder(PricingInput{Subtotal: 500, CouponCode: "SAVE10", CouponDiscount: 50, Tier: TierBronze}, policy)
		assert.Equal(t, 50.0, p.DiscountAmount)
		assert.Equal(t, 450.0, p.TaxableAmount)
		assert.Equal(t, 11.25, p.CGSTAmount)
		assert.Equal(t, 11.25, p.SGSTAmount)
		assert.True(t, p.FreeDelivery)
		assert.Equal(t, 472.5, p.GrandTotal)
	})

	t.Run("small cart pays delivery", func(t *testing.T) {
		p := PriceOrder(PricingInput{Subtotal: 200, Tier: TierBronze}, policy)
		assert.Equal(t, 40.0, p.DeliveryFee)
		assert.Equal(t, 250.0, p.GrandTotal)
	})

	t.Run("discounts never exceed subtotal", func(t *testing.T) {
		p := PriceOrder(PricingInput{Subtotal: 100, CouponDiscount: 200, ReferralEligible: true, Tier: TierPlatinum}, policy)
		assert.Equal(t, 100.0, p.CouponDiscount)
		assert.Zero(t, p.ReferralDiscount)
		assert.Zero(t, p.MembershipDiscount)
		assert.Equal(t, 100.0, p.DiscountAmount)
		assert.Zero(t, p.TaxableAmount)
		assert.Equal(t, 0.0, p.DeliveryFee)
		assert.Equal(t, 0.0, p.GrandTotal)
	})

	t.Run("referral then membership", func(t *testing.T) {
		p := PriceOrder(PricingInput{Subtotal: 2000, ReferralEligible: true, Tier: TierSilver}, policy)
		assert.Equal(t, 100.0, p.ReferralDiscount, "capped")
		assert.Equal(t, 38.0, p.MembershipDiscount)
		assert.Equal(t, 138.0, p.DiscountAmount)
		assert.Equal(t, 1862.0, p.TaxableAmount)
	})

	t.Run("pincode override", func(t *testing.T) {
		charge := &models.DeliveryCharge{Pincode: "560001", Charge: 25, MinOrderAmount: 1000, IsActive: true}
		p := PriceOrder(PricingInput{Subtotal: 600, Tier: TierBronze, Delivery: charge}, policy)
		assert.Equal(t, 25.0, p.DeliveryFee)
		assert.False(t, p.FreeDelivery)
	})

	t.Run("gold delivers free", func(t *testing.T) {
		p := PriceOrder(PricingInput{Subtotal: 150, Tier: TierGold}, policy)
		assert.True(t, p.FreeDelivery)
		assert.Zero(t, p.DeliveryFee)
	})
}

func TestPlaceOrder_WithCoupon(t *testing.T) {
	db := testDB(t)
	user := CreateTestUser(t, db, "Hari")
	biryani := CreateTestMenuItem(t, db, "Biryani", 250)
	coupon := CreateTestCoupon(t, db, "SAVE10", models.DiscountPercentage, 10, intPtr(1))

	order, err := PlaceOrder(db, CheckoutRequest{
		UserID:     &user.ID,
		Items:      []CartLine{{MenuItemID: biryani.ID, Quantity: 2}},
		CouponCode: "save10",
		PostalCode: "560001",
	}, DefaultPricingPolicy(), testNow)
	require.NoError(t, err)

	assert.Equal(t, int64(1), order.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentMethodCOD, order.PaymentMethod)
	assert.Equal(t, 500.0, order.Subtotal)
	assert.Equal(t, 50.0, order.CouponDiscount)
	assert.Equal(t, coupon.ID, *order.CouponID)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, 500.0, order.OrderItems[0].LineTotal)

	var stored models.Coupon
	require.NoError(t, db.First(&stored, coupon.ID).Error)
	assert.Equal(t, 1, stored.UsedCount)

	_, err = PlaceOrder(db, CheckoutRequest{
		UserID:     &user.ID,
		Items:      []CartLine{{MenuItemID: biryani.ID, Quantity: 1}},
		CouponCode: "SAVE10",
	}, DefaultPricingPolicy(), testNow)
	assert.ErrorIs(t, err, ErrCouponLimitReached)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Equal(t, int64(1), orders)
}

func TestPlaceOrder_Validation(t *testing.T) {
	db := testDB(t)
	dosa := CreateTestMenuItem(t, db, "Dosa", 90)
	soldOut := CreateTestMenuItem(t, db, "Idli", 60)
	require.NoError(t, db.Model(soldOut).Update("is_available", false).Error)

	policy := DefaultPricingPolicy()
	guest := func(lines ...CartLine) CheckoutRequest {
		return CheckoutRequest{GuestName: "Walk In", GuestPhone: "9876543210", Items: lines}
	}

	_, err := PlaceOrder(db, guest(), policy, testNow)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = PlaceOrder(db, guest(CartLine{MenuItemID: dosa.ID, Quantity: 0}), policy, testNow)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = PlaceOrder(db, guest(CartLine{MenuItemID: 999, Quantity: 1}), policy, testNow)
	assert.ErrorIs(t, err, ErrMenuItemNotFound)

	_, err = PlaceOrder(db, guest(CartLine{MenuItemID: soldOut.ID, Quantity: 1}), policy, testNow)
	assert.ErrorIs(t, err, ErrMenuItemUnavailable)

	_, err = PlaceOrder(db, guest(CartLine{MenuItemID: dosa.ID, Quantity: 1, VariantID: uintPtr(77)}), policy, testNow)
	assert.ErrorIs(t, err, ErrVariantNotFound)

	req := guest(CartLine{MenuItemID: dosa.ID, Quantity: 1})
	req.PaymentMethod = "CHEQUE"
	_, err = PlaceOrder(db, req, policy, testNow)
	assert.ErrorIs(t, err, ErrInvalidPayment)

	req = guest(CartLine{MenuItemID: dosa.ID, Quantity: 1})
	req.ScheduledFor = timePtr(testNow.Add(-time.Hour))
	_, err = PlaceOrder(db, req, policy, testNow)
	assert.ErrorIs(t, err, ErrScheduleInPast)

	_, err = PlaceOrder(db, CheckoutRequest{Items: []CartLine{{MenuItemID: dosa.ID, Quantity: 1}}}, policy, testNow)
	assert.Equal(t, utils.KindInvalid, utils.Kind(err))
}

func TestPlaceOrder_GuestScheduledWithVariant(t *testing.T) {
	db := testDB(t)
	pizza := &models.MenuItem{
		Name:        "Pizza",
		Price:       300,
		IsAvailable: true,
		Variants:    []models.MenuItemVariant{{Name: "Large", Price: 450}},
	}
	require.NoError(t, db.Create(pizza).Error)

	order, err := PlaceOrder(db, CheckoutRequest{
		GuestName:     "Guest",
		GuestPhone:    "9876543210",
		Items:         []CartLine{{MenuItemID: pizza.ID, VariantID: &pizza.Variants[0].ID, Quantity: 1}},
		PaymentMethod: "online",
		ScheduledFor:  timePtr(testNow.Add(2 * time.Hour)),
	}, DefaultPricingPolicy(), testNow)
	require.NoError(t, err)

	assert.Nil(t, order.UserID)
	assert.Equal(t, models.OrderStatusScheduled, order.Status)
	assert.Equal(t, models.PaymentMethodOnline, order.PaymentMethod)
	assert.Equal(t, "Large", order.OrderItems[0].Variant)
	assert.Equal(t, 450.0, order.Subtotal)
	assert.Equal(t, 40.0, order.DeliveryFee)
}

func TestPlaceOrder_ReferralFirstOrder(t *testing.T) {
	db := testDB(t)
	referrer := CreateTestUser(t, db, "Neel")
	code, err := GetOrCreateReferralCode(db, referrer.ID)
	require.NoError(t, err)
	newcomer := CreateTestUser(t, db, "Pia")
	thali := CreateTestMenuItem(t, db, "Thali", 400)
	policy := DefaultPricingPolicy()

	first, err := PlaceOrder(db, CheckoutRequest{
		UserID:       &newcomer.ID,
		Items:        []CartLine{{MenuItemID: thali.ID, Quantity: 1}},
		ReferralCode: code,
	}, policy, testNow)
	require.NoError(t, err)
	assert.Equal(t, 40.0, first.ReferralDiscount)
	assert.True(t, first.ReferralRewardPending)

	var stored models.User
	require.NoError(t, db.First(&stored, newcomer.ID).Error)
	require.NotNil(t, stored.ReferredBy)
	assert.Equal(t, referrer.ID, *stored.ReferredBy)

	second, err := PlaceOrder(db, CheckoutRequest{
		UserID: &newcomer.ID,
		Items:  []CartLine{{MenuItemID: thali.ID, Quantity: 1}},
	}, policy, testNow)
	require.NoError(t, err)
	assert.Zero(t, second.ReferralDiscount)
	assert.False(t, second.ReferralRewardPending)
}

func TestPlaceOrder_ReferralConvertsWhenCouponCoversCart(t *testing.T) {
	db := testDB(t)
	referrer := CreateTestUser(t, db, "Ravi")
	code, err := GetOrCreateReferralCode(db, referrer.ID)
	require.NoError(t, err)
	newcomer := CreateTestUser(t, db, "Sana")
	dosa := CreateTestMenuItem(t, db, "Dosa", 120)
	CreateTestCoupon(t, db, "FREEMEAL", models.DiscountFlat, 500, nil)

	order, err := PlaceOrder(db, CheckoutRequest{
		UserID:       &newcomer.ID,
		Items:        []CartLine{{MenuItemID: dosa.ID, Quantity: 1}},
		CouponCode:   "FREEMEAL",
		ReferralCode: code,
	}, DefaultPricingPolicy(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 120.0, order.CouponDiscount)
	assert.Zero(t, order.ReferralDiscount)
	assert.True(t, order.ReferralRewardPending)

	_, err = TransitionOrder(db, order.ID, models.OrderStatusDelivered, testLifecycle(), "")
	require.NoError(t, err)

	var entries []models.ReferralTransaction
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, referrer.ID, entries[0].ReferrerID)
	assert.Equal(t, newcomer.ID, entries[0].RefereeID)
	assert.Equal(t, utils.Percent(order.GrandTotal, 5), entries[0].RewardAmount)

	var storedReferrer models.User
	require.NoError(t, db.First(&storedReferrer, referrer.ID).Error)
	assert.Equal(t, 1, storedReferrer.TotalReferrals)
}

func TestQuoteOrder_IsReadOnly(t *testing.T) {
	db := testDB(t)
	user := CreateTestUser(t, db, "Rhea")
	referrer := CreateTestUser(t, db, "Sid")
	code, err := GetOrCreateReferralCode(db, referrer.ID)
	require.NoError(t, err)
	item := CreateTestMenuItem(t, db, "Paneer", 320)
	coupon := CreateTestCoupon(t, db, "ONCE", models.DiscountFlat, 20, intPtr(1))

	quote, err := QuoteOrder(db, CheckoutRequest{
		UserID:       &user.ID,
		Items:        []CartLine{{MenuItemID: item.ID, Quantity: 2}},
		CouponCode:   "ONCE",
		ReferralCode: code,
	}, DefaultPricingPolicy(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 640.0, quote.Pricing.Subtotal)
	assert.Equal(t, 20.0, quote.Pricing.CouponDiscount)
	assert.Equal(t, 64.0, quote.Pricing.ReferralDiscount)
	assert.Equal(t, models.OrderStatusPending, quote.InitialStatus)

	var storedCoupon models.Coupon
	require.NoError(t, db.First(&storedCoupon, coupon.ID).Error)
	assert.Zero(t, storedCoupon.UsedCount)

	var storedUser models.User
	require.NoError(t, db.First(&storedUser, user.ID).Error)
	assert.Nil(t, storedUser.ReferredBy)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestDeliveryChargeOverrideAtCheckout(t *testing.T) {
	db := testDB(t)
	item := CreateTestMenuItem(t, db, "Roll", 120)
	_, err := UpsertDeliveryCharge(db, DeliveryChargeInput{Pincode: "560001", Charge: 15})
	require.NoError(t, err)

	quote, err := QuoteOrder(db, CheckoutRequest{
		GuestName:  "G",
		GuestPhone: "9876543210",
		Items:      []CartLine{{MenuItemID: item.ID, Quantity: 1}},
		PostalCode: "560001",
	}, DefaultPricingPolicy(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 15.0, quote.Pricing.DeliveryFee)

	_, err = UpsertDeliveryCharge(db, DeliveryChargeInput{Pincode: "012345", Charge: 15})
	assert.Equal(t, utils.KindInvalid, utils.Kind(err))
}
