package services

import (
	"github.com/Govind-619/QuickBite/utils"
)

// Coupon errors
var (
	ErrCouponNotFound     = utils.NotFoundError("Coupon not found", nil)
	ErrCouponInactive     = utils.ConflictError("Coupon is not active", nil)
	ErrCouponExpired      = utils.ConflictError("Coupon has expired", nil)
	ErrCouponLimitReached = utils.ConflictError("Coupon usage limit reached", nil)
	ErrCouponExists       = utils.ConflictError("Coupon code already exists", nil)
	ErrInvalidDiscount    = utils.BadRequestError("Invalid discount type or value", nil)
	ErrNoFeaturedCoupon   = utils.NotFoundError("No featured coupon available", nil)
)

// Referral errors
var (
	ErrAlreadyReferred     = utils.ConflictError("A referral code has already been applied", nil)
	ErrInvalidReferralCode = utils.NotFoundError("Invalid referral code", nil)
	ErrSelfReferral        = utils.ConflictError("You cannot use your own referral code", nil)
	ErrReferralCodeSpace   = utils.NewAppError(500, "Could not allocate a unique referral code", nil)
)

// User errors
var (
	ErrUserNotFound = utils.NotFoundError("User not found", nil)
	ErrUserBlocked  = utils.UnauthorizedError("Account is blocked", nil)
)

// Order errors
var (
	ErrOrderNotFound       = utils.NotFoundError("Order not found", nil)
	ErrInvalidStatus       = utils.BadRequestError("Invalid order status", nil)
	ErrOrderTerminal       = utils.ConflictError("Order is already delivered or cancelled", nil)
	ErrIllegalTransition   = utils.ConflictError("Order cannot move to the requested status", nil)
	ErrPartnerNotFound     = utils.NotFoundError("Delivery partner not found", nil)
	ErrPartnerBusy         = utils.ConflictError("Delivery partner is not available", nil)
	ErrEmptyCart           = utils.BadRequestError("Cart is empty", nil)
	ErrInvalidQuantity     = utils.BadRequestError("Item quantity is out of range", nil)
	ErrMenuItemNotFound    = utils.NotFoundError("Menu item not found", nil)
	ErrMenuItemUnavailable = utils.ConflictError("Menu item is currently unavailable", nil)
	ErrVariantNotFound     = utils.NotFoundError("Menu item variant not found", nil)
	ErrInvalidPayment      = utils.BadRequestError("Invalid payment method", nil)
	ErrPaymentMismatch     = utils.ConflictError("Payment does not match the order", nil)
	ErrScheduleInPast      = utils.BadRequestError("Scheduled time must be in the future", nil)
	ErrCancelNotAllowed    = utils.ConflictError("Order can no longer be cancelled by the customer", nil)
)
