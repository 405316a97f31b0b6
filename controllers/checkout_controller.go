package controllers

import (
	"time"

	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/services"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/gin-gonic/gin"
)

// CheckoutBody is the cart a customer or guest submits
type CheckoutBody struct {
	Items         []services.CartLine `json:"items" binding:"required,min=1,dive"`
	CouponCode    string              `json:"coupon_code"`
	ReferralCode  string              `json:"referral_code"`
	PaymentMethod string              `json:"payment_method"`
	ScheduledFor  *time.Time          `json:"scheduled_for"`
	GuestName     string              `json:"guest_name"`
	GuestPhone    string              `json:"guest_phone"`
	AddressLine   string              `json:"address_line"`
	City          string              `json:"city"`
	PostalCode    string              `json:"postal_code"`
}

// bindCheckout reads the cart and attaches the signed-in user, if any
func bindCheckout(c *gin.Context) (services.CheckoutRequest, bool) {
	var body CheckoutBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.LogError("Invalid checkout request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return services.CheckoutRequest{}, false
	}

	req := services.CheckoutRequest{
		GuestName:     body.GuestName,
		GuestPhone:    body.GuestPhone,
		Items:         body.Items,
		CouponCode:    body.CouponCode,
		ReferralCode:  body.ReferralCode,
		PaymentMethod: body.PaymentMethod,
		ScheduledFor:  body.ScheduledFor,
		AddressLine:   body.AddressLine,
		City:          body.City,
		PostalCode:    body.PostalCode,
	}
	if user, ok := currentUser(c); ok {
		req.UserID = &user.ID
	}
	return req, true
}

// QuoteCheckout prices a cart without ordering it
func QuoteCheckout(c *gin.Context) {
	utils.LogInfo("QuoteCheckout called")

	req, ok := bindCheckout(c)
	if !ok {
		return
	}

	quote, err := services.QuoteOrder(config.DB, req, pricingPolicy(), Now())
	if err != nil {
		utils.LogError("Failed to quote cart: %v", err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Quoted cart of %d items, grand total %.2f", len(quote.Items), quote.Pricing.GrandTotal)
	utils.Success(c, "Checkout summary", quote)
}

// Checkout places the order
func Checkout(c *gin.Context) {
	utils.LogInfo("Checkout called")

	req, ok := bindCheckout(c)
	if !ok {
		return
	}

	order, err := services.PlaceOrder(config.DB, req, pricingPolicy(), Now())
	if err != nil {
		utils.LogError("Failed to place order: %v", err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Order %d placed, status %s, grand total %.2f", order.OrderNumber, order.Status, order.GrandTotal)
	utils.Created(c, "Order placed successfully", gin.H{
		"order":           order,
		"payment_pending": order.PaymentMethod == models.PaymentMethodOnline,
	})
}
