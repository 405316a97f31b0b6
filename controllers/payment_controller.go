package controllers

import (
	"encoding/json"
	"io"

	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/services"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Gateway creates payment orders; nil leaves online payment switched off
var Gateway services.PaymentGateway

// WebhookDeduper short-circuits webhook events already seen; nil relies on
// the payment_events table alone
var WebhookDeduper utils.Deduper

func razorpaySecrets() (keySecret, webhookSecret string) {
	if config.AppConfig == nil {
		return "", ""
	}
	return config.AppConfig.Razorpay.Secret, config.AppConfig.Razorpay.WebhookSecret
}

// InitiatePayment creates the gateway order for an unpaid online order
func InitiatePayment(c *gin.Context) {
	utils.LogInfo("InitiatePayment called")

	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		OrderID uint `json:"order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request. order_id is required", err.Error())
		return
	}

	intent, err := services.InitiatePayment(config.DB, Gateway, user.ID, req.OrderID)
	if err != nil {
		utils.LogError("Failed to initiate payment for order %d: %v", req.OrderID, err)
		utils.RespondError(c, err)
		return
	}

	key := ""
	if config.AppConfig != nil {
		key = config.AppConfig.Razorpay.Key
	}
	utils.LogInfo("Payment initiated for order %d, gateway order %s", intent.OrderID, intent.GatewayOrderID)
	utils.Success(c, "Payment initiated", gin.H{
		"payment":      intent,
		"razorpay_key": key,
	})
}

// VerifyPayment checks the signature the gateway handed the browser and marks
// the order paid
func VerifyPayment(c *gin.Context) {
	utils.LogInfo("VerifyPayment called")

	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		OrderID           uint   `json:"order_id" binding:"required"`
		RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid payment verification request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	secret, _ := razorpaySecrets()
	order, err := services.VerifyCheckoutPayment(config.DB, secret, user.ID, req.OrderID,
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, lifecycleOptions())
	if err != nil {
		utils.LogError("Payment verification failed for order %d: %v", req.OrderID, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Payment verified for order %d", order.ID)
	utils.Success(c, "Payment successful", gin.H{"order": order})
}

// PaymentWebhook applies signed payment events pushed by the gateway
func PaymentWebhook(c *gin.Context) {
	utils.LogInfo("PaymentWebhook called")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.LogError("Failed to read webhook body: %v", err)
		utils.BadRequest(c, "Invalid request", nil)
		return
	}

	_, webhookSecret := razorpaySecrets()
	if !utils.VerifyHMAC(string(body), c.GetHeader("X-Razorpay-Signature"), webhookSecret) {
		utils.LogError("Webhook signature mismatch")
		utils.Unauthorized(c, "Invalid signature")
		return
	}

	var evt services.WebhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		utils.LogError("Malformed webhook payload: %v", err)
		utils.BadRequest(c, "Invalid payload", nil)
		return
	}

	// a retried delivery carries the same id; without one the body identifies it
	eventID := c.GetHeader("X-Razorpay-Event-Id")
	if eventID == "" {
		eventID = uuid.NewSHA1(uuid.NameSpaceURL, body).String()
	}

	ctx := c.Request.Context()
	if WebhookDeduper != nil {
		fresh, err := WebhookDeduper.FirstSeen(ctx, eventID)
		if err != nil {
			utils.LogError("Webhook dedupe lookup failed, falling back to database: %v", err)
		} else if !fresh {
			utils.LogInfo("Duplicate webhook event %s ignored", eventID)
			utils.Success(c, "Event already processed", nil)
			return
		}
	}

	processed, err := services.HandlePaymentEvent(config.DB, eventID, evt, lifecycleOptions())
	if err != nil {
		if WebhookDeduper != nil {
			if ferr := WebhookDeduper.Forget(ctx, eventID); ferr != nil {
				utils.LogError("Failed to forget webhook event %s: %v", eventID, ferr)
			}
		}
		utils.LogError("Failed to process webhook event %s (%s): %v", eventID, evt.Event, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Webhook event %s (%s) processed=%t", eventID, evt.Event, processed)
	utils.Success(c, "Event received", gin.H{"processed": processed})
}
