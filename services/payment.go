package services

import (
	"fmt"
	"strconv"

	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/utils"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment errors
var (
	ErrPaymentNotRequired = utils.ConflictError("Order does not need online payment", nil)
	ErrAlreadyPaid        = utils.ConflictError("Order is already paid", nil)
	ErrBadSignature       = utils.BadRequestError("Payment verification failed", nil)
	ErrGatewayUnavailable = utils.NewAppError(503, "Payment gateway is not configured", nil)
)

// Gateway webhook events that move an order
const (
	EventPaymentCaptured = "payment.captured"
	EventOrderPaid       = "order.paid"
	EventPaymentFailed   = "payment.failed"
)

// PaymentGateway creates gateway orders customers pay against
type PaymentGateway interface {
	CreateOrder(amountPaise int64, currency, receipt string) (string, error)
}

// RazorpayGateway creates orders through the Razorpay API
type RazorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpayGateway returns a gateway for the given API credentials
func NewRazorpayGateway(key, secret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(key, secret)}
}

func (g *RazorpayGateway) CreateOrder(amountPaise int64, currency, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":          amountPaise,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", err
	}
	id, ok := body["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("gateway response has no order id")
	}
	return id, nil
}

// ToPaise converts a rupee amount to the integer paise the gateway expects
func ToPaise(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// PaymentIntent is what the browser needs to open the gateway checkout
type PaymentIntent struct {
	OrderID        uint   `json:"order_id"`
	GatewayOrderID string `json:"razorpay_order_id"`
	AmountPaise    int64  `json:"amount"`
	Currency       string `json:"currency"`
}

// InitiatePayment creates, or reuses, the gateway order for a customer's
// unpaid online order
func InitiatePayment(db *gorm.DB, gateway PaymentGateway, userID, orderID uint) (*PaymentIntent, error) {
	if gateway == nil {
		return nil, ErrGatewayUnavailable
	}
	order, err := GetUserOrder(db, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != models.PaymentMethodOnline {
		return nil, ErrPaymentNotRequired
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, ErrAlreadyPaid
	}
	if order.Status == models.OrderStatusCancelled {
		return nil, ErrOrderTerminal
	}

	intent := &PaymentIntent{
		OrderID:     order.ID,
		AmountPaise: ToPaise(order.GrandTotal),
		Currency:    "INR",
	}
	if order.RazorpayOrderID != "" {
		intent.GatewayOrderID = order.RazorpayOrderID
		return intent, nil
	}

	gatewayID, err := gateway.CreateOrder(intent.AmountPaise, intent.Currency, "order_rcptid_"+strconv.FormatUint(uint64(order.ID), 10))
	if err != nil {
		return nil, utils.NewAppError(502, "Failed to create payment order", err)
	}
	if err := SetGatewayOrderID(db, order.ID, gatewayID); err != nil {
		return nil, err
	}

	intent.GatewayOrderID = gatewayID
	utils.LogInfo("Gateway order %s created for order %d (%d paise)", gatewayID, order.ID, intent.AmountPaise)
	return intent, nil
}

// VerifyCheckoutPayment confirms the payment a customer completed in the browser
func VerifyCheckoutPayment(db *gorm.DB, secret string, userID, orderID uint, gatewayOrderID, paymentID, signature string, opts LifecycleOptions) (*models.Order, error) {
	if !utils.VerifyCheckoutSignature(gatewayOrderID, paymentID, signature, secret) {
		return nil, ErrBadSignature
	}
	order, err := GetUserOrder(db, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.RazorpayOrderID == "" || order.RazorpayOrderID != gatewayOrderID {
		return nil, ErrPaymentMismatch
	}

	updated, _, err := MarkPaymentSucceeded(db, order.ID, paymentID, opts)
	return updated, err
}

// WebhookEvent is the part of a gateway webhook the service reads
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandlePaymentEvent applies a verified webhook event. Each event id is
// processed once; repeats report processed=false.
func HandlePaymentEvent(db *gorm.DB, eventID string, evt WebhookEvent, opts LifecycleOptions) (processed bool, err error) {
	var seen int64
	if err := db.Model(&models.PaymentEvent{}).Where("event_id = ?", eventID).Count(&seen).Error; err != nil {
		return false, err
	}
	if seen > 0 {
		utils.LogDebug("Webhook event %s already processed", eventID)
		return false, nil
	}

	entity := evt.Payload.Payment.Entity
	var order *models.Order
	switch evt.Event {
	case EventPaymentCaptured, EventOrderPaid, EventPaymentFailed:
		order, err = FindOrderByGatewayID(db, entity.OrderID)
		if err != nil {
			return false, err
		}
		if evt.Event == EventPaymentFailed {
			_, err = MarkPaymentFailed(db, order.ID, entity.ID)
		} else {
			_, _, err = MarkPaymentSucceeded(db, order.ID, entity.ID, opts)
		}
		if err != nil {
			return false, err
		}
	default:
		utils.LogDebug("Ignoring webhook event %s (%s)", eventID, evt.Event)
	}

	record := models.PaymentEvent{EventID: eventID, Event: evt.Event, ReceivedAt: opts.now()}
	if order != nil {
		record.OrderID = order.ID
	}
	if err := db.Create(&record).Error; err != nil {
		if isDuplicateKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
