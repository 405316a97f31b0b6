package services

import (
	"fmt"

	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/utils"
	"gorm.io/gorm"
)

// Notifier is told about committed order status changes
type Notifier interface {
	OrderStatusChanged(order *models.Order)
}

// NopNotifier drops every notification
type NopNotifier struct{}

func (NopNotifier) OrderStatusChanged(*models.Order) {}

// MailNotifier emails the customer when their order changes status
type MailNotifier struct {
	DB   *gorm.DB
	Mail utils.MailConfig
	send func(cfg utils.MailConfig, to, subject, body string) error
}

// NewMailNotifier returns a notifier sending through SMTP
func NewMailNotifier(db *gorm.DB, mail utils.MailConfig) *MailNotifier {
	return &MailNotifier{DB: db, Mail: mail, send: utils.SendEmail}
}

// OrderStatusChanged sends the status mail in the background. Guest orders
// and unconfigured SMTP are skipped.
func (n *MailNotifier) OrderStatusChanged(order *models.Order) {
	if order == nil || order.UserID == nil || !n.Mail.Enabled() {
		return
	}

	var user models.User
	if err := n.DB.Select("id", "name", "email").First(&user, *order.UserID).Error; err != nil {
		utils.LogError("Notification skipped for order %d: %v", order.ID, err)
		return
	}

	subject, body := statusMail(user.Name, order)
	go func(to string) {
		if err := n.send(n.Mail, to, subject, body); err != nil {
			utils.LogError("Failed to send status mail for order %d: %v", order.ID, err)
			return
		}
		utils.LogDebug("Status mail sent for order %d to %s", order.ID, to)
	}(user.Email)
}

func statusMail(name string, order *models.Order) (string, string) {
	subject := fmt.Sprintf("Your QuickBite order #%d is %s", order.OrderNumber, humanStatus(order.Status))
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your order <b>#%d</b> is now <b>%s</b>.</p>
<p>Order total: ₹%s</p>
<p>Thank you for ordering with QuickBite.</p>`,
		name, order.OrderNumber, humanStatus(order.Status), utils.FormatMoney(order.GrandTotal))
	return subject, body
}

func humanStatus(status string) string {
	switch status {
	case models.OrderStatusPending:
		return "pending"
	case models.OrderStatusScheduled:
		return "scheduled"
	case models.OrderStatusAccepted:
		return "accepted"
	case models.OrderStatusPreparing:
		return "being prepared"
	case models.OrderStatusReadyForPickup:
		return "ready for pickup"
	case models.OrderStatusOutForDelivery:
		return "out for delivery"
	case models.OrderStatusDelivered:
		return "delivered"
	case models.OrderStatusCancelled:
		return "cancelled"
	}
	return status
}
