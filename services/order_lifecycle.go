package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/utils"
	"gorm.io/gorm"
)

// OrderStatuses lists every status an order may hold
var OrderStatuses = []string{
	models.OrderStatusPending,
	models.OrderStatusScheduled,
	models.OrderStatusAccepted,
	models.OrderStatusPreparing,
	models.OrderStatusReadyForPickup,
	models.OrderStatusOutForDelivery,
	models.OrderStatusDelivered,
	models.OrderStatusCancelled,
}

// forwardSteps are the moves strict mode allows besides cancellation
var forwardSteps = map[string][]string{
	models.OrderStatusScheduled:      {models.OrderStatusPending, models.OrderStatusAccepted},
	models.OrderStatusPending:        {models.OrderStatusAccepted, models.OrderStatusPreparing},
	models.OrderStatusAccepted:       {models.OrderStatusPreparing},
	models.OrderStatusPreparing:      {models.OrderStatusReadyForPickup},
	models.OrderStatusReadyForPickup: {models.OrderStatusOutForDelivery},
	models.OrderStatusOutForDelivery: {models.OrderStatusDelivered},
}

// customerCancellable are the statuses a customer may still cancel from
var customerCancellable = map[string]bool{
	models.OrderStatusPending:   true,
	models.OrderStatusScheduled: true,
	models.OrderStatusAccepted:  true,
}

// LifecycleOptions controls status changes and their side effects
type LifecycleOptions struct {
	// Strict rejects moves that skip ahead or go backwards
	Strict                bool
	PointsPerUnit         float64
	ReferrerRewardPercent float64
	Notifier              Notifier
	Now                   func() time.Time
}

func (o LifecycleOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o LifecycleOptions) notify(order *models.Order) {
	if o.Notifier != nil {
		o.Notifier.OrderStatusChanged(order)
	}
}

// NormalizeStatus upper-cases a status name
func NormalizeStatus(status string) string {
	return strings.ToUpper(strings.TrimSpace(status))
}

// IsValidStatus reports whether status is one of the known order statuses
func IsValidStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminal reports whether an order in status can no longer change
func IsTerminal(status string) bool {
	return status == models.OrderStatusDelivered || status == models.OrderStatusCancelled
}

// checkTransition explains why from cannot move to to, or returns nil
func checkTransition(from, to string, strict bool) error {
	if !IsValidStatus(to) {
		return ErrInvalidStatus
	}
	if to == models.OrderStatusCancelled {
		if IsTerminal(from) {
			return ErrOrderTerminal
		}
		return nil
	}
	if !strict {
		return nil
	}
	if IsTerminal(from) {
		return ErrOrderTerminal
	}
	for _, next := range forwardSteps[from] {
		if next == to {
			return nil
		}
	}
	return ErrIllegalTransition
}

// CanTransition reports whether an order may move from one status to another.
// Without strict checking any known target is accepted except cancelling a
// finished order.
func CanTransition(from, to string, strict bool) bool {
	return checkTransition(from, to, strict) == nil
}

// InitialStatus is SCHEDULED for orders due in the future and PENDING otherwise
func InitialStatus(scheduledFor *time.Time, now time.Time) string {
	if scheduledFor != nil && scheduledFor.After(now) {
		return models.OrderStatusScheduled
	}
	return models.OrderStatusPending
}

func loadOrder(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := tx.Preload("OrderItems").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func updateOrder(tx *gorm.DB, orderID uint, updates map[string]interface{}) error {
	return tx.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates).Error
}

// releasePartner frees a partner that orderID no longer holds. A partner still
// carrying another open order stays BUSY.
func releasePartner(tx *gorm.DB, partnerID, orderID uint) error {
	return tx.Model(&models.DeliveryPartner{}).
		Where("id = ?", partnerID).
		Where("NOT EXISTS (SELECT 1 FROM orders WHERE orders.delivery_partner_id = ? AND orders.id <> ? AND orders.status NOT IN ?)",
			partnerID, orderID, []string{models.OrderStatusDelivered, models.OrderStatusCancelled}).
		Update("status", models.PartnerAvailable).Error
}

// TransitionOrder moves an order to target and applies the side effects of
// the new status in the same transaction
func TransitionOrder(db *gorm.DB, orderID uint, target string, opts LifecycleOptions, reason string) (*models.Order, error) {
	target = NormalizeStatus(target)
	if !IsValidStatus(target) {
		utils.RecordOrderTransition("unknown", ErrInvalidStatus)
		return nil, ErrInvalidStatus
	}

	var order *models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = loadOrder(tx, orderID)
		if err != nil {
			return err
		}

		if err := checkTransition(order.Status, target, opts.Strict); err != nil {
			utils.LogDebug("Order %d refused %s -> %s: %v", order.ID, order.Status, target, err)
			return err
		}

		previous := order.Status
		updates := map[string]interface{}{"status": target}
		if target == models.OrderStatusCancelled {
			updates["cancellation_reason"] = strings.TrimSpace(reason)
		}
		// a reopened order no longer holds the partner it was delivered by
		reopened := IsTerminal(previous) && !IsTerminal(target)
		if reopened {
			updates["delivery_partner_id"] = nil
		}
		if err := updateOrder(tx, order.ID, updates); err != nil {
			return err
		}
		order.Status = target
		if reopened {
			order.DeliveryPartnerID = nil
		}

		// side effects belong to the move out of an open status only
		if !IsTerminal(previous) {
			switch target {
			case models.OrderStatusDelivered:
				if err := completeDelivery(tx, order, opts); err != nil {
					return err
				}
			case models.OrderStatusCancelled:
				order.CancellationReason = strings.TrimSpace(reason)
				if order.DeliveryPartnerID != nil {
					if err := releasePartner(tx, *order.DeliveryPartnerID, order.ID); err != nil {
						return err
					}
				}
			}
		}

		utils.LogInfo("Order %d moved from %s to %s", order.ID, previous, target)
		return nil
	})
	utils.RecordOrderTransition(target, err)
	if err != nil {
		return nil, err
	}

	opts.notify(order)
	return order, nil
}

// completeDelivery frees the partner, numbers the invoice, credits loyalty
// spend and settles a pending referral reward
func completeDelivery(tx *gorm.DB, order *models.Order, opts LifecycleOptions) error {
	if order.DeliveryPartnerID != nil {
		if err := releasePartner(tx, *order.DeliveryPartnerID, order.ID); err != nil {
			return err
		}
		utils.LogInfo("Delivery partner %d released from order %d", *order.DeliveryPartnerID, order.ID)
	}

	if order.PaymentMethod == models.PaymentMethodCOD && order.PaymentStatus != models.PaymentStatusPaid {
		if err := updateOrder(tx, order.ID, map[string]interface{}{"payment_status": models.PaymentStatusPaid}); err != nil {
			return err
		}
		order.PaymentStatus = models.PaymentStatusPaid
	}

	if _, err := AssignInvoiceNumber(tx, order, opts.now()); err != nil {
		return err
	}

	if _, err := RecordOrderSpend(tx, order, opts.PointsPerUnit); err != nil {
		return err
	}

	return settleReferralReward(tx, order, opts)
}

// settleReferralReward credits the referrer of a customer whose first order
// was placed with the referral discount
func settleReferralReward(tx *gorm.DB, order *models.Order, opts LifecycleOptions) error {
	if !order.ReferralRewardPending || order.UserID == nil {
		return nil
	}

	res := tx.Model(&models.Order{}).
		Where("id = ? AND referral_reward_pending = ?", order.ID, true).
		Update("referral_reward_pending", false)
	if res.Error != nil {
		return res.Error
	}
	order.ReferralRewardPending = false
	if res.RowsAffected == 0 {
		return nil
	}

	var customer models.User
	if err := tx.First(&customer, *order.UserID).Error; err != nil {
		return err
	}
	if customer.ReferredBy == nil {
		return nil
	}

	var existing int64
	if err := tx.Model(&models.ReferralTransaction{}).Where("referee_id = ?", customer.ID).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		utils.LogDebug("Referral for user %d already converted", customer.ID)
		return nil
	}

	reward := utils.Percent(order.GrandTotal, opts.ReferrerRewardPercent)
	_, err := RecordConversion(tx, *customer.ReferredBy, customer.ID, order.ID, order.GrandTotal, reward)
	return err
}

// AssignInvoiceNumber gives an order its INV-<year>-<sequence> number. An
// order that already has one keeps it.
func AssignInvoiceNumber(tx *gorm.DB, order *models.Order, now time.Time) (string, error) {
	if order.InvoiceNumber != nil && *order.InvoiceNumber != "" {
		return *order.InvoiceNumber, nil
	}

	seq, err := NextSequence(tx, models.SequenceInvoiceNumber)
	if err != nil {
		return "", err
	}
	number := fmt.Sprintf("INV-%d-%06d", now.Year(), seq)

	res := tx.Model(&models.Order{}).
		Where("id = ? AND invoice_number IS NULL", order.ID).
		Updates(map[string]interface{}{
			"invoice_number":       number,
			"invoice_generated_at": now,
		})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		var stored models.Order
		if err := tx.Select("id", "invoice_number", "invoice_generated_at").First(&stored, order.ID).Error; err != nil {
			return "", err
		}
		order.InvoiceNumber = stored.InvoiceNumber
		order.InvoiceGeneratedAt = stored.InvoiceGeneratedAt
		if stored.InvoiceNumber == nil {
			return "", ErrOrderNotFound
		}
		return *stored.InvoiceNumber, nil
	}

	order.InvoiceNumber = &number
	order.InvoiceGeneratedAt = &now
	utils.LogInfo("Invoice %s assigned to order %d", number, order.ID)
	return number, nil
}

// AssignDeliveryPartner hands an order to a partner. The partner becomes BUSY
// and the order OUT_FOR_DELIVERY in one transaction, or nothing changes.
func AssignDeliveryPartner(db *gorm.DB, orderID, partnerID uint, opts LifecycleOptions) (*models.Order, error) {
	var order *models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if IsTerminal(order.Status) {
			return ErrOrderTerminal
		}
		if order.Status != models.OrderStatusOutForDelivery {
			if err := checkTransition(order.Status, models.OrderStatusOutForDelivery, opts.Strict); err != nil {
				return err
			}
		}

		var partner models.DeliveryPartner
		if err := tx.First(&partner, partnerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPartnerNotFound
			}
			return err
		}

		sameAsBefore := order.DeliveryPartnerID != nil && *order.DeliveryPartnerID == partnerID
		if !sameAsBefore {
			res := tx.Model(&models.DeliveryPartner{}).
				Where("id = ? AND status = ? AND is_active = ?", partnerID, models.PartnerAvailable, true).
				Update("status", models.PartnerBusy)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrPartnerBusy
			}
			if order.DeliveryPartnerID != nil {
				if err := releasePartner(tx, *order.DeliveryPartnerID, order.ID); err != nil {
					return err
				}
			}
		}

		if err := updateOrder(tx, order.ID, map[string]interface{}{
			"delivery_partner_id": partnerID,
			"status":              models.OrderStatusOutForDelivery,
		}); err != nil {
			return err
		}

		order.DeliveryPartnerID = &partnerID
		order.Status = models.OrderStatusOutForDelivery
		partner.Status = models.PartnerBusy
		order.DeliveryPartner = &partner
		return nil
	})
	utils.RecordOrderTransition(models.OrderStatusOutForDelivery, err)
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Order %d assigned to delivery partner %d", order.ID, partnerID)
	opts.notify(order)
	return order, nil
}

// MarkPaymentSucceeded records a confirmed online payment. A pending order
// goes straight to PREPARING. Repeated confirmations are no-ops.
func MarkPaymentSucceeded(db *gorm.DB, orderID uint, reference string, opts LifecycleOptions) (*models.Order, bool, error) {
	var order *models.Order
	changed := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.PaymentStatus == models.PaymentStatusPaid {
			return nil
		}

		updates := map[string]interface{}{
			"payment_status":    models.PaymentStatusPaid,
			"payment_reference": reference,
		}
		if order.Status == models.OrderStatusPending {
			updates["status"] = models.OrderStatusPreparing
		}
		res := tx.Model(&models.Order{}).
			Where("id = ? AND payment_status <> ?", order.ID, models.PaymentStatusPaid).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		order.PaymentStatus = models.PaymentStatusPaid
		order.PaymentReference = reference
		if s, ok := updates["status"].(string); ok {
			order.Status = s
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if changed {
		utils.LogInfo("Payment %s confirmed for order %d, status %s", reference, order.ID, order.Status)
		if order.Status == models.OrderStatusPreparing {
			utils.RecordOrderTransition(models.OrderStatusPreparing, nil)
			opts.notify(order)
		}
	}
	return order, changed, nil
}

// MarkPaymentFailed flags an unpaid order's payment as failed
func MarkPaymentFailed(db *gorm.DB, orderID uint, reference string) (*models.Order, error) {
	order, err := loadOrder(db, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return order, nil
	}

	if err := db.Model(&models.Order{}).
		Where("id = ? AND payment_status <> ?", order.ID, models.PaymentStatusPaid).
		Updates(map[string]interface{}{
			"payment_status":    models.PaymentStatusFailed,
			"payment_reference": reference,
		}).Error; err != nil {
		return nil, err
	}

	order.PaymentStatus = models.PaymentStatusFailed
	order.PaymentReference = reference
	utils.LogInfo("Payment failed for order %d", order.ID)
	return order, nil
}

// CancelOrderByCustomer lets a customer cancel their own order before the
// kitchen starts on it
func CancelOrderByCustomer(db *gorm.DB, userID, orderID uint, reason string, opts LifecycleOptions) (*models.Order, error) {
	var order models.Order
	if err := db.Select("id", "user_id", "status").Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if IsTerminal(order.Status) {
		return nil, ErrOrderTerminal
	}
	if !customerCancellable[order.Status] {
		return nil, ErrCancelNotAllowed
	}
	if strings.TrimSpace(reason) == "" {
		reason = "Cancelled by customer"
	}
	return TransitionOrder(db, orderID, models.OrderStatusCancelled, opts, reason)
}
