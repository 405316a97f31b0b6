package models

import (
	"time"
)

// Payment methods and statuses
const (
	PaymentMethodCOD    = "COD"
	PaymentMethodOnline = "ONLINE"

	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusFailed  = "FAILED"
)

// PaymentEvent records every processed gateway webhook event
type PaymentEvent struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	EventID    string    `json:"event_id" gorm:"uniqueIndex;not null"`
	Event      string    `json:"event"`
	OrderID    uint      `json:"order_id"`
	ReceivedAt time.Time `json:"received_at"`
}
