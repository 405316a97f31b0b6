package models

import (
	"time"
)

// Order status constants
const (
	OrderStatusPending        = "PENDING"
	OrderStatusScheduled      = "SCHEDULED"
	OrderStatusAccepted       = "ACCEPTED"
	OrderStatusPreparing      = "PREPARING"
	OrderStatusReadyForPickup = "READY_FOR_PICKUP"
	OrderStatusOutForDelivery = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      = "DELIVERED"
	OrderStatusCancelled      = "CANCELLED"
)

type Order struct {
	ID                    uint             `gorm:"primaryKey" json:"id"`
	OrderNumber           int64            `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID                *uint            `gorm:"index" json:"user_id,omitempty"`
	GuestName             string           `json:"guest_name,omitempty"`
	GuestPhone            string           `json:"guest_phone,omitempty"`
	Status                string           `gorm:"index;not null" json:"status"`
	ScheduledFor          *time.Time       `json:"scheduled_for,omitempty"`
	AddressLine           string           `json:"address_line"`
	City                  string           `json:"city"`
	PostalCode            string           `json:"postal_code"`
	Subtotal              float64          `json:"subtotal"`
	CouponID              *uint            `json:"coupon_id,omitempty"`
	CouponCode            string           `json:"coupon_code,omitempty"`
	CouponDiscount        float64          `json:"coupon_discount"`
	ReferralDiscount      float64          `json:"referral_discount"`
	MembershipDiscount    float64          `json:"membership_discount"`
	DiscountAmount        float64          `json:"discount_amount"`
	CGSTRate              float64          `json:"cgst_rate"`
	CGSTAmount            float64          `json:"cgst_amount"`
	SGSTRate              float64          `json:"sgst_rate"`
	SGSTAmount            float64          `json:"sgst_amount"`
	DeliveryFee           float64          `json:"delivery_fee"`
	GrandTotal            float64          `json:"grand_total"`
	PaymentMethod         string           `json:"payment_method"`
	PaymentStatus         string           `json:"payment_status"`
	RazorpayOrderID       string           `gorm:"index" json:"razorpay_order_id,omitempty"`
	PaymentReference      string           `json:"payment_reference,omitempty"`
	DeliveryPartnerID     *uint            `gorm:"index" json:"delivery_partner_id,omitempty"`
	DeliveryPartner       *DeliveryPartner `gorm:"foreignKey:DeliveryPartnerID" json:"delivery_partner,omitempty"`
	InvoiceNumber         *string          `gorm:"uniqueIndex" json:"invoice_number,omitempty"`
	InvoiceGeneratedAt    *time.Time       `json:"invoice_generated_at,omitempty"`
	ReferralRewardPending bool             `json:"-"`
	SpendingRecorded      bool             `json:"-"`
	CancellationReason    string           `json:"cancellation_reason,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
	OrderItems            []OrderItem      `gorm:"foreignKey:OrderID" json:"items"`
}

// OrderItem snapshots the menu item as it was priced at checkout
type OrderItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	OrderID    uint    `gorm:"index" json:"order_id"`
	MenuItemID uint    `json:"menu_item_id"`
	Name       string  `json:"name"`
	Variant    string  `json:"variant,omitempty"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
	LineTotal  float64 `json:"line_total"`
}

// TotalTax is the sum of the CGST and SGST components
func (o Order) TotalTax() float64 {
	return o.CGSTAmount + o.SGSTAmount
}
