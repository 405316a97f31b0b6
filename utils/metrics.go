package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CouponRedemptions counts coupon redemption attempts by outcome
	CouponRedemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickbite_coupon_redemptions_total",
			Help: "Coupon redemption attempts by outcome",
		},
		[]string{"outcome"},
	)

	// OrderTransitions counts order status changes by target status
	OrderTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickbite_order_transitions_total",
			Help: "Order status transitions by target status and result",
		},
		[]string{"status", "result"},
	)

	// OrdersPlaced counts orders created at checkout by payment method
	OrdersPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickbite_orders_placed_total",
			Help: "Orders placed at checkout",
		},
		[]string{"payment_method"},
	)

	// RequestDuration tracks HTTP handler latency
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quickbite_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route", "status"},
	)
)

// RecordCouponRedemption records a redemption outcome
func RecordCouponRedemption(outcome string) {
	CouponRedemptions.WithLabelValues(outcome).Inc()
}

// RecordOrderTransition records a transition attempt
func RecordOrderTransition(status string, err error) {
	result := "success"
	if err != nil {
		result = string(Kind(err))
	}
	OrderTransitions.WithLabelValues(status, result).Inc()
}
