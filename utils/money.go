package utils

import (
	"github.com/shopspring/decimal"
)

// RoundMoney rounds an amount to two decimal places, half away from zero
func RoundMoney(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// Percent returns pct percent of amount, rounded to two decimal places
func Percent(amount, pct float64) float64 {
	return decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(pct)).
		Div(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}

// MinMoney returns the smaller of two amounts
func MinMoney(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// FormatMoney renders an amount the way responses show it
func FormatMoney(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
