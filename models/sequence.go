package models

// Sequence is a named monotonic counter
type Sequence struct {
	Name  string `gorm:"primaryKey"`
	Value int64  `gorm:"not null;default:0"`
}

// Sequence names
const (
	SequenceOrderNumber   = "order_number"
	SequenceInvoiceNumber = "invoice_number"
)
