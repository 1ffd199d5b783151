package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment abono registrado contra una factura.
type Payment struct {
	ID         string
	InvoiceID  string
	Amount     decimal.Decimal
	Method     string // transfer, card, cash, other
	Reference  string
	PaidAt     time.Time
	RecordedBy string
	CreatedAt  time.Time
}
