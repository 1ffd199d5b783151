package entity

import "github.com/shopspring/decimal"

// InvoiceLineItem representa una línea de una factura. Position conserva el orden de entrada.
type InvoiceLineItem struct {
	ID          string
	InvoiceID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
	Position    int
}
