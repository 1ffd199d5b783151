// Package invoicing reúne las reglas puras de facturación: totales, validación,
// calendario de recurrencia, transiciones de estado y numeración de respaldo.
package invoicing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Orbita-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals montos derivados de una factura, siempre redondeados a centavos.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// Round2 redondea a 2 decimales (half-up para montos no negativos).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// CalculateTotals es pura: subtotal = Σ amount; tax = subtotal * rate / 100; total = subtotal + tax.
func CalculateTotals(items []entity.InvoiceLineItem, taxRatePercent decimal.Decimal) Totals {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Amount)
	}
	subtotal := Round2(sum)
	tax := Round2(subtotal.Mul(taxRatePercent).Div(hundred))
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     Round2(subtotal.Add(tax)),
	}
}

// NormalizeLineItems completa Amount = quantity * unitPrice cuando viene en cero y
// asigna Position según el orden de entrada.
func NormalizeLineItems(items []entity.InvoiceLineItem) []entity.InvoiceLineItem {
	out := make([]entity.InvoiceLineItem, len(items))
	for i, it := range items {
		if it.Amount.IsZero() {
			it.Amount = Round2(it.Quantity.Mul(it.UnitPrice))
		}
		it.Position = i
		out[i] = it
	}
	return out
}

// Apply copia los totales en la cabecera.
func (t Totals) Apply(inv *entity.Invoice) {
	inv.Subtotal = t.Subtotal
	inv.TaxAmount = t.TaxAmount
	inv.TotalAmount = t.Total
}
