package invoicing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
)

// Motivos de validación devueltos al usuario.
const (
	MsgClientNameRequired = "Client name is required"
	MsgLineItemsRequired  = "At least one line item is required"
	MsgQuantityPositive   = "Line item quantity must be greater than 0"
	MsgUnitPriceNegative  = "Line item unit price cannot be negative"
	MsgAmountNegative     = "Line item amount cannot be negative"
	MsgTaxRateRange       = "Tax rate must be between 0 and 100"
	MsgTotalsNegative     = "Invoice totals cannot be negative"
	MsgOnlyDraftEditable  = "Only draft invoices can be edited"
	MsgInvalidFrequency   = "Recurring frequency must be monthly, quarterly or yearly"
	MsgDueBeforeIssue     = "Due date cannot be before issue date"
)

// Draft datos mínimos que se validan antes de crear o reemplazar líneas.
type Draft struct {
	ClientName string
	LineItems  []entity.InvoiceLineItem
	TaxRate    decimal.Decimal
}

// ValidateDraft devuelve un *domain.ValidationError con el primer motivo encontrado.
func ValidateDraft(d Draft) error {
	if strings.TrimSpace(d.ClientName) == "" {
		return domain.NewValidationError(MsgClientNameRequired)
	}
	if len(d.LineItems) == 0 {
		return domain.NewValidationError(MsgLineItemsRequired)
	}
	if err := ValidateLineItems(d.LineItems); err != nil {
		return err
	}
	if err := ValidateTaxRate(d.TaxRate); err != nil {
		return err
	}
	t := CalculateTotals(d.LineItems, d.TaxRate)
	if t.Subtotal.IsNegative() || t.TaxAmount.IsNegative() || t.Total.IsNegative() {
		return domain.NewValidationError(MsgTotalsNegative)
	}
	return nil
}

// ValidateLineItems revisa cantidad > 0, precio ≥ 0 y monto ≥ 0 de cada línea.
func ValidateLineItems(items []entity.InvoiceLineItem) error {
	if len(items) == 0 {
		return domain.NewValidationError(MsgLineItemsRequired)
	}
	for _, it := range items {
		if !it.Quantity.IsPositive() {
			return domain.NewValidationError(MsgQuantityPositive)
		}
		if it.UnitPrice.IsNegative() {
			return domain.NewValidationError(MsgUnitPriceNegative)
		}
		if it.Amount.IsNegative() {
			return domain.NewValidationError(MsgAmountNegative)
		}
	}
	return nil
}

// ValidateTaxRate exige 0 ≤ rate ≤ 100.
func ValidateTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return domain.NewValidationError(MsgTaxRateRange)
	}
	return nil
}
