package invoicing

import (
	"time"

	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
)

// ValidFrequency informa si la frecuencia es conocida.
func ValidFrequency(f string) bool {
	switch f {
	case entity.FrequencyMonthly, entity.FrequencyQuarterly, entity.FrequencyYearly:
		return true
	}
	return false
}

// NextOccurrence suma un período a la fecha. Con frecuencia desconocida devuelve la misma fecha.
// time.AddDate normaliza desbordes (31 ene + 1 mes = 3 mar en años no bisiestos).
func NextOccurrence(from time.Time, frequency string) time.Time {
	switch frequency {
	case entity.FrequencyMonthly:
		return from.AddDate(0, 1, 0)
	case entity.FrequencyQuarterly:
		return from.AddDate(0, 3, 0)
	case entity.FrequencyYearly:
		return from.AddDate(1, 0, 0)
	}
	return from
}

// StartOfDay elimina la hora: las comparaciones de recurrencia son por día.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DueOffset días completos entre emisión y vencimiento.
func DueOffset(issue, due time.Time) int {
	return int(StartOfDay(due).Sub(StartOfDay(issue)).Hours() / 24)
}

// IsDue indica si la fecha programada ya se alcanzó. Ambos lados se comparan como días UTC.
func IsDue(scheduled, now time.Time) bool {
	return !StartOfDay(now.UTC()).Before(StartOfDay(scheduled.UTC()))
}

// Motivos por los que no se genera una recurrencia.
const (
	MsgNotRecurring       = "Invoice is not recurring"
	MsgRecurringEnded     = "Recurring invoice has ended"
	MsgRecurringNotDueYet = "Next invoice date has not been reached"
	MsgRecurringCancelled = "Cancelled invoices do not generate recurring invoices"
)

// CheckRecurringDue valida que el padre pueda generar una hija en la fecha now.
func CheckRecurringDue(parent *entity.Invoice, now time.Time) error {
	if !parent.IsRecurring || !ValidFrequency(parent.RecurringFrequency) || parent.NextInvoiceDate == nil {
		return domain.NewDomainError(MsgNotRecurring)
	}
	if parent.Status == entity.InvoiceStatusCancelled {
		return domain.NewDomainError(MsgRecurringCancelled)
	}
	today := StartOfDay(now.UTC())
	if parent.RecurringEndDate != nil && StartOfDay(parent.RecurringEndDate.UTC()).Before(today) {
		return domain.NewDomainError(MsgRecurringEnded)
	}
	if !IsDue(*parent.NextInvoiceDate, now) {
		return domain.NewDomainError(MsgRecurringNotDueYet)
	}
	return nil
}

// BuildRecurringChild arma la factura hija en borrador a partir del padre y devuelve
// la próxima fecha que debe guardarse en el padre. No asigna ID ni número.
func BuildRecurringChild(parent *entity.Invoice, now time.Time) (*entity.Invoice, time.Time, error) {
	if err := CheckRecurringDue(parent, now); err != nil {
		return nil, time.Time{}, err
	}
	issue := *parent.NextInvoiceDate
	parentID := parent.ID

	items := make([]entity.InvoiceLineItem, len(parent.LineItems))
	for i, it := range parent.LineItems {
		items[i] = entity.InvoiceLineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
			Position:    i,
		}
	}

	child := &entity.Invoice{
		OrganizationID:  parent.OrganizationID,
		Status:          entity.InvoiceStatusDraft,
		ClientName:      parent.ClientName,
		ClientEmail:     parent.ClientEmail,
		ClientAddress:   parent.ClientAddress,
		IssueDate:       issue,
		DueDate:         issue.AddDate(0, 0, DueOffset(parent.IssueDate, parent.DueDate)),
		TaxRate:         parent.TaxRate,
		Notes:           parent.Notes,
		ParentInvoiceID: &parentID,
		LineItems:       items,
	}
	CalculateTotals(items, parent.TaxRate).Apply(child)

	return child, NextOccurrence(issue, parent.RecurringFrequency), nil
}
