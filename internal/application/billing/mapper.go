package billing

import (
	"time"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
)

func toInvoiceResponse(inv *entity.Invoice) dto.InvoiceResponse {
	out := dto.InvoiceResponse{
		ID:                 inv.ID,
		OrganizationID:     inv.OrganizationID,
		InvoiceNumber:      inv.InvoiceNumber,
		Status:             inv.Status,
		ClientName:         inv.ClientName,
		ClientEmail:        inv.ClientEmail,
		ClientAddress:      inv.ClientAddress,
		IssueDate:          inv.IssueDate.Format(dto.DateLayout),
		DueDate:            inv.DueDate.Format(dto.DateLayout),
		Subtotal:           inv.Subtotal,
		TaxRate:            inv.TaxRate,
		TaxAmount:          inv.TaxAmount,
		TotalAmount:        inv.TotalAmount,
		Notes:              inv.Notes,
		IsRecurring:        inv.IsRecurring,
		RecurringFrequency: inv.RecurringFrequency,
		SentAt:             inv.SentAt,
		PaidAt:             inv.PaidAt,
		CreatedAt:          inv.CreatedAt,
	}
	if inv.NextInvoiceDate != nil {
		out.NextInvoiceDate = inv.NextInvoiceDate.Format(dto.DateLayout)
	}
	if inv.RecurringEndDate != nil {
		out.RecurringEndDate = inv.RecurringEndDate.Format(dto.DateLayout)
	}
	if inv.ParentInvoiceID != nil {
		out.ParentInvoiceID = *inv.ParentInvoiceID
	}
	for _, it := range inv.LineItems {
		out.LineItems = append(out.LineItems, dto.LineItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
			Position:    it.Position,
		})
	}
	return out
}

func toPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		Amount:    p.Amount,
		Method:    p.Method,
		Reference: p.Reference,
		PaidAt:    p.PaidAt.Format(dto.DateLayout),
	}
}

func lineItemsFromRequest(in []dto.LineItemRequest) []entity.InvoiceLineItem {
	out := make([]entity.InvoiceLineItem, 0, len(in))
	for _, it := range in {
		out = append(out, entity.InvoiceLineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		})
	}
	return out
}

// parseDate interpreta YYYY-MM-DD en UTC; vacío devuelve fallback.
func parseDate(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	t, err := time.ParseInLocation(dto.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, domain.NewBadRequestError("Invalid date: " + s)
	}
	return t, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(s, time.Time{})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func ptr[T any](v T) *T { return &v }
