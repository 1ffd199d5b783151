package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Frecuencias de facturación recurrente.
const (
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyYearly    = "yearly"
)

// Invoice cabecera de una factura; pertenece a una sola organización.
type Invoice struct {
	ID                 string
	OrganizationID     string
	InvoiceNumber      string // {PREFIX}-{YEAR}-{SEQUENCE}, único
	Status             string
	ClientName         string
	ClientEmail        string
	ClientAddress      string
	IssueDate          time.Time
	DueDate            time.Time
	Subtotal           decimal.Decimal
	TaxRate            decimal.Decimal // 0–100
	TaxAmount          decimal.Decimal
	TotalAmount        decimal.Decimal
	Notes              string
	IsRecurring        bool
	RecurringFrequency string     // monthly, quarterly, yearly
	NextInvoiceDate    *time.Time // solo recurrentes
	RecurringEndDate   *time.Time
	ParentInvoiceID    *string // hijas generadas por recurrencia
	CreatedBy          string
	SentAt             *time.Time
	PaidAt             *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	LineItems []InvoiceLineItem
}

// IsDraft indica si la factura aún es editable.
func (i *Invoice) IsDraft() bool { return i.Status == InvoiceStatusDraft }
