package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato de fechas de negocio en el API (emisión, vencimiento, recurrencia).
const DateLayout = "2006-01-02"

// LineItemRequest línea de factura tal como llega del cliente.
// Amount es opcional: si viene en cero se calcula quantity * unit_price.
type LineItemRequest struct {
	Description string          `json:"description" validate:"max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// Las reglas de negocio (cliente, líneas, impuesto) se validan en el dominio para devolver el motivo exacto.
type CreateInvoiceRequest struct {
	ClientName         string            `json:"client_name" validate:"max=255"`
	ClientEmail        string            `json:"client_email,omitempty" validate:"omitempty,email"`
	ClientAddress      string            `json:"client_address,omitempty" validate:"max=500"`
	IssueDate          string            `json:"issue_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate            string            `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TaxRate            decimal.Decimal   `json:"tax_rate"`
	Notes              string            `json:"notes,omitempty" validate:"max=2000"`
	IsRecurring        bool              `json:"is_recurring"`
	RecurringFrequency string            `json:"recurring_frequency,omitempty" validate:"omitempty,oneof=monthly quarterly yearly"`
	RecurringEndDate   string            `json:"recurring_end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LineItems          []LineItemRequest `json:"line_items" validate:"dive"`
}

// UpdateInvoiceRequest body para PATCH /api/invoices/:id. Campo nil = no se modifica.
// LineItems presente reemplaza todas las líneas.
type UpdateInvoiceRequest struct {
	ClientName         *string            `json:"client_name,omitempty" validate:"omitempty,max=255"`
	ClientEmail        *string            `json:"client_email,omitempty" validate:"omitempty,email"`
	ClientAddress      *string            `json:"client_address,omitempty" validate:"omitempty,max=500"`
	IssueDate          *string            `json:"issue_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate            *string            `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TaxRate            *decimal.Decimal   `json:"tax_rate,omitempty"`
	Notes              *string            `json:"notes,omitempty" validate:"omitempty,max=2000"`
	IsRecurring        *bool              `json:"is_recurring,omitempty"`
	RecurringFrequency *string            `json:"recurring_frequency,omitempty" validate:"omitempty,oneof=monthly quarterly yearly"`
	RecurringEndDate   *string            `json:"recurring_end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LineItems          *[]LineItemRequest `json:"line_items,omitempty" validate:"omitempty,dive"`
}

// RecordPaymentRequest body para POST /api/invoices/:id/payments.
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method,omitempty" validate:"omitempty,oneof=transfer card cash other"`
	Reference string          `json:"reference,omitempty" validate:"max=255"`
	PaidAt    string          `json:"paid_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// ListInvoicesRequest query de GET /api/invoices.
type ListInvoicesRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=draft sent paid overdue cancelled"`
	PageRequest
}

// LineItemResponse línea en la respuesta.
type LineItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	Position    int             `json:"position"`
}

// InvoiceResponse factura para GET /api/invoices/:id (y respuestas de escritura).
type InvoiceResponse struct {
	ID                 string             `json:"id"`
	OrganizationID     string             `json:"organization_id"`
	InvoiceNumber      string             `json:"invoice_number"`
	Status             string             `json:"status"`
	ClientName         string             `json:"client_name"`
	ClientEmail        string             `json:"client_email,omitempty"`
	ClientAddress      string             `json:"client_address,omitempty"`
	IssueDate          string             `json:"issue_date"`
	DueDate            string             `json:"due_date"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	TaxRate            decimal.Decimal    `json:"tax_rate"`
	TaxAmount          decimal.Decimal    `json:"tax_amount"`
	TotalAmount        decimal.Decimal    `json:"total_amount"`
	AmountPaid         *decimal.Decimal   `json:"amount_paid,omitempty"`
	Notes              string             `json:"notes,omitempty"`
	IsRecurring        bool               `json:"is_recurring"`
	RecurringFrequency string             `json:"recurring_frequency,omitempty"`
	NextInvoiceDate    string             `json:"next_invoice_date,omitempty"`
	RecurringEndDate   string             `json:"recurring_end_date,omitempty"`
	ParentInvoiceID    string             `json:"parent_invoice_id,omitempty"`
	SentAt             *time.Time         `json:"sent_at,omitempty"`
	PaidAt             *time.Time         `json:"paid_at,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	LineItems          []LineItemResponse `json:"line_items,omitempty"`
}

// InvoiceListResponse listado paginado.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// PaymentResponse pago registrado.
type PaymentResponse struct {
	ID        string          `json:"id"`
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	PaidAt    string          `json:"paid_at"`
}

// MarkPaidResponse respuesta de POST /api/invoices/:id/payments.
type MarkPaidResponse struct {
	Invoice   InvoiceResponse `json:"invoice"`
	Payment   PaymentResponse `json:"payment"`
	TotalPaid decimal.Decimal `json:"total_paid"`
}

// RecurringRunResponse resultado de la generación masiva de recurrentes.
type RecurringRunResponse struct {
	Generated []string `json:"generated"` // IDs de las hijas creadas
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
}
