package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/internal/domain/repository"
)

// InvoiceTxRunner ejecuta fn dentro de una transacción con los repos de facturación atados a ella.
type InvoiceTxRunner interface {
	RunInvoice(ctx context.Context, fn func(
		invoices repository.InvoiceRepository,
		payments repository.PaymentRepository,
	) error) error
}

// InvoiceNotification datos que viajan a los canales de notificación al enviar una factura.
type InvoiceNotification struct {
	OrganizationID string
	InvoiceID      string
	InvoiceNumber  string
	ClientName     string
	ClientEmail    string
	Total          decimal.Decimal
	DueDate        time.Time
}

// Notifier canal de salida (email, chat). Fire-and-forget: el error solo se registra.
type Notifier interface {
	Name() string
	InvoiceSent(ctx context.Context, n InvoiceNotification) error
}

// InvoicePDFGenerator renderiza la representación imprimible de la factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, org *entity.Organization) ([]byte, error)
}
