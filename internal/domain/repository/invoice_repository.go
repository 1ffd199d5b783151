package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Orbita-api/internal/domain/entity"
)

// InvoiceFilter filtros de listado; Status vacío = todos.
type InvoiceFilter struct {
	Status string
	Limit  int
	Offset int
}

// InvoiceRepository puerto de persistencia para Invoice y sus líneas (usable con pool o tx).
type InvoiceRepository interface {
	// Create inserta solo la cabecera. Número repetido → domain.ErrDuplicate.
	Create(ctx context.Context, invoice *entity.Invoice) error
	// Update reescribe cabecera, totales, estado y fechas de recurrencia.
	Update(ctx context.Context, invoice *entity.Invoice) error
	// GetByID devuelve la cabecera sin líneas; (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context, organizationID string, f InvoiceFilter) ([]*entity.Invoice, int, error)
	NumberExists(ctx context.Context, number string) (bool, error)
	// ListDueRecurring padres recurrentes con next_invoice_date ≤ asOf (todas las organizaciones).
	ListDueRecurring(ctx context.Context, asOf time.Time) ([]*entity.Invoice, error)

	CreateLineItems(ctx context.Context, invoiceID string, items []entity.InvoiceLineItem) error
	DeleteLineItems(ctx context.Context, invoiceID string) error
	// GetLineItems en orden de Position.
	GetLineItems(ctx context.Context, invoiceID string) ([]entity.InvoiceLineItem, error)
}

// InvoiceNumberSequence genera candidatos de número en el servidor (RPC generate_invoice_number).
type InvoiceNumberSequence interface {
	Next(ctx context.Context, prefix string) (string, error)
}

// PaymentRepository pagos registrados contra una factura.
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error)
	SumByInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error)
}
