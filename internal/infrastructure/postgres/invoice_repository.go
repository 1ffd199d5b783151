package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, organization_id, invoice_number, status, client_name, client_email, client_address,
	issue_date, due_date, subtotal, tax_rate, tax_amount, total_amount, notes,
	is_recurring, recurring_frequency, next_invoice_date, recurring_end_date, parent_invoice_id,
	created_by, sent_at, paid_at, created_at, updated_at`

// Create persiste la cabecera de la factura. Un número repetido se traduce a domain.ErrDuplicate.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.OrganizationID, inv.InvoiceNumber, inv.Status,
		inv.ClientName, nullIfEmpty(inv.ClientEmail), nullIfEmpty(inv.ClientAddress),
		inv.IssueDate, inv.DueDate, inv.Subtotal, inv.TaxRate, inv.TaxAmount, inv.TotalAmount,
		nullIfEmpty(inv.Notes), inv.IsRecurring, nullIfEmpty(inv.RecurringFrequency),
		inv.NextInvoiceDate, inv.RecurringEndDate, inv.ParentInvoiceID,
		nullIfEmpty(inv.CreatedBy), inv.SentAt, inv.PaidAt, inv.CreatedAt, inv.UpdatedAt,
	)
	return mapError("insert invoice", err)
}

// Update reescribe cabecera, totales, estado y fechas de recurrencia.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	const query = `
		UPDATE invoices
		SET status              = $2,
		    client_name         = $3,
		    client_email        = $4,
		    client_address      = $5,
		    issue_date          = $6,
		    due_date            = $7,
		    subtotal            = $8,
		    tax_rate            = $9,
		    tax_amount          = $10,
		    total_amount        = $11,
		    notes               = $12,
		    is_recurring        = $13,
		    recurring_frequency = $14,
		    next_invoice_date   = $15,
		    recurring_end_date  = $16,
		    sent_at             = $17,
		    paid_at             = $18,
		    updated_at          = $19
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		inv.ID, inv.Status, inv.ClientName, nullIfEmpty(inv.ClientEmail), nullIfEmpty(inv.ClientAddress),
		inv.IssueDate, inv.DueDate, inv.Subtotal, inv.TaxRate, inv.TaxAmount, inv.TotalAmount,
		nullIfEmpty(inv.Notes), inv.IsRecurring, nullIfEmpty(inv.RecurringFrequency),
		inv.NextInvoiceDate, inv.RecurringEndDate, inv.SentAt, inv.PaidAt, inv.UpdatedAt,
	)
	if err != nil {
		return mapError("update invoice", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene la cabecera por ID; (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	row := r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List facturas de la organización, más recientes primero, con el total para paginar.
func (r *InvoiceRepo) List(ctx context.Context, organizationID string, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	var total int
	if err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM invoices WHERE organization_id = $1 AND ($2 = '' OR status = $2)`,
		organizationID, f.Status,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE organization_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY issue_date DESC, created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, organizationID, f.Status, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, total, rows.Err()
}

// NumberExists informa si algún tenant ya usa el número (la unicidad es global).
func (r *InvoiceRepo) NumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE invoice_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check invoice number: %w", err)
	}
	return exists, nil
}

// ListDueRecurring padres recurrentes vencidos de todas las organizaciones (proceso batch).
func (r *InvoiceRepo) ListDueRecurring(ctx context.Context, asOf time.Time) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE is_recurring = true
		  AND next_invoice_date IS NOT NULL
		  AND next_invoice_date <= $1
		  AND (recurring_end_date IS NULL OR recurring_end_date >= next_invoice_date)
		  AND status <> 'cancelled'
		ORDER BY next_invoice_date, id`
	rows, err := r.q.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("list due recurring: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// CreateLineItems inserta las líneas en un solo batch.
func (r *InvoiceRepo) CreateLineItems(ctx context.Context, invoiceID string, items []entity.InvoiceLineItem) error {
	if len(items) == 0 {
		return nil
	}
	const query = `
		INSERT INTO invoice_line_items (id, invoice_id, description, quantity, unit_price, amount, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	batch := &pgx.Batch{}
	for _, it := range items {
		id := it.ID
		if id == "" {
			id = uuid.New().String()
		}
		batch.Queue(query, id, invoiceID, it.Description, it.Quantity, it.UnitPrice, it.Amount, it.Position)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range items {
		if _, err := br.Exec(); err != nil {
			return mapError("insert invoice line item", err)
		}
	}
	return nil
}

// DeleteLineItems borra todas las líneas de la factura.
func (r *InvoiceRepo) DeleteLineItems(ctx context.Context, invoiceID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM invoice_line_items WHERE invoice_id = $1`, invoiceID)
	return mapError("delete invoice line items", err)
}

// GetLineItems líneas en el orden de entrada.
func (r *InvoiceRepo) GetLineItems(ctx context.Context, invoiceID string) ([]entity.InvoiceLineItem, error) {
	const query = `
		SELECT id, invoice_id, description, quantity, unit_price, amount, position
		FROM invoice_line_items WHERE invoice_id = $1 ORDER BY position, id`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice line items: %w", err)
	}
	defer rows.Close()
	var list []entity.InvoiceLineItem
	for rows.Next() {
		var it entity.InvoiceLineItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Amount, &it.Position); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var email, address, notes, freq, createdBy *string
	err := row.Scan(
		&inv.ID, &inv.OrganizationID, &inv.InvoiceNumber, &inv.Status,
		&inv.ClientName, &email, &address,
		&inv.IssueDate, &inv.DueDate, &inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.TotalAmount,
		&notes, &inv.IsRecurring, &freq, &inv.NextInvoiceDate, &inv.RecurringEndDate, &inv.ParentInvoiceID,
		&createdBy, &inv.SentAt, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.ClientEmail = derefStr(email)
	inv.ClientAddress = derefStr(address)
	inv.Notes = derefStr(notes)
	inv.RecurringFrequency = derefStr(freq)
	inv.CreatedBy = derefStr(createdBy)
	return &inv, nil
}
