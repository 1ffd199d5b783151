package billing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorio de facturas en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memInvoices struct {
	mu      sync.Mutex
	rows    map[string]entity.Invoice
	items   map[string][]entity.InvoiceLineItem
	taken   map[string]bool // números que existen sin factura visible (otra organización, etc.)
	raced   map[string]bool // NumberExists los reporta libres pero el insert choca con la restricción única
	checks  int
	itemErr error
}

func newMemInvoices() *memInvoices {
	return &memInvoices{
		rows:  map[string]entity.Invoice{},
		items: map[string][]entity.InvoiceLineItem{},
		taken: map[string]bool{},
		raced: map[string]bool{},
	}
}

var _ repository.InvoiceRepository = (*memInvoices)(nil)

func (m *memInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.taken[inv.InvoiceNumber] || m.raced[inv.InvoiceNumber] {
		return domain.ErrDuplicate
	}
	for _, r := range m.rows {
		if r.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	row := *inv
	row.LineItems = nil
	m.rows[inv.ID] = row
	return nil
}

func (m *memInvoices) Update(_ context.Context, inv *entity.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	row := *inv
	row.LineItems = nil
	m.rows[inv.ID] = row
	return nil
}

func (m *memInvoices) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (m *memInvoices) List(_ context.Context, orgID string, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Invoice
	for _, r := range m.rows {
		if r.OrganizationID == orgID && (f.Status == "" || r.Status == f.Status) {
			row := r
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceNumber < out[j].InvoiceNumber })
	return out, len(out), nil
}

func (m *memInvoices) NumberExists(_ context.Context, number string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks++
	if m.taken[number] {
		return true, nil
	}
	for _, r := range m.rows {
		if r.InvoiceNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (m *memInvoices) ListDueRecurring(_ context.Context, asOf time.Time) ([]*entity.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Invoice
	for _, r := range m.rows {
		if r.IsRecurring && r.NextInvoiceDate != nil && !r.NextInvoiceDate.After(asOf) {
			row := r
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memInvoices) CreateLineItems(_ context.Context, invoiceID string, items []entity.InvoiceLineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.itemErr != nil {
		return m.itemErr
	}
	cp := make([]entity.InvoiceLineItem, len(items))
	for i, it := range items {
		it.InvoiceID = invoiceID
		if it.ID == "" {
			it.ID = fmt.Sprintf("%s-%d", invoiceID, i)
		}
		cp[i] = it
	}
	m.items[invoiceID] = cp
	return nil
}

func (m *memInvoices) DeleteLineItems(_ context.Context, invoiceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, invoiceID)
	return nil
}

func (m *memInvoices) GetLineItems(_ context.Context, invoiceID string) ([]entity.InvoiceLineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.InvoiceLineItem(nil), m.items[invoiceID]...), nil
}

func (m *memInvoices) numberChecks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checks
}

// ──────────────────────────────────────────────────────────────────────────────
// Pagos en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memPayments struct {
	mu   sync.Mutex
	rows []*entity.Payment
}

var _ repository.PaymentRepository = (*memPayments)(nil)

func (m *memPayments) Create(_ context.Context, p *entity.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memPayments) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Payment
	for _, p := range m.rows {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPayments) SumByInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	ps, _ := m.ListByInvoice(ctx, invoiceID)
	total := decimal.Zero
	for _, p := range ps {
		total = total.Add(p.Amount)
	}
	return total, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Mocks
// ──────────────────────────────────────────────────────────────────────────────

// MockSequence mock de InvoiceNumberSequence.
type MockSequence struct {
	mock.Mock
}

func (m *MockSequence) Next(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

// counterSequence devuelve PREFIX-2024-000001, 000002, ...
type counterSequence struct {
	mu sync.Mutex
	n  int
}

func (s *counterSequence) Next(_ context.Context, prefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-2024-%06d", prefix, s.n), nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	name string
	err  error
	got  []InvoiceNotification
}

func (n *recordingNotifier) Name() string { return n.name }

func (n *recordingNotifier) InvoiceSent(_ context.Context, in InvoiceNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, in)
	return n.err
}

func (n *recordingNotifier) calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.got)
}

type memActivity struct {
	mu   sync.Mutex
	rows []*entity.Activity
	err  error
}

func (m *memActivity) Create(_ context.Context, a *entity.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, a)
	return nil
}

var errBoom = errors.New("boom")
