package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Orbita-api/internal/domain/repository"
)

var _ repository.InvoiceNumberSequence = (*InvoiceSequence)(nil)

// InvoiceSequence candidato de número generado en el servidor por generate_invoice_number(prefix),
// que devuelve {PREFIX}-{YEAR}-{SEQUENCE}. La unicidad final la garantiza el índice único.
type InvoiceSequence struct {
	q Querier
}

// NewInvoiceSequence construye el adaptador.
func NewInvoiceSequence(q Querier) *InvoiceSequence {
	return &InvoiceSequence{q: q}
}

// Next pide el siguiente candidato.
func (s *InvoiceSequence) Next(ctx context.Context, prefix string) (string, error) {
	var number string
	if err := s.q.QueryRow(ctx, `SELECT generate_invoice_number($1)`, prefix).Scan(&number); err != nil {
		return "", mapError("generate invoice number", err)
	}
	if number == "" {
		return "", fmt.Errorf("generate invoice number: empty result")
	}
	return number, nil
}
