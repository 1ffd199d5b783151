package invoicing

import "github.com/jhoicas/Orbita-api/internal/domain/entity"

var transitions = map[string][]string{
	entity.InvoiceStatusDraft:   {entity.InvoiceStatusSent, entity.InvoiceStatusCancelled},
	entity.InvoiceStatusSent:    {entity.InvoiceStatusPaid, entity.InvoiceStatusOverdue, entity.InvoiceStatusCancelled},
	entity.InvoiceStatusOverdue: {entity.InvoiceStatusPaid, entity.InvoiceStatusCancelled},
}

// CanTransition valida el ciclo de vida draft → sent → paid (o cancelled / overdue).
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
