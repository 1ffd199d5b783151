package stats

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Orbita-api/internal/domain/entity"
)

// CommissionSummary totales de comisiones por estado.
type CommissionSummary struct {
	Due   decimal.Decimal `json:"due"`  // pending + approved
	Paid  decimal.Decimal `json:"paid"` // ya liquidadas
	Count int             `json:"count"`
}

// CommissionDue suma pending/approved como adeudado y paid por separado; rejected se ignora.
func CommissionDue(commissions []entity.Commission) CommissionSummary {
	out := CommissionSummary{Due: decimal.Zero, Paid: decimal.Zero}
	for _, c := range commissions {
		switch c.Status {
		case entity.CommissionPending, entity.CommissionApproved:
			out.Due = out.Due.Add(c.Amount)
			out.Count++
		case entity.CommissionPaid:
			out.Paid = out.Paid.Add(c.Amount)
			out.Count++
		}
	}
	return out
}

// PaidShare porcentaje entero de lo liquidado sobre el total (due + paid).
func (s CommissionSummary) PaidShare() int64 {
	total := s.Due.Add(s.Paid)
	return Percentage(s.Paid, total).Round(0).IntPart()
}

var commissionTransitions = map[string][]string{
	entity.CommissionPending:  {entity.CommissionApproved, entity.CommissionRejected},
	entity.CommissionApproved: {entity.CommissionPaid, entity.CommissionRejected},
}

// CanTransitionCommission pending → approved|rejected, approved → paid|rejected. paid y rejected son finales.
func CanTransitionCommission(from, to string) bool {
	for _, s := range commissionTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
