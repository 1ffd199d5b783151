package stats

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Orbita-api/internal/domain/entity"
)

// Workload utilización de un usuario.
type Workload struct {
	UserID         string          `json:"user_id"`
	UserName       string          `json:"user_name"`
	AllocatedHours decimal.Decimal `json:"allocated_hours"`
	MaxHours       decimal.Decimal `json:"max_hours_per_week"`
	Utilization    decimal.Decimal `json:"utilization"` // un decimal
	OverAllocated  bool            `json:"over_allocated"`
}

// Utilization allocated / max * 100 con un decimal; max == 0 → 0.
func Utilization(allocated, maxPerWeek decimal.Decimal) decimal.Decimal {
	return PercentOneDecimal(allocated, maxPerWeek)
}

// OverAllocated true cuando la utilización supera el 100%.
func OverAllocated(utilization decimal.Decimal) bool {
	return utilization.GreaterThan(hundred)
}

// Workloads calcula la utilización de cada asignación, en el mismo orden.
func Workloads(allocs []entity.Allocation) []Workload {
	out := make([]Workload, 0, len(allocs))
	for _, a := range allocs {
		u := Utilization(a.AllocatedHours, a.MaxHoursPerWeek)
		out = append(out, Workload{
			UserID:         a.UserID,
			UserName:       a.UserName,
			AllocatedHours: a.AllocatedHours,
			MaxHours:       a.MaxHoursPerWeek,
			Utilization:    u,
			OverAllocated:  OverAllocated(u),
		})
	}
	return out
}
