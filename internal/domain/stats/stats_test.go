package stats_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/internal/domain/stats"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPercentage_DenominadorCero(t *testing.T) {
	for _, n := range []string{"0", "1", "-5", "12345.67"} {
		assert.True(t, stats.Percentage(dec(n), decimal.Zero).IsZero(), "n=%s", n)
	}
	assert.Equal(t, int64(0), stats.PercentInt(0, 0))
	assert.Equal(t, int64(0), stats.PercentInt(7, 0))
}

func TestPercentInt(t *testing.T) {
	assert.Equal(t, int64(33), stats.PercentInt(1, 3))
	assert.Equal(t, int64(67), stats.PercentInt(2, 3))
	assert.Equal(t, int64(100), stats.PercentInt(4, 4))
}

func TestPercentOneDecimal(t *testing.T) {
	assert.True(t, stats.PercentOneDecimal(dec("1"), dec("3")).Equal(dec("33.3")))
	assert.True(t, stats.PercentOneDecimal(dec("45"), dec("40")).Equal(dec("112.5")))
}

func TestCommissionDue(t *testing.T) {
	cs := []entity.Commission{
		{Amount: dec("10"), Status: entity.CommissionPending},
		{Amount: dec("15.5"), Status: entity.CommissionApproved},
		{Amount: dec("20"), Status: entity.CommissionPaid},
		{Amount: dec("99"), Status: entity.CommissionRejected},
	}

	s := stats.CommissionDue(cs)

	assert.True(t, s.Due.Equal(dec("25.5")))
	assert.True(t, s.Paid.Equal(dec("20")))
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, int64(44), s.PaidShare())
}

func TestCommissionDue_Vacio(t *testing.T) {
	s := stats.CommissionDue(nil)
	assert.True(t, s.Due.IsZero())
	assert.Equal(t, int64(0), s.PaidShare())
}

func TestWorkloads(t *testing.T) {
	ws := stats.Workloads([]entity.Allocation{
		{UserID: "u1", AllocatedHours: dec("30"), MaxHoursPerWeek: dec("40")},
		{UserID: "u2", AllocatedHours: dec("45"), MaxHoursPerWeek: dec("40")},
		{UserID: "u3", AllocatedHours: dec("10"), MaxHoursPerWeek: decimal.Zero},
	})

	assert.True(t, ws[0].Utilization.Equal(dec("75")))
	assert.False(t, ws[0].OverAllocated)
	assert.True(t, ws[1].OverAllocated)
	assert.True(t, ws[2].Utilization.IsZero())
	assert.False(t, ws[2].OverAllocated)
}

func TestCanTransitionCommission(t *testing.T) {
	assert.True(t, stats.CanTransitionCommission(entity.CommissionPending, entity.CommissionApproved))
	assert.True(t, stats.CanTransitionCommission(entity.CommissionApproved, entity.CommissionPaid))
	assert.False(t, stats.CanTransitionCommission(entity.CommissionPending, entity.CommissionPaid))
	assert.False(t, stats.CanTransitionCommission(entity.CommissionPaid, entity.CommissionRejected))
}
