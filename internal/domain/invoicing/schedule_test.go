package invoicing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/internal/domain/invoicing"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func recurringParent() *entity.Invoice {
	next := day(2024, 2, 1)
	return &entity.Invoice{
		ID:                 "parent-1",
		OrganizationID:     "org-a",
		InvoiceNumber:      "INV-2024-000001",
		Status:             entity.InvoiceStatusSent,
		ClientName:         "ACME",
		ClientEmail:        "billing@acme.test",
		IssueDate:          day(2024, 1, 1),
		DueDate:            day(2024, 1, 15),
		TaxRate:            dec("8"),
		Notes:              "Soporte mensual",
		IsRecurring:        true,
		RecurringFrequency: entity.FrequencyMonthly,
		NextInvoiceDate:    &next,
		LineItems:          []entity.InvoiceLineItem{item("2", "50", "100"), item("1", "25", "25")},
	}
}

func TestNextOccurrence(t *testing.T) {
	base := day(2024, 1, 1)
	assert.Equal(t, day(2024, 2, 1), invoicing.NextOccurrence(base, entity.FrequencyMonthly))
	assert.Equal(t, day(2024, 4, 1), invoicing.NextOccurrence(base, entity.FrequencyQuarterly))
	assert.Equal(t, day(2025, 1, 1), invoicing.NextOccurrence(base, entity.FrequencyYearly))
	assert.Equal(t, base, invoicing.NextOccurrence(base, "weekly"))
}

func TestValidFrequency(t *testing.T) {
	assert.True(t, invoicing.ValidFrequency("monthly"))
	assert.False(t, invoicing.ValidFrequency("Monthly"))
	assert.False(t, invoicing.ValidFrequency(""))
}

func TestBuildRecurringChild_EscenarioMensual(t *testing.T) {
	parent := recurringParent()

	child, next, err := invoicing.BuildRecurringChild(parent, time.Date(2024, 2, 1, 17, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, day(2024, 2, 1), child.IssueDate)
	assert.Equal(t, day(2024, 2, 15), child.DueDate)
	assert.Equal(t, day(2024, 3, 1), next)
	assert.Equal(t, entity.InvoiceStatusDraft, child.Status)
	require.NotNil(t, child.ParentInvoiceID)
	assert.Equal(t, "parent-1", *child.ParentInvoiceID)
	assert.Equal(t, "Soporte mensual", child.Notes)
	assert.False(t, child.IsRecurring, "la hija no es plantilla de recurrencia")
	require.Len(t, child.LineItems, 2)
	assert.Equal(t, "135.00", child.TotalAmount.StringFixed(2))
}

func TestCheckRecurringDue(t *testing.T) {
	t.Run("no recurrente", func(t *testing.T) {
		p := recurringParent()
		p.IsRecurring = false
		err := invoicing.CheckRecurringDue(p, day(2024, 3, 1))
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, invoicing.MsgNotRecurring, domain.Reason(err))
	})
	t.Run("aún no vence", func(t *testing.T) {
		err := invoicing.CheckRecurringDue(recurringParent(), time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC))
		assert.Equal(t, invoicing.MsgRecurringNotDueYet, domain.Reason(err))
	})
	t.Run("terminada", func(t *testing.T) {
		p := recurringParent()
		end := day(2024, 1, 20)
		p.RecurringEndDate = &end
		err := invoicing.CheckRecurringDue(p, day(2024, 2, 2))
		assert.Equal(t, invoicing.MsgRecurringEnded, domain.Reason(err))
	})
	t.Run("cancelada", func(t *testing.T) {
		p := recurringParent()
		p.Status = entity.InvoiceStatusCancelled
		err := invoicing.CheckRecurringDue(p, day(2024, 3, 1))
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, invoicing.MsgRecurringCancelled, domain.Reason(err))
	})
	t.Run("mismo día de fin sigue vigente", func(t *testing.T) {
		p := recurringParent()
		end := day(2024, 2, 1)
		p.RecurringEndDate = &end
		assert.NoError(t, invoicing.CheckRecurringDue(p, time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)))
	})
}

func TestIsDue_ComparaDiasUTC(t *testing.T) {
	cot := time.FixedZone("COT", -5*60*60)
	scheduled := day(2024, 2, 1)

	// 31 ene 18:00 en UTC-5 es 31 ene 23:00 UTC: todavía no vence.
	assert.False(t, invoicing.IsDue(scheduled, time.Date(2024, 1, 31, 18, 0, 0, 0, cot)))
	// 31 ene 20:00 en UTC-5 ya es 1 feb en UTC.
	assert.True(t, invoicing.IsDue(scheduled, time.Date(2024, 1, 31, 20, 0, 0, 0, cot)))
	assert.True(t, invoicing.IsDue(scheduled, scheduled))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, invoicing.CanTransition(entity.InvoiceStatusDraft, entity.InvoiceStatusSent))
	assert.True(t, invoicing.CanTransition(entity.InvoiceStatusSent, entity.InvoiceStatusPaid))
	assert.True(t, invoicing.CanTransition(entity.InvoiceStatusOverdue, entity.InvoiceStatusPaid))
	assert.False(t, invoicing.CanTransition(entity.InvoiceStatusPaid, entity.InvoiceStatusDraft))
	assert.False(t, invoicing.CanTransition(entity.InvoiceStatusCancelled, entity.InvoiceStatusSent))
	assert.False(t, invoicing.CanTransition(entity.InvoiceStatusDraft, entity.InvoiceStatusPaid))
}

func TestFallbackNumber(t *testing.T) {
	now := time.UnixMilli(1717171234567).UTC()
	assert.Equal(t, "INV-2024-234567", invoicing.FallbackNumber("", now))
	assert.Equal(t, "ACME-2024-234567", invoicing.FallbackNumber(" acme ", now))
}
