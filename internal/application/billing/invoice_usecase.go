package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/access"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/internal/domain/invoicing"
	"github.com/jhoicas/Orbita-api/internal/domain/repository"
)

// Motivos de validación propios del ciclo de vida.
const (
	MsgPaymentAmountPositive = "Payment amount must be greater than 0"
	MsgPaymentNotAllowed     = "Payments can only be recorded on sent or overdue invoices"
)

const defaultDueDays = 30

// writers roles que pueden crear y modificar facturas.
var writers = access.RequireRoles(access.RoleAdmin, access.RolePM)

// Config opciones del caso de uso de facturas.
type Config struct {
	DefaultPrefix string
	// TransactionalLineItems guarda cabecera y líneas en una sola transacción.
	// Apagado, un fallo al insertar líneas se registra y la cabecera queda creada.
	TransactionalLineItems bool
}

// InvoiceUseCase ciclo de vida de las facturas: alta, edición en borrador, envío, pagos y recurrencia.
type InvoiceUseCase struct {
	invoices  repository.InvoiceRepository
	payments  repository.PaymentRepository
	orgs      repository.OrganizationRepository
	activity  repository.ActivityRepository
	numbers   *NumberGenerator
	tx        InvoiceTxRunner
	notifiers []Notifier
	cfg       Config
	now       func() time.Time

	pending sync.WaitGroup
}

// NewInvoiceUseCase construye el caso de uso. tx, activity y notifiers pueden ser nil.
func NewInvoiceUseCase(
	invoices repository.InvoiceRepository,
	payments repository.PaymentRepository,
	orgs repository.OrganizationRepository,
	activity repository.ActivityRepository,
	numbers *NumberGenerator,
	tx InvoiceTxRunner,
	notifiers []Notifier,
	cfg Config,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoices:  invoices,
		payments:  payments,
		orgs:      orgs,
		activity:  activity,
		numbers:   numbers,
		tx:        tx,
		notifiers: notifiers,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Create valida, calcula totales, numera y persiste una factura nueva en borrador.
func (uc *InvoiceUseCase) Create(ctx context.Context, p *access.Principal, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	orgID, err := access.OrganizationOf(p)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(p, writers); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	issue, err := parseDate(in.IssueDate, invoicing.StartOfDay(now))
	if err != nil {
		return nil, err
	}
	due, err := parseDate(in.DueDate, issue.AddDate(0, 0, defaultDueDays))
	if err != nil {
		return nil, err
	}
	endDate, err := parseOptionalDate(in.RecurringEndDate)
	if err != nil {
		return nil, err
	}

	items := invoicing.NormalizeLineItems(lineItemsFromRequest(in.LineItems))
	if err := invoicing.ValidateDraft(invoicing.Draft{ClientName: in.ClientName, LineItems: items, TaxRate: in.TaxRate}); err != nil {
		return nil, err
	}
	if due.Before(issue) {
		return nil, domain.NewValidationError(invoicing.MsgDueBeforeIssue)
	}
	if in.IsRecurring && !invoicing.ValidFrequency(in.RecurringFrequency) {
		return nil, domain.NewValidationError(invoicing.MsgInvalidFrequency)
	}

	inv := &entity.Invoice{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Status:         entity.InvoiceStatusDraft,
		ClientName:     strings.TrimSpace(in.ClientName),
		ClientEmail:    in.ClientEmail,
		ClientAddress:  in.ClientAddress,
		IssueDate:      issue,
		DueDate:        due,
		TaxRate:        in.TaxRate,
		Notes:          in.Notes,
		IsRecurring:    in.IsRecurring,
		CreatedBy:      p.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
		LineItems:      items,
	}
	invoicing.CalculateTotals(items, in.TaxRate).Apply(inv)
	if in.IsRecurring {
		inv.RecurringFrequency = in.RecurringFrequency
		inv.NextInvoiceDate = ptr(invoicing.NextOccurrence(issue, in.RecurringFrequency))
		inv.RecurringEndDate = endDate
	}

	if err := uc.insertNumbered(ctx, inv); err != nil {
		return nil, err
	}
	uc.record(ctx, p, inv, "invoice.created")

	out := toInvoiceResponse(inv)
	return &out, nil
}

// Get devuelve la factura con sus líneas y lo pagado. Invisible para el llamador → ErrNotFound.
func (uc *InvoiceUseCase) Get(ctx context.Context, p *access.Principal, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, p, id, access.Read)
	if err != nil {
		return nil, err
	}
	if inv.LineItems, err = uc.invoices.GetLineItems(ctx, inv.ID); err != nil {
		return nil, fmt.Errorf("get line items: %w", err)
	}
	paid, err := uc.payments.SumByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}
	out := toInvoiceResponse(inv)
	out.AmountPaid = &paid
	return &out, nil
}

// List facturas de la organización del llamador, sin líneas.
func (uc *InvoiceUseCase) List(ctx context.Context, p *access.Principal, in dto.ListInvoicesRequest) (*dto.InvoiceListResponse, error) {
	orgID, err := access.OrganizationOf(p)
	if err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, total, err := uc.invoices.List(ctx, orgID, repository.InvoiceFilter{Status: in.Status, Limit: in.Limit, Offset: in.Offset})
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	out := &dto.InvoiceListResponse{
		Items: make([]dto.InvoiceResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}
	for _, inv := range list {
		out.Items = append(out.Items, toInvoiceResponse(inv))
	}
	return out, nil
}

// Update aplica un patch sobre una factura en borrador. Con line_items reemplaza todas las líneas;
// si solo cambia tax_rate recalcula contra las líneas guardadas.
func (uc *InvoiceUseCase) Update(ctx context.Context, p *access.Principal, id string, patch dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.loadForWrite(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !inv.IsDraft() {
		return nil, domain.NewValidationError(invoicing.MsgOnlyDraftEditable)
	}

	before := scheduleOf(inv)
	if patch.ClientName != nil {
		inv.ClientName = strings.TrimSpace(*patch.ClientName)
	}
	if patch.ClientEmail != nil {
		inv.ClientEmail = *patch.ClientEmail
	}
	if patch.ClientAddress != nil {
		inv.ClientAddress = *patch.ClientAddress
	}
	if patch.Notes != nil {
		inv.Notes = *patch.Notes
	}
	if patch.IssueDate != nil {
		if inv.IssueDate, err = parseDate(*patch.IssueDate, inv.IssueDate); err != nil {
			return nil, err
		}
	}
	if patch.DueDate != nil {
		if inv.DueDate, err = parseDate(*patch.DueDate, inv.DueDate); err != nil {
			return nil, err
		}
	}
	if patch.TaxRate != nil {
		inv.TaxRate = *patch.TaxRate
	}
	if err := uc.applyRecurringPatch(inv, patch, before); err != nil {
		return nil, err
	}

	replace := patch.LineItems != nil
	if replace {
		inv.LineItems = invoicing.NormalizeLineItems(lineItemsFromRequest(*patch.LineItems))
	} else if inv.LineItems, err = uc.invoices.GetLineItems(ctx, inv.ID); err != nil {
		return nil, fmt.Errorf("get line items: %w", err)
	}

	if replace {
		err = invoicing.ValidateDraft(invoicing.Draft{ClientName: inv.ClientName, LineItems: inv.LineItems, TaxRate: inv.TaxRate})
	} else {
		err = validateHeaderPatch(inv)
	}
	if err != nil {
		return nil, err
	}
	if inv.DueDate.Before(inv.IssueDate) {
		return nil, domain.NewValidationError(invoicing.MsgDueBeforeIssue)
	}

	invoicing.CalculateTotals(inv.LineItems, inv.TaxRate).Apply(inv)
	inv.UpdatedAt = uc.now().UTC()

	if err := uc.saveDraft(ctx, inv, replace); err != nil {
		return nil, err
	}
	uc.record(ctx, p, inv, "invoice.updated")

	out := toInvoiceResponse(inv)
	return &out, nil
}

// Send pasa la factura a enviada y dispara las notificaciones sin esperarlas.
func (uc *InvoiceUseCase) Send(ctx context.Context, p *access.Principal, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.transition(ctx, p, id, entity.InvoiceStatusSent)
	if err != nil {
		return nil, err
	}
	uc.notifySent(ctx, inv)
	uc.record(ctx, p, inv, "invoice.sent")
	out := toInvoiceResponse(inv)
	return &out, nil
}

// Cancel anula la factura si el estado actual lo permite.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, p *access.Principal, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.transition(ctx, p, id, entity.InvoiceStatusCancelled)
	if err != nil {
		return nil, err
	}
	uc.record(ctx, p, inv, "invoice.cancelled")
	out := toInvoiceResponse(inv)
	return &out, nil
}

// MarkPaid registra un pago y marca la factura como pagada cuando lo acumulado cubre el total.
// Los pagos parciales no cambian el estado.
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, p *access.Principal, id string, in dto.RecordPaymentRequest) (*dto.MarkPaidResponse, error) {
	inv, err := uc.loadForWrite(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, domain.NewValidationError(MsgPaymentAmountPositive)
	}
	if inv.Status != entity.InvoiceStatusSent && inv.Status != entity.InvoiceStatusOverdue {
		return nil, domain.NewValidationError(MsgPaymentNotAllowed)
	}

	now := uc.now().UTC()
	paidAt, err := parseDate(in.PaidAt, now)
	if err != nil {
		return nil, err
	}
	method := in.Method
	if method == "" {
		method = "other"
	}
	pay := &entity.Payment{
		ID:         uuid.New().String(),
		InvoiceID:  inv.ID,
		Amount:     in.Amount,
		Method:     method,
		Reference:  in.Reference,
		PaidAt:     paidAt,
		RecordedBy: p.UserID,
		CreatedAt:  now,
	}

	var totalPaid decimal.Decimal
	apply := func(invoices repository.InvoiceRepository, payments repository.PaymentRepository) error {
		if err := payments.Create(ctx, pay); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		sum, err := payments.SumByInvoice(ctx, inv.ID)
		if err != nil {
			return fmt.Errorf("sum payments: %w", err)
		}
		totalPaid = sum
		if sum.GreaterThanOrEqual(inv.TotalAmount) {
			inv.Status = entity.InvoiceStatusPaid
			inv.PaidAt = &paidAt
			inv.UpdatedAt = now
			if err := invoices.Update(ctx, inv); err != nil {
				return fmt.Errorf("mark invoice paid: %w", err)
			}
		}
		return nil
	}
	if uc.tx != nil {
		err = uc.tx.RunInvoice(ctx, apply)
	} else {
		err = apply(uc.invoices, uc.payments)
	}
	if err != nil {
		return nil, err
	}
	uc.record(ctx, p, inv, "invoice.payment_recorded")

	return &dto.MarkPaidResponse{
		Invoice:   toInvoiceResponse(inv),
		Payment:   toPaymentResponse(pay),
		TotalPaid: totalPaid,
	}, nil
}

// GenerateRecurring crea la siguiente hija de un padre recurrente cuyo next_invoice_date ya llegó.
func (uc *InvoiceUseCase) GenerateRecurring(ctx context.Context, p *access.Principal, parentID string) (*dto.InvoiceResponse, error) {
	parent, err := uc.loadForWrite(ctx, p, parentID)
	if err != nil {
		return nil, err
	}
	child, err := uc.generateChild(ctx, parent, p.UserID, uc.now())
	if err != nil {
		return nil, err
	}
	uc.record(ctx, p, child, "invoice.recurring_generated")
	out := toInvoiceResponse(child)
	return &out, nil
}

// GenerateDueRecurring recorre todos los padres vencidos a la fecha. Un fallo por padre se registra
// y no detiene el lote.
func (uc *InvoiceUseCase) GenerateDueRecurring(ctx context.Context, now time.Time) (*dto.RecurringRunResponse, error) {
	parents, err := uc.invoices.ListDueRecurring(ctx, invoicing.StartOfDay(now.UTC()))
	if err != nil {
		return nil, fmt.Errorf("list due recurring: %w", err)
	}
	log := zerolog.Ctx(ctx)
	res := &dto.RecurringRunResponse{Generated: []string{}}
	for _, parent := range parents {
		child, err := uc.generateChild(ctx, parent, parent.CreatedBy, now)
		switch {
		case err == nil:
			res.Generated = append(res.Generated, child.ID)
		case errors.Is(err, domain.ErrValidation):
			res.Skipped++
			log.Debug().Str("invoice_id", parent.ID).Str("reason", domain.Reason(err)).Msg("recurring invoice skipped")
		default:
			res.Failed++
			log.Error().Err(err).Str("invoice_id", parent.ID).Msg("recurring invoice generation failed")
		}
	}
	log.Info().Int("generated", len(res.Generated)).Int("skipped", res.Skipped).Int("failed", res.Failed).
		Msg("recurring run finished")
	return res, nil
}

// Wait bloquea hasta que terminen las notificaciones en vuelo.
func (uc *InvoiceUseCase) Wait() {
	uc.pending.Wait()
}

// ── internos ─────────────────────────────────────────────────────────────────

// load trae la cabecera y aplica la regla de acceso. En lectura un Forbidden se reporta como NotFound.
func (uc *InvoiceUseCase) load(ctx context.Context, p *access.Principal, id string, mode access.Mode) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	res := access.Resource{OrganizationID: &inv.OrganizationID, OwnerID: inv.CreatedBy}
	if err := access.Authorize(p, access.RequireResource(res, access.Read)); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if mode == access.Write {
		if err := access.Authorize(p, access.RequireResource(res, access.Write)); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

func (uc *InvoiceUseCase) loadForWrite(ctx context.Context, p *access.Principal, id string) (*entity.Invoice, error) {
	if err := access.Authorize(p, writers); err != nil {
		return nil, err
	}
	return uc.load(ctx, p, id, access.Write)
}

func (uc *InvoiceUseCase) transition(ctx context.Context, p *access.Principal, id, to string) (*entity.Invoice, error) {
	inv, err := uc.loadForWrite(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !invoicing.CanTransition(inv.Status, to) {
		return nil, domain.NewValidationError(fmt.Sprintf("Cannot change invoice status from %s to %s", inv.Status, to))
	}
	now := uc.now().UTC()
	inv.Status = to
	inv.UpdatedAt = now
	if to == entity.InvoiceStatusSent {
		inv.SentAt = &now
	}
	if err := uc.invoices.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("update invoice status: %w", err)
	}
	return inv, nil
}

// recurringSchedule lo que determina next_invoice_date antes de aplicar un patch.
type recurringSchedule struct {
	recurring bool
	frequency string
	issue     time.Time
}

func scheduleOf(inv *entity.Invoice) recurringSchedule {
	return recurringSchedule{recurring: inv.IsRecurring, frequency: inv.RecurringFrequency, issue: inv.IssueDate}
}

// applyRecurringPatch solo recalcula next_invoice_date cuando cambia el calendario. Un patch de
// notas o cliente no debe retroceder la fecha que ya avanzó una generación.
func (uc *InvoiceUseCase) applyRecurringPatch(inv *entity.Invoice, patch dto.UpdateInvoiceRequest, before recurringSchedule) error {
	if patch.IsRecurring != nil {
		inv.IsRecurring = *patch.IsRecurring
	}
	if patch.RecurringFrequency != nil {
		inv.RecurringFrequency = *patch.RecurringFrequency
	}
	if patch.RecurringEndDate != nil {
		end, err := parseOptionalDate(*patch.RecurringEndDate)
		if err != nil {
			return err
		}
		inv.RecurringEndDate = end
	}
	if !inv.IsRecurring {
		inv.RecurringFrequency = ""
		inv.NextInvoiceDate = nil
		inv.RecurringEndDate = nil
		return nil
	}
	if !invoicing.ValidFrequency(inv.RecurringFrequency) {
		return domain.NewValidationError(invoicing.MsgInvalidFrequency)
	}
	changed := !before.recurring ||
		before.frequency != inv.RecurringFrequency ||
		!before.issue.Equal(inv.IssueDate)
	if changed || inv.NextInvoiceDate == nil {
		inv.NextInvoiceDate = ptr(invoicing.NextOccurrence(inv.IssueDate, inv.RecurringFrequency))
	}
	return nil
}

func validateHeaderPatch(inv *entity.Invoice) error {
	if inv.ClientName == "" {
		return domain.NewValidationError(invoicing.MsgClientNameRequired)
	}
	return invoicing.ValidateTaxRate(inv.TaxRate)
}

// insertNumbered numera y persiste. Si el número choca con la restricción única se renumera una vez.
func (uc *InvoiceUseCase) insertNumbered(ctx context.Context, inv *entity.Invoice) error {
	prefix := uc.prefixFor(ctx, inv.OrganizationID)
	inv.InvoiceNumber = uc.numbers.Generate(ctx, prefix)
	err := uc.insert(ctx, inv)
	if errors.Is(err, domain.ErrDuplicate) {
		zerolog.Ctx(ctx).Warn().Str("number", inv.InvoiceNumber).Msg("invoice number taken at insert, renumbering")
		inv.InvoiceNumber = uc.numbers.Generate(ctx, prefix)
		err = uc.insert(ctx, inv)
	}
	return err
}

// insert guarda cabecera y líneas. Sin TransactionalLineItems un fallo en las líneas no deshace la cabecera.
func (uc *InvoiceUseCase) insert(ctx context.Context, inv *entity.Invoice) error {
	if uc.cfg.TransactionalLineItems && uc.tx != nil {
		return uc.tx.RunInvoice(ctx, func(invoices repository.InvoiceRepository, _ repository.PaymentRepository) error {
			if err := invoices.Create(ctx, inv); err != nil {
				return err
			}
			return invoices.CreateLineItems(ctx, inv.ID, inv.LineItems)
		})
	}
	if err := uc.invoices.Create(ctx, inv); err != nil {
		return err
	}
	if err := uc.invoices.CreateLineItems(ctx, inv.ID, inv.LineItems); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("invoice_id", inv.ID).Int("line_items", len(inv.LineItems)).
			Msg("line items not persisted, invoice header kept")
	}
	return nil
}

// saveDraft persiste la cabecera y, si corresponde, reemplaza las líneas (borrar todas, insertar todas).
func (uc *InvoiceUseCase) saveDraft(ctx context.Context, inv *entity.Invoice, replaceItems bool) error {
	save := func(invoices repository.InvoiceRepository) error {
		if err := invoices.Update(ctx, inv); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		if !replaceItems {
			return nil
		}
		if err := invoices.DeleteLineItems(ctx, inv.ID); err != nil {
			return fmt.Errorf("delete line items: %w", err)
		}
		if err := invoices.CreateLineItems(ctx, inv.ID, inv.LineItems); err != nil {
			return fmt.Errorf("insert line items: %w", err)
		}
		return nil
	}
	if uc.cfg.TransactionalLineItems && uc.tx != nil {
		return uc.tx.RunInvoice(ctx, func(invoices repository.InvoiceRepository, _ repository.PaymentRepository) error {
			return save(invoices)
		})
	}
	return save(uc.invoices)
}

func (uc *InvoiceUseCase) generateChild(ctx context.Context, parent *entity.Invoice, actorID string, now time.Time) (*entity.Invoice, error) {
	items, err := uc.invoices.GetLineItems(ctx, parent.ID)
	if err != nil {
		return nil, fmt.Errorf("get parent line items: %w", err)
	}
	parent.LineItems = items

	child, next, err := invoicing.BuildRecurringChild(parent, now.UTC())
	if err != nil {
		return nil, err
	}
	stamp := uc.now().UTC()
	child.ID = uuid.New().String()
	child.CreatedBy = actorID
	child.CreatedAt = stamp
	child.UpdatedAt = stamp

	if err := uc.insertNumbered(ctx, child); err != nil {
		return nil, fmt.Errorf("insert recurring child: %w", err)
	}

	parent.NextInvoiceDate = &next
	parent.UpdatedAt = stamp
	if err := uc.invoices.Update(ctx, parent); err != nil {
		return nil, fmt.Errorf("advance next invoice date: %w", err)
	}
	return child, nil
}

func (uc *InvoiceUseCase) prefixFor(ctx context.Context, orgID string) string {
	if uc.orgs != nil {
		org, err := uc.orgs.GetByID(ctx, orgID)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("organization_id", orgID).Msg("organization lookup failed, using default prefix")
		} else if org != nil && org.InvoicePrefix != "" {
			return org.InvoicePrefix
		}
	}
	return invoicing.NormalizePrefix(uc.cfg.DefaultPrefix)
}

// notifySent lanza cada canal en su propia goroutine; los errores solo se registran.
func (uc *InvoiceUseCase) notifySent(ctx context.Context, inv *entity.Invoice) {
	if len(uc.notifiers) == 0 {
		return
	}
	n := InvoiceNotification{
		OrganizationID: inv.OrganizationID,
		InvoiceID:      inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		ClientName:     inv.ClientName,
		ClientEmail:    inv.ClientEmail,
		Total:          inv.TotalAmount,
		DueDate:        inv.DueDate,
	}
	bg := context.WithoutCancel(ctx)
	log := zerolog.Ctx(ctx)
	for _, notifier := range uc.notifiers {
		uc.pending.Add(1)
		go func(nt Notifier) {
			defer uc.pending.Done()
			if err := nt.InvoiceSent(bg, n); err != nil {
				log.Error().Err(err).Str("channel", nt.Name()).Str("invoice_id", n.InvoiceID).
					Msg("invoice notification failed")
			}
		}(notifier)
	}
}

// record escribe en el feed de actividad; best-effort.
func (uc *InvoiceUseCase) record(ctx context.Context, p *access.Principal, inv *entity.Invoice, action string) {
	if uc.activity == nil {
		return
	}
	err := uc.activity.Create(ctx, &entity.Activity{
		ID:             uuid.New().String(),
		OrganizationID: inv.OrganizationID,
		ActorID:        p.UserID,
		Action:         action,
		EntityType:     "invoice",
		EntityID:       inv.ID,
		CreatedAt:      uc.now().UTC(),
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("action", action).Msg("activity feed write failed")
	}
}
