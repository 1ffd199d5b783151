// Package analytics contiene el tablero combinado de recursos: carga de trabajo,
// usuarios activos y comisiones de afiliados y partners.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/access"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/internal/domain/repository"
	"github.com/jhoicas/Orbita-api/internal/domain/stats"
)

// Secciones del tablero; se reportan en Degraded cuando fallan.
const (
	SectionWorkloads = "workloads"
	SectionUsers     = "users"
	SectionAffiliate = "affiliate_commissions"
	SectionPartner   = "partner_commissions"
)

var viewers = access.RequireRoles(access.RoleAdmin, access.RolePM)

// ResourceUseCase arma el tablero combinado. La caché es opcional (nil = sin caché).
type ResourceUseCase struct {
	repo  repository.ResourceRepository
	cache ResourceCache
	now   func() time.Time
}

// NewResourceUseCase construye el caso de uso.
func NewResourceUseCase(repo repository.ResourceRepository, cache ResourceCache) *ResourceUseCase {
	return &ResourceUseCase{repo: repo, cache: cache, now: time.Now}
}

// Combined devuelve el tablero de la organización del llamador.
//
// Cuatro consultas en paralelo:
//  1. ListAllocations             → Workloads
//  2. CountUsers                  → Users
//  3. ListCommissions(affiliate)  → Affiliate
//  4. ListCommissions(partner)    → Partner
//
// Una sección que falla va vacía y se anota en Degraded; la petición no falla.
func (uc *ResourceUseCase) Combined(ctx context.Context, p *access.Principal) (*dto.CombinedResourcesResponse, error) {
	if err := access.Authorize(p, viewers); err != nil {
		return nil, err
	}
	orgID, err := access.OrganizationOf(p)
	if err != nil {
		return nil, err
	}
	logger := zerolog.Ctx(ctx)

	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, orgID)
		if err != nil {
			logger.Warn().Err(err).Str("organization_id", orgID).Msg("resource cache read failed")
		} else if cached != nil {
			cached.Cached = true
			return cached, nil
		}
	}

	type allocResult struct {
		rows []entity.Allocation
		err  error
	}
	type usersResult struct {
		total, active int64
		err           error
	}
	type commissionResult struct {
		rows []entity.Commission
		err  error
	}

	allocCh := make(chan allocResult, 1)
	usersCh := make(chan usersResult, 1)
	affCh := make(chan commissionResult, 1)
	partCh := make(chan commissionResult, 1)

	go func() {
		rows, err := uc.repo.ListAllocations(ctx, orgID)
		allocCh <- allocResult{rows, err}
	}()
	go func() {
		total, active, err := uc.repo.CountUsers(ctx, orgID)
		usersCh <- usersResult{total, active, err}
	}()
	go func() {
		rows, err := uc.repo.ListCommissions(ctx, orgID, entity.CommissionKindAffiliate)
		affCh <- commissionResult{rows, err}
	}()
	go func() {
		rows, err := uc.repo.ListCommissions(ctx, orgID, entity.CommissionKindPartner)
		partCh <- commissionResult{rows, err}
	}()

	alloc := <-allocCh
	users := <-usersCh
	aff := <-affCh
	part := <-partCh

	out := &dto.CombinedResourcesResponse{
		OrganizationID: orgID,
		Workloads:      []stats.Workload{},
		GeneratedAt:    uc.now().UTC(),
	}
	degrade := func(section string, err error) {
		logger.Warn().Err(err).Str("organization_id", orgID).Str("section", section).
			Msg("combined resources: section degraded")
		out.Degraded = append(out.Degraded, section)
	}

	if alloc.err != nil {
		degrade(SectionWorkloads, alloc.err)
	} else {
		out.Workloads = stats.Workloads(alloc.rows)
		for _, w := range out.Workloads {
			if w.OverAllocated {
				out.OverAllocated++
			}
		}
	}
	if users.err != nil {
		degrade(SectionUsers, users.err)
	} else {
		out.Users = dto.UserCountsDTO{
			Total:         users.total,
			Active:        users.active,
			ActivePercent: stats.PercentInt(users.active, users.total),
		}
	}
	if aff.err != nil {
		degrade(SectionAffiliate, aff.err)
		out.Affiliate = stats.CommissionDue(nil)
	} else {
		out.Affiliate = stats.CommissionDue(aff.rows)
	}
	if part.err != nil {
		degrade(SectionPartner, part.err)
		out.Partner = stats.CommissionDue(nil)
	} else {
		out.Partner = stats.CommissionDue(part.rows)
	}

	// Un resultado parcial no se cachea: la siguiente petición reintenta.
	if uc.cache != nil && len(out.Degraded) == 0 {
		if err := uc.cache.Set(ctx, orgID, out); err != nil {
			logger.Warn().Err(err).Str("organization_id", orgID).Msg("resource cache write failed")
		}
	}
	return out, nil
}

// UpdateCommissionStatus aprueba, paga o rechaza una comisión. Solo admin.
func (uc *ResourceUseCase) UpdateCommissionStatus(ctx context.Context, p *access.Principal, id string, in dto.UpdateCommissionStatusRequest) (*dto.CommissionResponse, error) {
	if err := access.Authorize(p, access.RequireRoles(access.RoleAdmin)); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetCommission(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get commission: %w", err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	orgID := c.OrganizationID
	if err := access.Authorize(p, access.RequireResource(access.Resource{OrganizationID: &orgID}, access.Write)); err != nil {
		return nil, domain.ErrNotFound
	}
	if !stats.CanTransitionCommission(c.Status, in.Status) {
		return nil, domain.NewValidationError(fmt.Sprintf("Cannot change commission status from %s to %s", c.Status, in.Status))
	}
	if err := uc.repo.UpdateCommissionStatus(ctx, c.ID, in.Status); err != nil {
		return nil, fmt.Errorf("update commission: %w", err)
	}
	c.Status = in.Status
	uc.Invalidate(ctx, c.OrganizationID)

	return &dto.CommissionResponse{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		Kind:           c.Kind,
		BeneficiaryID:  c.BeneficiaryID,
		Amount:         c.Amount,
		Status:         c.Status,
	}, nil
}

// Invalidate descarta el tablero cacheado de la organización. Un fallo solo se registra.
func (uc *ResourceUseCase) Invalidate(ctx context.Context, organizationID string) {
	if uc.cache == nil || organizationID == "" {
		return
	}
	if err := uc.cache.Invalidate(ctx, organizationID); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("organization_id", organizationID).
			Msg("resource cache invalidation failed")
	}
}
