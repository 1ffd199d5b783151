package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/access"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/internal/domain/invoicing"
	"github.com/jhoicas/Orbita-api/internal/domain/repository"
)

// OrganizationUseCase administración de tenants. Crear, listar y borrar es solo de super-admin;
// un admin puede leer y editar la suya.
type OrganizationUseCase struct {
	repo repository.OrganizationRepository
	now  func() time.Time
}

// NewOrganizationUseCase construye el caso de uso con el puerto de persistencia.
func NewOrganizationUseCase(repo repository.OrganizationRepository) *OrganizationUseCase {
	return &OrganizationUseCase{repo: repo, now: time.Now}
}

// Create crea una organización. Devuelve domain.ErrDuplicate si el slug ya existe.
func (uc *OrganizationUseCase) Create(ctx context.Context, p *access.Principal, in dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
	if err := access.Authorize(p, access.RequireSuperAdmin()); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	org := &entity.Organization{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(in.Name),
		Slug:          strings.TrimSpace(in.Slug),
		InvoicePrefix: invoicing.NormalizePrefix(in.InvoicePrefix),
		Status:        "active",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, org); err != nil {
		return nil, err
	}
	return toOrganizationResponse(org), nil
}

// GetByID obtiene una organización. Otra organización → ErrNotFound.
func (uc *OrganizationUseCase) GetByID(ctx context.Context, p *access.Principal, id string) (*dto.OrganizationResponse, error) {
	org, err := uc.load(ctx, p, id, access.Read)
	if err != nil {
		return nil, err
	}
	return toOrganizationResponse(org), nil
}

// List lista organizaciones con paginación (super-admin).
func (uc *OrganizationUseCase) List(ctx context.Context, p *access.Principal, page dto.PageRequest) (*dto.OrganizationListResponse, error) {
	if err := access.Authorize(p, access.RequireSuperAdmin()); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrganizationResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrganizationResponse(o))
	}
	return &dto.OrganizationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update aplica el parche. El estado solo lo cambia un super-admin.
func (uc *OrganizationUseCase) Update(ctx context.Context, p *access.Principal, id string, in dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error) {
	if err := access.Authorize(p, access.RequireRoles(access.RoleAdmin)); err != nil {
		return nil, err
	}
	org, err := uc.load(ctx, p, id, access.Write)
	if err != nil {
		return nil, err
	}
	if in.Status != nil && !p.SuperAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		org.Name = strings.TrimSpace(*in.Name)
	}
	if in.InvoicePrefix != nil {
		org.InvoicePrefix = invoicing.NormalizePrefix(*in.InvoicePrefix)
	}
	if in.Status != nil {
		org.Status = *in.Status
	}
	org.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, org); err != nil {
		return nil, err
	}
	return toOrganizationResponse(org), nil
}

// Delete borra una organización (super-admin).
func (uc *OrganizationUseCase) Delete(ctx context.Context, p *access.Principal, id string) error {
	if err := access.Authorize(p, access.RequireSuperAdmin()); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *OrganizationUseCase) load(ctx context.Context, p *access.Principal, id string, mode access.Mode) (*entity.Organization, error) {
	org, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	orgID := org.ID
	if err := access.Authorize(p, access.RequireResource(access.Resource{OrganizationID: &orgID}, mode)); err != nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func toOrganizationResponse(o *entity.Organization) *dto.OrganizationResponse {
	if o == nil {
		return nil
	}
	return &dto.OrganizationResponse{
		ID:            o.ID,
		Name:          o.Name,
		Slug:          o.Slug,
		InvoicePrefix: o.InvoicePrefix,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
