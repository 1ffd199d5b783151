package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/access"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/internal/domain/repository"
)

var knownModules = map[string]bool{
	entity.ModuleAdmin:     true,
	entity.ModuleOps:       true,
	entity.ModuleAffiliate: true,
	entity.ModuleInvoicing: true,
	entity.ModuleWorkspace: true,
}

// ModuleService verifica qué módulos SaaS tiene activos una organización.
// Es el único punto de la aplicación que conoce la lógica de activación de módulos.
type ModuleService struct {
	orgRepo repository.OrganizationRepository
	now     func() time.Time
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(orgRepo repository.OrganizationRepository) *ModuleService {
	return &ModuleService{orgRepo: orgRepo, now: time.Now}
}

// HasActiveModule informa si la organización tiene el módulo activo y sin vencer.
// Devuelve false (sin error) si no lo tiene contratado; error solo ante fallos de infraestructura.
func (s *ModuleService) HasActiveModule(ctx context.Context, organizationID, moduleName string) (bool, error) {
	if organizationID == "" || moduleName == "" {
		return false, fmt.Errorf("module: organizationID y moduleName son obligatorios")
	}
	return s.orgRepo.HasActiveModule(ctx, organizationID, moduleName)
}

// List módulos de una organización (admin de esa organización o super-admin).
func (s *ModuleService) List(ctx context.Context, p *access.Principal, organizationID string) ([]dto.ModuleResponse, error) {
	if err := access.Authorize(p, access.RequireResource(access.Resource{OrganizationID: &organizationID}, access.Read)); err != nil {
		return nil, domain.ErrNotFound
	}
	mods, err := s.orgRepo.ListModules(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ModuleResponse, 0, len(mods))
	for _, m := range mods {
		out = append(out, dto.ModuleResponse{
			ModuleName:  m.ModuleName,
			IsActive:    m.IsActive,
			ActivatedAt: m.ActivatedAt,
			ExpiresAt:   m.ExpiresAt,
		})
	}
	return out, nil
}

// Set activa o desactiva un módulo. Solo super-admin.
func (s *ModuleService) Set(ctx context.Context, p *access.Principal, organizationID, moduleName string, in dto.SetModuleRequest) (*dto.ModuleResponse, error) {
	if err := access.Authorize(p, access.RequireSuperAdmin()); err != nil {
		return nil, err
	}
	if !knownModules[moduleName] {
		return nil, domain.NewValidationError("Unknown module: " + moduleName)
	}
	now := s.now().UTC()
	m := &entity.OrganizationModule{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		ModuleName:     moduleName,
		IsActive:       in.Active,
		ActivatedAt:    now,
		ExpiresAt:      in.ExpiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.orgRepo.UpsertModule(ctx, m); err != nil {
		return nil, err
	}
	return &dto.ModuleResponse{
		ModuleName:  m.ModuleName,
		IsActive:    m.IsActive,
		ActivatedAt: m.ActivatedAt,
		ExpiresAt:   m.ExpiresAt,
	}, nil
}
