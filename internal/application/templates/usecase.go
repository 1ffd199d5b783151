// Package templates gestiona plantillas de proyecto de organización y globales.
// Las globales solo las crea, edita o borra un super-admin; el resto las duplica.
package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/access"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/internal/domain/repository"
)

var deleters = access.RequireRoles(access.RoleAdmin, access.RolePM)

// UseCase casos de uso de plantillas.
type UseCase struct {
	repo repository.TemplateRepository
	now  func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.TemplateRepository) *UseCase {
	return &UseCase{repo: repo, now: time.Now}
}

// Create crea una plantilla de la organización del llamador, o global si lo pide un super-admin.
func (uc *UseCase) Create(ctx context.Context, p *access.Principal, in dto.CreateTemplateRequest) (*dto.TemplateResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("Template name is required")
	}
	t := &entity.Template{
		ID:                  uuid.New().String(),
		OwnerID:             p.UserID,
		Name:                strings.TrimSpace(in.Name),
		Description:         in.Description,
		Content:             in.Content,
		IsPubliclyAvailable: in.IsPubliclyAvailable,
		CreatedAt:           uc.now().UTC(),
	}
	t.UpdatedAt = t.CreatedAt

	if in.IsPubliclyAvailable {
		if err := access.Authorize(p, access.RequireSuperAdmin()); err != nil {
			return nil, err
		}
	} else {
		orgID, err := access.OrganizationOf(p)
		if err != nil {
			return nil, err
		}
		t.OrganizationID = &orgID
	}

	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	out := toResponse(t)
	return &out, nil
}

// Get devuelve una plantilla legible por el llamador; invisible → ErrNotFound.
func (uc *UseCase) Get(ctx context.Context, p *access.Principal, id string) (*dto.TemplateResponse, error) {
	t, err := uc.load(ctx, p, id, access.Read)
	if err != nil {
		return nil, err
	}
	out := toResponse(t)
	return &out, nil
}

// List plantillas de la organización más las globales.
func (uc *UseCase) List(ctx context.Context, p *access.Principal) ([]dto.TemplateResponse, error) {
	list, err := uc.repo.ListVisible(ctx, p.OrgID())
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	out := make([]dto.TemplateResponse, 0, len(list))
	for _, t := range list {
		if access.CanAccess(p, resourceOf(t), access.Read) {
			out = append(out, toResponse(t))
		}
	}
	return out, nil
}

// Delete borra una plantilla. Requiere admin o pm; las globales solo super-admin.
func (uc *UseCase) Delete(ctx context.Context, p *access.Principal, id string) error {
	if err := access.Authorize(p, deleters); err != nil {
		return err
	}
	t, err := uc.load(ctx, p, id, access.Write)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, t.ID); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

// Duplicate copia una plantilla legible (típicamente global) a la organización del llamador.
func (uc *UseCase) Duplicate(ctx context.Context, p *access.Principal, id string, in dto.DuplicateTemplateRequest) (*dto.TemplateResponse, error) {
	orgID, err := access.OrganizationOf(p)
	if err != nil {
		return nil, err
	}
	src, err := uc.load(ctx, p, id, access.Read)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = src.Name + " (copy)"
	}
	now := uc.now().UTC()
	srcID := src.ID
	cp := &entity.Template{
		ID:               uuid.New().String(),
		OrganizationID:   &orgID,
		OwnerID:          p.UserID,
		Name:             name,
		Description:      src.Description,
		Content:          append([]byte(nil), src.Content...),
		SourceTemplateID: &srcID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, cp); err != nil {
		return nil, fmt.Errorf("duplicate template: %w", err)
	}
	out := toResponse(cp)
	return &out, nil
}

func (uc *UseCase) load(ctx context.Context, p *access.Principal, id string, mode access.Mode) (*entity.Template, error) {
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	res := resourceOf(t)
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
	return t, nil
}

func resourceOf(t *entity.Template) access.Resource {
	return access.Resource{
		OrganizationID:      t.OrganizationID,
		OwnerID:             t.OwnerID,
		IsPubliclyAvailable: t.IsPubliclyAvailable,
	}
}

func toResponse(t *entity.Template) dto.TemplateResponse {
	out := dto.TemplateResponse{
		ID:                  t.ID,
		OwnerID:             t.OwnerID,
		Name:                t.Name,
		Description:         t.Description,
		Content:             t.Content,
		IsPubliclyAvailable: t.IsPubliclyAvailable,
		CreatedAt:           t.CreatedAt,
	}
	if t.OrganizationID != nil {
		out.OrganizationID = *t.OrganizationID
	}
	if t.SourceTemplateID != nil {
		out.SourceTemplateID = *t.SourceTemplateID
	}
	return out
}
