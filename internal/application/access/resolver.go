// Package access resuelve el principal de cada petición y las decisiones que
// necesitan consultar almacenamiento (pertenencia a proyectos).
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Orbita-api/internal/domain"
	domainaccess "github.com/jhoicas/Orbita-api/internal/domain/access"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/internal/domain/repository"
)

// MsgUserNotFound motivo cuando ninguna de las dos lecturas encuentra al usuario.
const MsgUserNotFound = "User not found"

// Service arma el Principal a partir de la identidad autenticada.
// scoped respeta row-level security; privileged la omite y solo se usa como segundo intento.
type Service struct {
	scoped     repository.UserReader
	privileged repository.UserReader
	projects   repository.ProjectRepository
}

// NewService construye el servicio. projects puede ser nil si no se usan decisiones de proyecto.
func NewService(scoped, privileged repository.UserReader, projects repository.ProjectRepository) *Service {
	return &Service{scoped: scoped, privileged: privileged, projects: projects}
}

// ResolvePrincipal devuelve el principal del llamador; nunca se cachea entre peticiones.
func (s *Service) ResolvePrincipal(ctx context.Context, authID string) (*domainaccess.Principal, error) {
	if authID == "" {
		return nil, domain.NewUnauthorizedError(MsgUserNotFound)
	}
	u, err := s.resolveUserRecord(ctx, authID)
	if err != nil {
		return nil, err
	}
	return domainaccess.FromUser(u), nil
}

// resolveUserRecord lee primero con el lector acotado y, si no encuentra la fila o falla,
// reintenta con el privilegiado. Solo concluye "no existe" cuando ambos lo confirman.
func (s *Service) resolveUserRecord(ctx context.Context, authID string) (*entity.User, error) {
	log := zerolog.Ctx(ctx)
	if s.scoped != nil {
		u, err := s.scoped.GetByAuthID(ctx, authID)
		if err == nil && u != nil {
			return u, nil
		}
		if err != nil {
			log.Warn().Err(err).Msg("scoped user lookup failed, retrying with privileged reader")
		}
	}

	u, err := s.privileged.GetByAuthID(ctx, authID)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	if u == nil {
		return nil, domain.NewUnauthorizedError(MsgUserNotFound)
	}
	return u, nil
}

// ProjectAccess carga el proyecto y aplica la regla de acceso con la pertenencia del llamador.
// Proyecto inexistente → ErrNotFound; en lectura un Forbidden también se reporta como ErrNotFound.
func (s *Service) ProjectAccess(ctx context.Context, p *domainaccess.Principal, projectID string, mode domainaccess.Mode) (*entity.Project, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}

	res := domainaccess.Resource{OrganizationID: &project.OrganizationID, OwnerID: project.OwnerID}
	if !p.SuperAdmin() && project.OwnerID != p.UserID {
		member, err := s.projects.IsMember(ctx, project.ID, p.UserID)
		if err != nil {
			return nil, fmt.Errorf("check membership: %w", err)
		}
		res.IsMember = member
	}

	if err := domainaccess.Authorize(p, domainaccess.RequireResource(res, mode)); err != nil {
		if mode == domainaccess.Read && errors.Is(err, domain.ErrForbidden) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return project, nil
}
