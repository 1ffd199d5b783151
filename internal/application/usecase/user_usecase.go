package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Orbita-api/internal/application/auth"
	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/access"
	"github.com/jhoicas/Orbita-api/internal/domain/repository"
)

// ResourceInvalidator descarta read-models cacheados de una organización.
type ResourceInvalidator interface {
	Invalidate(ctx context.Context, organizationID string)
}

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo        repository.UserRepository
	invalidator ResourceInvalidator
	now         func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
// invalidator puede ser nil.
func NewUserUseCase(repo repository.UserRepository, invalidator ResourceInvalidator) *UserUseCase {
	return &UserUseCase{repo: repo, invalidator: invalidator, now: time.Now}
}

// Me devuelve el usuario del principal.
func (uc *UserUseCase) Me(ctx context.Context, p *access.Principal) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return auth.ToUserResponse(user), nil
}

// ListByOrganization usuarios de la organización del llamador (admin o pm).
func (uc *UserUseCase) ListByOrganization(ctx context.Context, p *access.Principal, page dto.PageRequest) (*dto.UserListResponse, error) {
	if err := access.Authorize(p, access.RequireRoles(access.RoleAdmin, access.RolePM)); err != nil {
		return nil, err
	}
	orgID, err := access.OrganizationOf(p)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.ListByOrganization(ctx, orgID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// AssignToOrganization completa el onboarding: asigna organización y rol a un usuario.
// Un admin solo puede incorporar usuarios sin organización a la suya; un super-admin a cualquiera.
func (uc *UserUseCase) AssignToOrganization(ctx context.Context, p *access.Principal, organizationID string, in dto.AssignUserRequest) (*dto.UserResponse, error) {
	if err := access.Authorize(p, access.RequireRoles(access.RoleAdmin)); err != nil {
		return nil, err
	}
	if err := access.Authorize(p, access.RequireResource(access.Resource{OrganizationID: &organizationID}, access.Write)); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	previous := ""
	if user.OrganizationID != nil {
		previous = *user.OrganizationID
	}
	if previous != "" && previous != organizationID && !p.SuperAdmin() {
		return nil, domain.NewValidationError("User already belongs to another organization")
	}

	user.OrganizationID = &organizationID
	user.Role = in.Role
	user.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if uc.invalidator != nil {
		uc.invalidator.Invalidate(ctx, organizationID)
		if previous != "" && previous != organizationID {
			uc.invalidator.Invalidate(ctx, previous)
		}
	}
	return auth.ToUserResponse(user), nil
}
