package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain/access"
)

// userService lo implementa *usecase.UserUseCase.
type userService interface {
	Me(ctx context.Context, p *access.Principal) (*dto.UserResponse, error)
	ListByOrganization(ctx context.Context, p *access.Principal, page dto.PageRequest) (*dto.UserListResponse, error)
	AssignToOrganization(ctx context.Context, p *access.Principal, organizationID string, in dto.AssignUserRequest) (*dto.UserResponse, error)
}

// UserHandler perfil del llamador y gestión de miembros.
type UserHandler struct {
	uc userService
}

func NewUserHandler(uc userService) *UserHandler {
	return &UserHandler{uc: uc}
}

// Me GET /api/users/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/users (miembros de la organización del llamador)
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListByOrganization(c.UserContext(), GetPrincipal(c), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Assign POST /api/organizations/:id/users
func (h *UserHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignUserRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.AssignToOrganization(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
