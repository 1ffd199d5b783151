package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain/access"
)

// templateService lo implementa *templates.UseCase.
type templateService interface {
	Create(ctx context.Context, p *access.Principal, in dto.CreateTemplateRequest) (*dto.TemplateResponse, error)
	Get(ctx context.Context, p *access.Principal, id string) (*dto.TemplateResponse, error)
	List(ctx context.Context, p *access.Principal) ([]dto.TemplateResponse, error)
	Delete(ctx context.Context, p *access.Principal, id string) error
	Duplicate(ctx context.Context, p *access.Principal, id string, in dto.DuplicateTemplateRequest) (*dto.TemplateResponse, error)
}

// TemplateHandler plantillas de proyecto (de organización y globales).
type TemplateHandler struct {
	uc templateService
}

func NewTemplateHandler(uc templateService) *TemplateHandler {
	return &TemplateHandler{uc: uc}
}

func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTemplateRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *TemplateHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *TemplateHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *TemplateHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetPrincipal(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Duplicate copia una plantilla visible (p. ej. global) a la organización del llamador.
// El cuerpo es opcional.
func (h *TemplateHandler) Duplicate(c *fiber.Ctx) error {
	var in dto.DuplicateTemplateRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return writeError(c, err)
		}
	}
	out, err := h.uc.Duplicate(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
