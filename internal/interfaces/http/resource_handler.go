package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain/access"
)

// resourceService lo implementa *analytics.ResourceUseCase.
type resourceService interface {
	Combined(ctx context.Context, p *access.Principal) (*dto.CombinedResourcesResponse, error)
	UpdateCommissionStatus(ctx context.Context, p *access.Principal, id string, in dto.UpdateCommissionStatusRequest) (*dto.CommissionResponse, error)
}

// ResourceHandler vista combinada de carga de trabajo, usuarios y comisiones.
type ResourceHandler struct {
	uc resourceService
}

func NewResourceHandler(uc resourceService) *ResourceHandler {
	return &ResourceHandler{uc: uc}
}

// Combined godoc
// @Summary      Recursos combinados de la organización
// @Description  Si una sección falla se omite y su nombre aparece en "degraded".
// @Tags         resources
// @Produce      json
// @Success      200  {object}  dto.CombinedResourcesResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/resources/combined [get]
func (h *ResourceHandler) Combined(c *fiber.Ctx) error {
	out, err := h.uc.Combined(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateCommissionStatus PATCH /api/commissions/:id
func (h *ResourceHandler) UpdateCommissionStatus(c *fiber.Ctx) error {
	var in dto.UpdateCommissionStatusRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateCommissionStatus(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
