package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain/access"
)

// organizationService lo implementa *usecase.OrganizationUseCase.
type organizationService interface {
	Create(ctx context.Context, p *access.Principal, in dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error)
	GetByID(ctx context.Context, p *access.Principal, id string) (*dto.OrganizationResponse, error)
	List(ctx context.Context, p *access.Principal, page dto.PageRequest) (*dto.OrganizationListResponse, error)
	Update(ctx context.Context, p *access.Principal, id string, in dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error)
	Delete(ctx context.Context, p *access.Principal, id string) error
}

// moduleService lo implementa *usecase.ModuleService.
type moduleService interface {
	List(ctx context.Context, p *access.Principal, organizationID string) ([]dto.ModuleResponse, error)
	Set(ctx context.Context, p *access.Principal, organizationID, moduleName string, in dto.SetModuleRequest) (*dto.ModuleResponse, error)
}

// OrganizationHandler maneja tenants y sus módulos SaaS.
type OrganizationHandler struct {
	uc      organizationService
	modules moduleService
}

// NewOrganizationHandler construye el handler inyectando los casos de uso.
func NewOrganizationHandler(uc organizationService, modules moduleService) *OrganizationHandler {
	return &OrganizationHandler{uc: uc, modules: modules}
}

// Create godoc
// @Summary      Crear organización (super-admin)
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrganizationRequest  true  "Datos de la organización"
// @Success      201   {object}  dto.OrganizationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/organizations [post]
func (h *OrganizationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrganizationRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener organización por ID
// @Tags         organizations
// @Produce      json
// @Param        id   path  string  true  "ID de la organización"
// @Success      200  {object}  dto.OrganizationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/organizations/{id} [get]
func (h *OrganizationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar organizaciones (super-admin)
// @Tags         organizations
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.OrganizationListResponse
// @Router       /api/organizations [get]
func (h *OrganizationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetPrincipal(c), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update PATCH /api/organizations/:id
func (h *OrganizationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrganizationRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/organizations/:id
func (h *OrganizationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetPrincipal(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListModules GET /api/organizations/:id/modules
func (h *OrganizationHandler) ListModules(c *fiber.Ctx) error {
	out, err := h.modules.List(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetModule PUT /api/organizations/:id/modules/:module
func (h *OrganizationHandler) SetModule(c *fiber.Ctx) error {
	var in dto.SetModuleRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.modules.Set(c.UserContext(), GetPrincipal(c), c.Params("id"), c.Params("module"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
