package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain/access"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
)

// projectAccessor lo implementa *application/access.Service.
type projectAccessor interface {
	ProjectAccess(ctx context.Context, p *access.Principal, projectID string, mode access.Mode) (*entity.Project, error)
}

// ProjectHandler lectura de proyectos con la regla dueño/miembro/organización.
type ProjectHandler struct {
	projects projectAccessor
}

func NewProjectHandler(projects projectAccessor) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// GetByID GET /api/projects/:id (invisible → 404)
func (h *ProjectHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.projects.ProjectAccess(c.UserContext(), GetPrincipal(c), c.Params("id"), access.Read)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ProjectResponse{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		OwnerID:        p.OwnerID,
		Name:           p.Name,
		Description:    p.Description,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	})
}
