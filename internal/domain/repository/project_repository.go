package repository

import (
	"context"

	"github.com/jhoicas/Orbita-api/internal/domain/entity"
)

// ProjectRepository lectura de proyectos y pertenencia para las decisiones de acceso.
type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	IsMember(ctx context.Context, projectID, userID string) (bool, error)
}
