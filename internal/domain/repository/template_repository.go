package repository

import (
	"context"

	"github.com/jhoicas/Orbita-api/internal/domain/entity"
)

// TemplateRepository plantillas de proyecto (de organización o globales).
type TemplateRepository interface {
	Create(ctx context.Context, t *entity.Template) error
	GetByID(ctx context.Context, id string) (*entity.Template, error)
	Delete(ctx context.Context, id string) error
	// ListVisible devuelve las de la organización más las públicas. organizationID vacío = solo públicas.
	ListVisible(ctx context.Context, organizationID string) ([]*entity.Template, error)
}
