package repository

import (
	"context"

	"github.com/jhoicas/Orbita-api/internal/domain/entity"
)

// ActivityRepository feed de actividad; las escrituras son best-effort.
type ActivityRepository interface {
	Create(ctx context.Context, a *entity.Activity) error
}
