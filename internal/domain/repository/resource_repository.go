package repository

import (
	"context"

	"github.com/jhoicas/Orbita-api/internal/domain/entity"
)

// ResourceRepository consultas de solo lectura para el tablero combinado de recursos.
// Cada método de lectura es independiente para poder ejecutarse en paralelo.
type ResourceRepository interface {
	ListAllocations(ctx context.Context, organizationID string) ([]entity.Allocation, error)
	CountUsers(ctx context.Context, organizationID string) (total, active int64, err error)
	ListCommissions(ctx context.Context, organizationID, kind string) ([]entity.Commission, error)

	// GetCommission (nil, nil) si no existe.
	GetCommission(ctx context.Context, id string) (*entity.Commission, error)
	UpdateCommissionStatus(ctx context.Context, id, status string) error
}
