package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Orbita-api/internal/domain/entity"
)

// APIKeyRepository claves de API por organización.
type APIKeyRepository interface {
	Create(ctx context.Context, k *entity.APIKey) error
	ListByOrganization(ctx context.Context, organizationID string) ([]*entity.APIKey, error)
	// GetByPrefix (nil, nil) si no existe.
	GetByPrefix(ctx context.Context, prefix string) (*entity.APIKey, error)
	// Revoke marca la clave como revocada; ErrNotFound si no pertenece a la organización.
	Revoke(ctx context.Context, organizationID, id string) error
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
}

// PaymentConfigRepository configuración cifrada del procesador de pagos (una por organización).
type PaymentConfigRepository interface {
	Upsert(ctx context.Context, c *entity.PaymentConfig) error
	// GetByOrganization (nil, nil) si no hay configuración.
	GetByOrganization(ctx context.Context, organizationID string) (*entity.PaymentConfig, error)
}
