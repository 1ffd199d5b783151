package repository

import (
	"context"

	"github.com/jhoicas/Orbita-api/internal/domain/entity"
)

// OrganizationRepository puerto de persistencia para Organization y sus módulos.
// La implementación vive en infrastructure.
type OrganizationRepository interface {
	Create(ctx context.Context, org *entity.Organization) error
	GetByID(ctx context.Context, id string) (*entity.Organization, error)
	Update(ctx context.Context, org *entity.Organization) error
	List(ctx context.Context, limit, offset int) ([]*entity.Organization, error)
	Delete(ctx context.Context, id string) error

	// HasActiveModule informa si la organización tiene el módulo activo y sin vencer.
	HasActiveModule(ctx context.Context, organizationID, moduleName string) (bool, error)
	ListModules(ctx context.Context, organizationID string) ([]*entity.OrganizationModule, error)
	// UpsertModule activa o desactiva un módulo (una fila por organización y módulo).
	UpsertModule(ctx context.Context, m *entity.OrganizationModule) error
}
