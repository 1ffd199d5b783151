package analytics

import (
	"context"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
)

// ResourceCache caché del tablero combinado por organización.
// Get devuelve (nil, nil) en un miss.
type ResourceCache interface {
	Get(ctx context.Context, organizationID string) (*dto.CombinedResourcesResponse, error)
	Set(ctx context.Context, organizationID string, v *dto.CombinedResourcesResponse) error
	Invalidate(ctx context.Context, organizationID string) error
}
