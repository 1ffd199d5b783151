package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/internal/domain/repository"
)

var _ repository.ActivityRepository = (*ActivityRepo)(nil)

// ActivityRepo feed de actividad.
type ActivityRepo struct {
	q Querier
}

// NewActivityRepository construye el adaptador.
func NewActivityRepository(q Querier) *ActivityRepo {
	return &ActivityRepo{q: q}
}

// Create inserta una entrada del feed.
func (r *ActivityRepo) Create(ctx context.Context, a *entity.Activity) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO activity_feed (id, organization_id, actor_id, action, entity_type, entity_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.OrganizationID, nullIfEmpty(a.ActorID), a.Action, a.EntityType, a.EntityID, a.CreatedAt,
	)
	return mapError("insert activity", err)
}
