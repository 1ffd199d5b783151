package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/internal/domain/repository"
)

var _ repository.ResourceRepository = (*ResourceRepo)(nil)

// ResourceRepo consultas read-only del tablero combinado. Cada método usa su propia
// conexión del pool, así que pueden correr en paralelo.
type ResourceRepo struct {
	q Querier
}

// NewResourceRepository construye el adaptador.
func NewResourceRepository(q Querier) *ResourceRepo {
	return &ResourceRepo{q: q}
}

// ListAllocations horas asignadas por usuario activo: suma de sus asignaciones en proyectos activos.
func (r *ResourceRepo) ListAllocations(ctx context.Context, organizationID string) ([]entity.Allocation, error) {
	const query = `
		SELECT u.id, u.name,
		       COALESCE(SUM(pa.hours_per_week) FILTER (WHERE p.status = 'active'), 0) AS allocated,
		       u.max_hours_per_week
		FROM users u
		LEFT JOIN project_allocations pa ON pa.user_id = u.id
		LEFT JOIN projects p ON p.id = pa.project_id
		WHERE u.organization_id = $1 AND u.status = 'active'
		GROUP BY u.id, u.name, u.max_hours_per_week
		ORDER BY allocated DESC, u.name`
	rows, err := r.q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()
	var list []entity.Allocation
	for rows.Next() {
		var a entity.Allocation
		if err := rows.Scan(&a.UserID, &a.UserName, &a.AllocatedHours, &a.MaxHoursPerWeek); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// CountUsers total y activos de la organización.
func (r *ResourceRepo) CountUsers(ctx context.Context, organizationID string) (total, active int64, err error) {
	const query = `
		SELECT count(*), count(*) FILTER (WHERE status = 'active')
		FROM users WHERE organization_id = $1`
	if err := r.q.QueryRow(ctx, query, organizationID).Scan(&total, &active); err != nil {
		return 0, 0, fmt.Errorf("count users: %w", err)
	}
	return total, active, nil
}

// ListCommissions comisiones de un tipo (affiliate o partner).
func (r *ResourceRepo) ListCommissions(ctx context.Context, organizationID, kind string) ([]entity.Commission, error) {
	const query = `
		SELECT id, organization_id, kind, beneficiary_id, amount, status, created_at
		FROM commissions WHERE organization_id = $1 AND kind = $2
		ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, organizationID, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s commissions: %w", kind, err)
	}
	defer rows.Close()
	var list []entity.Commission
	for rows.Next() {
		var c entity.Commission
		if err := rows.Scan(&c.ID, &c.OrganizationID, &c.Kind, &c.BeneficiaryID, &c.Amount, &c.Status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan commission: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetCommission (nil, nil) si no existe.
func (r *ResourceRepo) GetCommission(ctx context.Context, id string) (*entity.Commission, error) {
	const query = `
		SELECT id, organization_id, kind, beneficiary_id, amount, status, created_at
		FROM commissions WHERE id = $1`
	var c entity.Commission
	err := r.q.QueryRow(ctx, query, id).Scan(&c.ID, &c.OrganizationID, &c.Kind, &c.BeneficiaryID, &c.Amount, &c.Status, &c.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get commission: %w", err)
	}
	return &c, nil
}

// UpdateCommissionStatus cambia el estado; paid fija paid_at.
func (r *ResourceRepo) UpdateCommissionStatus(ctx context.Context, id, status string) error {
	const query = `
		UPDATE commissions
		SET status = $2,
		    paid_at = CASE WHEN $2 = 'paid' THEN now() ELSE paid_at END,
		    updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return mapError("update commission", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
