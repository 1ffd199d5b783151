package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/internal/domain/repository"
)

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

const organizationColumns = `id, name, slug, invoice_prefix, status, created_at, updated_at`

// OrganizationRepo implementación del puerto OrganizationRepository sobre PostgreSQL.
type OrganizationRepo struct {
	q Querier
}

// NewOrganizationRepository construye el adaptador de persistencia para organizaciones.
func NewOrganizationRepository(q Querier) *OrganizationRepo {
	return &OrganizationRepo{q: q}
}

// Create persiste una nueva organización. Slug repetido → domain.ErrDuplicate.
func (r *OrganizationRepo) Create(ctx context.Context, org *entity.Organization) error {
	query := `INSERT INTO organizations (` + organizationColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		org.ID, org.Name, org.Slug, org.InvoicePrefix, org.Status, org.CreatedAt, org.UpdatedAt,
	)
	return mapError("insert organization", err)
}

// GetByID obtiene una organización; (nil, nil) si no existe.
func (r *OrganizationRepo) GetByID(ctx context.Context, id string) (*entity.Organization, error) {
	o, err := scanOrganization(r.q.QueryRow(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return o, nil
}

// Update actualiza una organización existente.
func (r *OrganizationRepo) Update(ctx context.Context, org *entity.Organization) error {
	const query = `
		UPDATE organizations SET name = $2, invoice_prefix = $3, status = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, org.ID, org.Name, org.InvoicePrefix, org.Status, org.UpdatedAt)
	if err != nil {
		return mapError("update organization", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve organizaciones con paginación.
func (r *OrganizationRepo) List(ctx context.Context, limit, offset int) ([]*entity.Organization, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+organizationColumns+` FROM organizations ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var list []*entity.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Delete elimina una organización por ID.
func (r *OrganizationRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return mapError("delete organization", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// HasActiveModule informa si la organización tiene el módulo activo y sin vencer.
// Consulta directamente organization_modules para una respuesta O(1) vía índice.
func (r *OrganizationRepo) HasActiveModule(ctx context.Context, organizationID, moduleName string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM organization_modules
			 WHERE organization_id = $1
			   AND module_name     = $2
			   AND is_active       = true
			   AND (expires_at IS NULL OR expires_at > now())
		)`
	var active bool
	if err := r.q.QueryRow(ctx, query, organizationID, moduleName).Scan(&active); err != nil {
		return false, fmt.Errorf("check module %s: %w", moduleName, err)
	}
	return active, nil
}

// ListModules módulos contratados por la organización.
func (r *OrganizationRepo) ListModules(ctx context.Context, organizationID string) ([]*entity.OrganizationModule, error) {
	const query = `
		SELECT id, organization_id, module_name, is_active, activated_at, expires_at, created_at, updated_at
		FROM organization_modules WHERE organization_id = $1 ORDER BY module_name`
	rows, err := r.q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrganizationModule
	for rows.Next() {
		var m entity.OrganizationModule
		if err := rows.Scan(&m.ID, &m.OrganizationID, &m.ModuleName, &m.IsActive, &m.ActivatedAt, &m.ExpiresAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// UpsertModule activa o desactiva el módulo (una fila por organización y módulo).
func (r *OrganizationRepo) UpsertModule(ctx context.Context, m *entity.OrganizationModule) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO organization_modules (id, organization_id, module_name, is_active, activated_at, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (organization_id, module_name) DO UPDATE
		SET is_active    = EXCLUDED.is_active,
		    activated_at = CASE WHEN EXCLUDED.is_active AND NOT organization_modules.is_active
		                        THEN EXCLUDED.activated_at ELSE organization_modules.activated_at END,
		    expires_at   = EXCLUDED.expires_at,
		    updated_at   = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.OrganizationID, m.ModuleName, m.IsActive, m.ActivatedAt, m.ExpiresAt, m.CreatedAt, m.UpdatedAt,
	)
	return mapError("upsert module", err)
}

func scanOrganization(row pgx.Row) (*entity.Organization, error) {
	var o entity.Organization
	if err := row.Scan(&o.ID, &o.Name, &o.Slug, &o.InvoicePrefix, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}
