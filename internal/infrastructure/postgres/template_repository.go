package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/internal/domain/repository"
)

var _ repository.TemplateRepository = (*TemplateRepo)(nil)

const templateColumns = `id, organization_id, owner_id, name, description, content, is_publicly_available, source_template_id, created_at, updated_at`

// TemplateRepo plantillas de proyecto.
type TemplateRepo struct {
	q Querier
}

// NewTemplateRepository construye el adaptador.
func NewTemplateRepository(q Querier) *TemplateRepo {
	return &TemplateRepo{q: q}
}

// Create persiste la plantilla; content es jsonb.
func (r *TemplateRepo) Create(ctx context.Context, t *entity.Template) error {
	query := `INSERT INTO project_templates (` + templateColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	var content any
	if len(t.Content) > 0 {
		content = string(t.Content)
	}
	_, err := r.q.Exec(ctx, query,
		t.ID, t.OrganizationID, t.OwnerID, t.Name, nullIfEmpty(t.Description), content,
		t.IsPubliclyAvailable, t.SourceTemplateID, t.CreatedAt, t.UpdatedAt,
	)
	return mapError("insert template", err)
}

// GetByID (nil, nil) si no existe.
func (r *TemplateRepo) GetByID(ctx context.Context, id string) (*entity.Template, error) {
	t, err := scanTemplate(r.q.QueryRow(ctx, `SELECT `+templateColumns+` FROM project_templates WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

// Delete borra la plantilla.
func (r *TemplateRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM project_templates WHERE id = $1`, id)
	if err != nil {
		return mapError("delete template", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListVisible plantillas de la organización más las públicas, por nombre.
func (r *TemplateRepo) ListVisible(ctx context.Context, organizationID string) ([]*entity.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM project_templates
		WHERE is_publicly_available = true OR ($1 <> '' AND organization_id::text = $1)
		ORDER BY name, created_at`
	rows, err := r.q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()
	var list []*entity.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanTemplate(row pgx.Row) (*entity.Template, error) {
	var t entity.Template
	var desc *string
	var content []byte
	if err := row.Scan(
		&t.ID, &t.OrganizationID, &t.OwnerID, &t.Name, &desc, &content,
		&t.IsPubliclyAvailable, &t.SourceTemplateID, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.Description = derefStr(desc)
	t.Content = content
	return &t, nil
}
