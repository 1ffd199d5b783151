package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/internal/domain/repository"
)

var (
	_ repository.APIKeyRepository        = (*APIKeyRepo)(nil)
	_ repository.PaymentConfigRepository = (*PaymentConfigRepo)(nil)
)

const apiKeyColumns = `id, organization_id, created_by, name, prefix, last4, key_hash, encrypted_key, last_used_at, revoked_at, created_at`

// APIKeyRepo claves de API.
type APIKeyRepo struct {
	q Querier
}

// NewAPIKeyRepository construye el adaptador.
func NewAPIKeyRepository(q Querier) *APIKeyRepo {
	return &APIKeyRepo{q: q}
}

// Create persiste la clave (hash y copia cifrada, nunca el texto plano).
func (r *APIKeyRepo) Create(ctx context.Context, k *entity.APIKey) error {
	query := `INSERT INTO api_keys (` + apiKeyColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		k.ID, k.OrganizationID, k.CreatedBy, k.Name, k.Prefix, k.Last4, k.KeyHash, k.Encrypted,
		k.LastUsedAt, k.RevokedAt, k.CreatedAt,
	)
	return mapError("insert api key", err)
}

// ListByOrganization claves de la organización, más recientes primero.
func (r *APIKeyRepo) ListByOrganization(ctx context.Context, organizationID string) ([]*entity.APIKey, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE organization_id = $1 ORDER BY created_at DESC`,
		organizationID)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()
	var list []*entity.APIKey
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		list = append(list, k)
	}
	return list, rows.Err()
}

// GetByPrefix (nil, nil) si no existe.
func (r *APIKeyRepo) GetByPrefix(ctx context.Context, prefix string) (*entity.APIKey, error) {
	k, err := scanAPIKey(r.q.QueryRow(ctx, `SELECT `+apiKeyColumns+` FROM api_keys WHERE prefix = $1`, prefix))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get api key: %w", err)
	}
	return k, nil
}

// Revoke marca revoked_at; ErrNotFound si la clave no es de la organización o ya está revocada.
func (r *APIKeyRepo) Revoke(ctx context.Context, organizationID, id string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE api_keys SET revoked_at = now() WHERE id = $1 AND organization_id = $2 AND revoked_at IS NULL`,
		id, organizationID)
	if err != nil {
		return mapError("revoke api key", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TouchLastUsed actualiza last_used_at.
func (r *APIKeyRepo) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE api_keys SET last_used_at = $2 WHERE id = $1`, id, at)
	return mapError("touch api key", err)
}

func scanAPIKey(row pgx.Row) (*entity.APIKey, error) {
	var k entity.APIKey
	if err := row.Scan(
		&k.ID, &k.OrganizationID, &k.CreatedBy, &k.Name, &k.Prefix, &k.Last4, &k.KeyHash, &k.Encrypted,
		&k.LastUsedAt, &k.RevokedAt, &k.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &k, nil
}

// PaymentConfigRepo configuración del procesador de pagos, una fila por organización.
type PaymentConfigRepo struct {
	q Querier
}

// NewPaymentConfigRepository construye el adaptador.
func NewPaymentConfigRepository(q Querier) *PaymentConfigRepo {
	return &PaymentConfigRepo{q: q}
}

// Upsert reemplaza la configuración de la organización.
func (r *PaymentConfigRepo) Upsert(ctx context.Context, c *entity.PaymentConfig) error {
	const query = `
		INSERT INTO payment_configs (organization_id, provider, publishable_key, secret_key_cipher, webhook_secret_cipher, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (organization_id) DO UPDATE
		SET provider              = EXCLUDED.provider,
		    publishable_key       = EXCLUDED.publishable_key,
		    secret_key_cipher     = EXCLUDED.secret_key_cipher,
		    webhook_secret_cipher = EXCLUDED.webhook_secret_cipher,
		    updated_by            = EXCLUDED.updated_by,
		    updated_at            = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		c.OrganizationID, c.Provider, c.PublishableKey, c.SecretKeyCipher, c.WebhookSecret, c.UpdatedBy, c.UpdatedAt,
	)
	return mapError("upsert payment config", err)
}

// GetByOrganization (nil, nil) si no hay configuración.
func (r *PaymentConfigRepo) GetByOrganization(ctx context.Context, organizationID string) (*entity.PaymentConfig, error) {
	const query = `
		SELECT organization_id, provider, publishable_key, secret_key_cipher, webhook_secret_cipher, updated_by, updated_at
		FROM payment_configs WHERE organization_id = $1`
	var c entity.PaymentConfig
	err := r.q.QueryRow(ctx, query, organizationID).Scan(
		&c.OrganizationID, &c.Provider, &c.PublishableKey, &c.SecretKeyCipher, &c.WebhookSecret, &c.UpdatedBy, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment config: %w", err)
	}
	return &c, nil
}
