// Package apikeys emite y verifica claves de API por organización y guarda la
// configuración del procesador de pagos con los secretos cifrados.
package apikeys

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/access"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/internal/domain/repository"
)

var admins = access.RequireRoles(access.RoleAdmin)

const msgInvalidKey = "Invalid API key"

// UseCase ciclo de vida de las claves de API.
type UseCase struct {
	keys   repository.APIKeyRepository
	users  repository.UserRepository
	cipher Cipher
	cost   int
	now    func() time.Time
}

// NewUseCase construye el caso de uso con el costo bcrypt por defecto.
func NewUseCase(keys repository.APIKeyRepository, users repository.UserRepository, cipher Cipher) *UseCase {
	return &UseCase{keys: keys, users: users, cipher: cipher, cost: bcrypt.DefaultCost, now: time.Now}
}

// Issue emite una clave nueva. El texto plano solo se devuelve en esta respuesta.
func (uc *UseCase) Issue(ctx context.Context, p *access.Principal, in dto.CreateAPIKeyRequest) (*dto.APIKeyResponse, error) {
	if err := access.Authorize(p, admins); err != nil {
		return nil, err
	}
	orgID, err := access.OrganizationOf(p)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("API key name is required")
	}

	plain, err := NewKey()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), uc.cost)
	if err != nil {
		return nil, fmt.Errorf("hash api key: %w", err)
	}
	sealed, err := uc.cipher.Encrypt([]byte(plain))
	if err != nil {
		return nil, fmt.Errorf("encrypt api key: %w", err)
	}

	k := &entity.APIKey{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		CreatedBy:      p.UserID,
		Name:           name,
		Prefix:         LookupPrefix(plain),
		Last4:          last4(plain),
		KeyHash:        string(hash),
		Encrypted:      sealed,
		CreatedAt:      uc.now().UTC(),
	}
	if err := uc.keys.Create(ctx, k); err != nil {
		return nil, fmt.Errorf("create api key: %w", err)
	}
	out := toKeyResponse(k)
	out.Key = plain
	return &out, nil
}

// List claves de la organización, siempre enmascaradas.
func (uc *UseCase) List(ctx context.Context, p *access.Principal) ([]dto.APIKeyResponse, error) {
	if err := access.Authorize(p, admins); err != nil {
		return nil, err
	}
	orgID, err := access.OrganizationOf(p)
	if err != nil {
		return nil, err
	}
	list, err := uc.keys.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	out := make([]dto.APIKeyResponse, 0, len(list))
	for _, k := range list {
		out = append(out, toKeyResponse(k))
	}
	return out, nil
}

// Revoke revoca una clave de la organización del llamador.
func (uc *UseCase) Revoke(ctx context.Context, p *access.Principal, id string) error {
	if err := access.Authorize(p, admins); err != nil {
		return err
	}
	orgID, err := access.OrganizationOf(p)
	if err != nil {
		return err
	}
	if err := uc.keys.Revoke(ctx, orgID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("revoke api key: %w", err)
	}
	return nil
}

// Authenticate resuelve el principal de una petición firmada con API key.
// La clave actúa con el rol de quien la emitió, dentro de la organización de la clave y
// nunca como super-admin.
func (uc *UseCase) Authenticate(ctx context.Context, key string) (*access.Principal, error) {
	if !IsWellFormed(key) {
		return nil, domain.NewUnauthorizedError(msgInvalidKey)
	}
	k, err := uc.keys.GetByPrefix(ctx, LookupPrefix(key))
	if err != nil {
		return nil, fmt.Errorf("get api key: %w", err)
	}
	if k == nil || k.RevokedAt != nil {
		return nil, domain.NewUnauthorizedError(msgInvalidKey)
	}
	if bcrypt.CompareHashAndPassword([]byte(k.KeyHash), []byte(key)) != nil {
		return nil, domain.NewUnauthorizedError(msgInvalidKey)
	}
	u, err := uc.users.GetByID(ctx, k.CreatedBy)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get api key owner: %w", err)
	}
	if u == nil || u.Status != entity.UserActive {
		return nil, domain.NewUnauthorizedError(msgInvalidKey)
	}

	if err := uc.keys.TouchLastUsed(ctx, k.ID, uc.now().UTC()); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("api_key_id", k.ID).Msg("api key last_used_at not updated")
	}

	orgID := k.OrganizationID
	return &access.Principal{
		UserID:         u.ID,
		AuthID:         u.AuthID,
		OrganizationID: &orgID,
		Role:           access.Role(u.Role),
	}, nil
}

func toKeyResponse(k *entity.APIKey) dto.APIKeyResponse {
	return dto.APIKeyResponse{
		ID:         k.ID,
		Name:       k.Name,
		Masked:     KeyPrefix + maskDots + k.Last4,
		CreatedBy:  k.CreatedBy,
		LastUsedAt: k.LastUsedAt,
		RevokedAt:  k.RevokedAt,
		CreatedAt:  k.CreatedAt,
	}
}
