package apikeys

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/access"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/internal/domain/repository"
)

// PaymentConfigUseCase configuración del procesador de pagos de la organización. Solo admin.
type PaymentConfigUseCase struct {
	repo   repository.PaymentConfigRepository
	cipher Cipher
	now    func() time.Time
}

// NewPaymentConfigUseCase construye el caso de uso.
func NewPaymentConfigUseCase(repo repository.PaymentConfigRepository, cipher Cipher) *PaymentConfigUseCase {
	return &PaymentConfigUseCase{repo: repo, cipher: cipher, now: time.Now}
}

// Save cifra los secretos y reemplaza la configuración de la organización.
func (uc *PaymentConfigUseCase) Save(ctx context.Context, p *access.Principal, in dto.SavePaymentConfigRequest) (*dto.PaymentConfigResponse, error) {
	if err := access.Authorize(p, admins); err != nil {
		return nil, err
	}
	orgID, err := access.OrganizationOf(p)
	if err != nil {
		return nil, err
	}
	secret := strings.TrimSpace(in.SecretKey)
	if secret == "" {
		return nil, domain.NewValidationError("Secret key is required")
	}

	cfg := &entity.PaymentConfig{
		OrganizationID: orgID,
		Provider:       in.Provider,
		PublishableKey: strings.TrimSpace(in.PublishableKey),
		UpdatedBy:      p.UserID,
		UpdatedAt:      uc.now().UTC(),
	}
	if cfg.SecretKeyCipher, err = uc.cipher.Encrypt([]byte(secret)); err != nil {
		return nil, fmt.Errorf("encrypt secret key: %w", err)
	}
	if in.WebhookSecret != "" {
		if cfg.WebhookSecret, err = uc.cipher.Encrypt([]byte(in.WebhookSecret)); err != nil {
			return nil, fmt.Errorf("encrypt webhook secret: %w", err)
		}
	}
	if err := uc.repo.Upsert(ctx, cfg); err != nil {
		return nil, fmt.Errorf("save payment config: %w", err)
	}
	return uc.toResponse(cfg)
}

// Get devuelve la configuración con los secretos enmascarados.
func (uc *PaymentConfigUseCase) Get(ctx context.Context, p *access.Principal) (*dto.PaymentConfigResponse, error) {
	if err := access.Authorize(p, admins); err != nil {
		return nil, err
	}
	orgID, err := access.OrganizationOf(p)
	if err != nil {
		return nil, err
	}
	cfg, err := uc.repo.GetByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("get payment config: %w", err)
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(cfg)
}

func (uc *PaymentConfigUseCase) toResponse(cfg *entity.PaymentConfig) (*dto.PaymentConfigResponse, error) {
	secret, err := uc.cipher.Decrypt(cfg.SecretKeyCipher)
	if err != nil {
		return nil, fmt.Errorf("decrypt secret key: %w", err)
	}
	out := &dto.PaymentConfigResponse{
		Provider:         cfg.Provider,
		PublishableKey:   cfg.PublishableKey,
		SecretKey:        MaskSecret(string(secret)),
		WebhookSecretSet: len(cfg.WebhookSecret) > 0,
		UpdatedAt:        cfg.UpdatedAt,
	}
	if out.WebhookSecretSet {
		wh, err := uc.cipher.Decrypt(cfg.WebhookSecret)
		if err != nil {
			return nil, fmt.Errorf("decrypt webhook secret: %w", err)
		}
		out.WebhookSecret = MaskSecret(string(wh))
	}
	return out, nil
}
