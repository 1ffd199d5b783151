package dto

import "time"

// CreateAPIKeyRequest body para POST /api/api-keys.
type CreateAPIKeyRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// APIKeyResponse clave en listados; Key solo viene informada al emitirla.
type APIKeyResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Masked     string     `json:"masked"`
	Key        string     `json:"key,omitempty"`
	CreatedBy  string     `json:"created_by"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// SavePaymentConfigRequest body para PUT /api/payment-config.
type SavePaymentConfigRequest struct {
	Provider       string `json:"provider" validate:"required,oneof=stripe"`
	PublishableKey string `json:"publishable_key" validate:"required,max=255"`
	SecretKey      string `json:"secret_key" validate:"required,max=255"`
	WebhookSecret  string `json:"webhook_secret,omitempty" validate:"max=255"`
}

// PaymentConfigResponse configuración con los secretos enmascarados.
type PaymentConfigResponse struct {
	Provider         string    `json:"provider"`
	PublishableKey   string    `json:"publishable_key"`
	SecretKey        string    `json:"secret_key"`
	WebhookSecret    string    `json:"webhook_secret,omitempty"`
	WebhookSecretSet bool      `json:"webhook_secret_set"`
	UpdatedAt        time.Time `json:"updated_at"`
}
