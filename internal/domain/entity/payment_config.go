package entity

import "time"

// PaymentConfig configuración de conexión con el procesador de pagos de una organización.
// SecretKey se persiste cifrado; el protocolo del procesador queda fuera de este servicio.
type PaymentConfig struct {
	OrganizationID  string
	Provider        string // stripe, ...
	PublishableKey  string
	SecretKeyCipher []byte
	WebhookSecret   []byte
	UpdatedBy       string
	UpdatedAt       time.Time
}
