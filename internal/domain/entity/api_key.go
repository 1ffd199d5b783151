package entity

import "time"

// APIKey clave de API emitida para una organización. El texto plano solo se muestra al emitirla.
type APIKey struct {
	ID             string
	OrganizationID string
	CreatedBy      string
	Name           string
	Prefix         string // primeros caracteres para identificarla en listados
	Last4          string
	KeyHash        string // bcrypt
	Encrypted      []byte // copia cifrada (nonce||ciphertext)
	LastUsedAt     *time.Time
	RevokedAt      *time.Time
	CreatedAt      time.Time
}
