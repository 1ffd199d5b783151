package apikeys

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

const (
	// KeyPrefix marca de las claves emitidas por Orbita.
	KeyPrefix = "orb_"
	keyBytes  = 32
	lookupLen = 8
	maskDots  = "••••"
)

// NewKey genera una clave orb_<base58(32 bytes aleatorios)>.
func NewKey() (string, error) {
	raw := make([]byte, keyBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return KeyPrefix + base58.Encode(raw), nil
}

// LookupPrefix primeros caracteres de la clave, indexados para encontrarla sin el texto plano.
func LookupPrefix(key string) string {
	body := strings.TrimPrefix(key, KeyPrefix)
	if len(body) > lookupLen {
		body = body[:lookupLen]
	}
	return KeyPrefix + body
}

// Mask devuelve orb_••••XXXX con los últimos cuatro caracteres.
func Mask(key string) string {
	body := strings.TrimPrefix(key, KeyPrefix)
	return KeyPrefix + maskDots + last4(body)
}

// MaskSecret enmascara un secreto cualquiera dejando solo los últimos cuatro caracteres.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return maskDots
	}
	return maskDots + last4(s)
}

func last4(s string) string {
	if len(s) <= 4 {
		return s
	}
	return s[len(s)-4:]
}

// IsWellFormed chequeo barato antes de consultar la base.
func IsWellFormed(key string) bool {
	if !strings.HasPrefix(key, KeyPrefix) {
		return false
	}
	body := strings.TrimPrefix(key, KeyPrefix)
	if len(body) < lookupLen {
		return false
	}
	_, err := base58.Decode(body)
	return err == nil
}
