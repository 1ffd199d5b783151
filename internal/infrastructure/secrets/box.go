// Package secrets cifra en reposo los secretos de cada organización
// (claves del procesador de pagos y copias de API keys) con XChaCha20-Poly1305.
package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const hkdfInfo = "orbita-secrets-v1"

// ErrMalformed el texto cifrado es demasiado corto o no autentica.
var ErrMalformed = errors.New("secrets: malformed ciphertext")

// Box cifra y descifra con una clave derivada del secreto de configuración.
// El formato es nonce || ciphertext.
type Box struct {
	key []byte
}

// NewBox deriva una clave de 32 bytes con HKDF-SHA256 a partir de passphrase.
func NewBox(passphrase string) (*Box, error) {
	if passphrase == "" {
		return nil, errors.New("secrets: encryption key is empty")
	}
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(passphrase), nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("secrets: derive key: %w", err)
	}
	return &Box{key: key}, nil
}

// Encrypt cifra plaintext con un nonce aleatorio.
func (b *Box) Encrypt(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(b.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("secrets: nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt revierte Encrypt. Cualquier manipulación devuelve ErrMalformed.
func (b *Box) Decrypt(ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(b.key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrMalformed
	}
	nonce, sealed := ciphertext[:aead.NonceSize()], ciphertext[aead.NonceSize():]
	out, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrMalformed
	}
	return out, nil
}
