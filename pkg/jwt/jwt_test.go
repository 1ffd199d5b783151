package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse(t *testing.T) {
	tok, err := Generate("s3cret", "auth-123", "ana@example.com", "orbita", 5)
	require.NoError(t, err)

	authID, err := Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "auth-123", authID)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := Generate("s3cret", "auth-123", "", "orbita", 5)
	require.NoError(t, err)

	_, err = Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate("s3cret", "auth-123", "", "orbita", -1)
	require.NoError(t, err)

	_, err = Parse("s3cret", tok)
	assert.Error(t, err)
}

func TestGenerate_SinSecret(t *testing.T) {
	_, err := Generate("", "auth-123", "", "orbita", 5)
	assert.Error(t, err)
}
