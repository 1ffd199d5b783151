package secrets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Orbita-api/internal/infrastructure/secrets"
)

func TestBox_RoundTrip(t *testing.T) {
	box, err := secrets.NewBox("test-passphrase")
	require.NoError(t, err)

	ct, err := box.Encrypt([]byte("sk_live_abc123"))
	require.NoError(t, err)
	assert.NotContains(t, string(ct), "sk_live_abc123")

	pt, err := box.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, "sk_live_abc123", string(pt))
}

func TestBox_NonceAleatorio(t *testing.T) {
	box, err := secrets.NewBox("k")
	require.NoError(t, err)

	a, _ := box.Encrypt([]byte("same"))
	b, _ := box.Encrypt([]byte("same"))
	assert.NotEqual(t, a, b)
}

func TestBox_Manipulado(t *testing.T) {
	box, err := secrets.NewBox("k")
	require.NoError(t, err)

	ct, err := box.Encrypt([]byte("secret"))
	require.NoError(t, err)
	ct[len(ct)-1] ^= 0xff

	_, err = box.Decrypt(ct)
	assert.ErrorIs(t, err, secrets.ErrMalformed)

	_, err = box.Decrypt([]byte("short"))
	assert.ErrorIs(t, err, secrets.ErrMalformed)
}

func TestBox_OtraClaveNoDescifra(t *testing.T) {
	a, _ := secrets.NewBox("one")
	b, _ := secrets.NewBox("two")

	ct, err := a.Encrypt([]byte("secret"))
	require.NoError(t, err)
	_, err = b.Decrypt(ct)
	assert.ErrorIs(t, err, secrets.ErrMalformed)
}

func TestNewBox_ClaveVacia(t *testing.T) {
	_, err := secrets.NewBox("")
	assert.Error(t, err)
}
