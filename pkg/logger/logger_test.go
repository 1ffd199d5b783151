package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
}

func TestNew_JSONFueraDeDevelopment(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Output: &buf, Service: "orbita-api"})

	l.Debug().Msg("oculto")
	l.Info().Str("invoice_number", "INV-2024-000001").Msg("invoice created")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), "una sola línea JSON: el debug no se emite")
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "INV-2024-000001", line["invoice_number"])
	assert.Equal(t, "orbita-api", line["service"])
	assert.Contains(t, line, "time")
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Output: &buf})

	ctx := l.WithContext(context.Background())
	zerolog.Ctx(ctx).Warn().Msg("degraded")

	assert.Contains(t, buf.String(), `"degraded"`)
}
