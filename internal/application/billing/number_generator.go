package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Orbita-api/internal/domain/invoicing"
	"github.com/jhoicas/Orbita-api/internal/domain/repository"
)

const (
	defaultNumberAttempts = 5
	defaultNumberBackoff  = 100 * time.Millisecond
)

var errNumberTaken = errors.New("invoice number already in use")

// NumberGeneratorConfig intentos y espera inicial (se duplica en cada colisión).
type NumberGeneratorConfig struct {
	Attempts        int
	InitialInterval time.Duration
}

// NumberGenerator pide candidatos a la secuencia del servidor y verifica que no existan.
// Nunca falla: si la secuencia no responde o se agotan los intentos usa el número de respaldo.
type NumberGenerator struct {
	seq      repository.InvoiceNumberSequence
	invoices repository.InvoiceRepository
	cfg      NumberGeneratorConfig
	now      func() time.Time
}

// NewNumberGenerator construye el generador; valores en cero toman los defaults (5 intentos, 100ms).
func NewNumberGenerator(seq repository.InvoiceNumberSequence, invoices repository.InvoiceRepository, cfg NumberGeneratorConfig) *NumberGenerator {
	if cfg.Attempts <= 0 {
		cfg.Attempts = defaultNumberAttempts
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = defaultNumberBackoff
	}
	return &NumberGenerator{seq: seq, invoices: invoices, cfg: cfg, now: time.Now}
}

// Generate devuelve un número libre en el momento de la verificación.
func (g *NumberGenerator) Generate(ctx context.Context, prefix string) string {
	prefix = invoicing.NormalizePrefix(prefix)
	log := zerolog.Ctx(ctx)

	policy := &backoff.ExponentialBackOff{
		InitialInterval:     g.cfg.InitialInterval,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         g.cfg.InitialInterval << uint(g.cfg.Attempts),
	}

	number, err := backoff.Retry(ctx, func() (string, error) {
		candidate, err := g.seq.Next(ctx, prefix)
		if err != nil {
			return "", backoff.Permanent(fmt.Errorf("sequence: %w", err))
		}
		exists, err := g.invoices.NumberExists(ctx, candidate)
		if err != nil {
			return "", backoff.Permanent(fmt.Errorf("check number: %w", err))
		}
		if exists {
			return "", errNumberTaken
		}
		return candidate, nil
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(g.cfg.Attempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			log.Debug().Err(err).Dur("wait", wait).Msg("invoice number collision, retrying")
		}),
	)
	if err == nil {
		return number
	}

	fallback := invoicing.FallbackNumber(prefix, g.now().UTC())
	log.Warn().Err(err).Str("prefix", prefix).Str("number", fallback).
		Msg("invoice numbering in degraded mode: using fallback number")
	return fallback
}
