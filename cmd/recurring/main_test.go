package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAsOf(t *testing.T) {
	got, err := parseAsOf("2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = parseAsOf("01/02/2024")
	assert.Error(t, err)

	now, err := parseAsOf("")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), now, time.Minute)
}

func TestRecurringPool(t *testing.T) {
	opts := recurringPool(1)
	assert.Equal(t, "orbita-recurring", opts.Name)
	assert.Equal(t, int32(1), opts.MaxConns)
	assert.Equal(t, time.Minute, opts.StatementTimeout)
}
