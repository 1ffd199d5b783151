package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	cases := map[string]string{
		"0":       "$0.00",
		"5":       "$5.00",
		"1234.5":  "$1,234.50",
		"1000000": "$1,000,000.00",
		"-20.125": "-$20.13",
		"99.999":  "$100.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, Format(decimal.RequireFromString(in)), in)
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "19%", Percent(decimal.NewFromInt(19)))
	assert.Equal(t, "7.5%", Percent(decimal.RequireFromString("7.50")))
}
