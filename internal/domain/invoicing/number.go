package invoicing

import (
	"fmt"
	"strings"
	"time"
)

// DefaultPrefix prefijo cuando la organización no define uno.
const DefaultPrefix = "INV"

// NormalizePrefix recorta y pasa a mayúsculas; vacío → DefaultPrefix.
func NormalizePrefix(prefix string) string {
	p := strings.ToUpper(strings.TrimSpace(prefix))
	if p == "" {
		return DefaultPrefix
	}
	return p
}

// FallbackNumber {prefix}-{year}-{últimos 6 dígitos de epoch ms}. No garantiza unicidad.
func FallbackNumber(prefix string, now time.Time) string {
	ms := fmt.Sprintf("%d", now.UnixMilli())
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return fmt.Sprintf("%s-%d-%s", NormalizePrefix(prefix), now.Year(), ms)
}
