// Package stats agrupa los cálculos de porcentajes derivados que muestran los tableros:
// ratios de usuarios activos, comisiones adeudadas y utilización de carga de trabajo.
// Nada aquí se persiste.
package stats

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Percentage n/d*100 sin redondear. Con d == 0 devuelve 0.
func Percentage(n, d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	return n.Div(d).Mul(hundred)
}

// PercentInt porcentaje al entero más cercano (estadísticas de UI).
func PercentInt(n, d int64) int64 {
	return Percentage(decimal.NewFromInt(n), decimal.NewFromInt(d)).Round(0).IntPart()
}

// PercentOneDecimal porcentaje con un decimal (avisos de utilización).
func PercentOneDecimal(n, d decimal.Decimal) decimal.Decimal {
	return Percentage(n, d).Round(1)
}
