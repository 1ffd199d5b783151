// Package money formatea importes para textos legibles (PDF, correos, chat).
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// Format devuelve el importe con separador de miles y dos decimales, ej. "$1,234.50".
func Format(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + "$" + printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

// Percent formatea una tasa 0–100 sin ceros sobrantes, ej. "19%" o "7.5%".
func Percent(rate decimal.Decimal) string {
	return rate.String() + "%"
}
