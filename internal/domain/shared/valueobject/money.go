package valueobject

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Amounts are stored unrounded; these helpers are the only place they are
// rounded, for display. Output follows French notation: "1 234,56 €", "40,0 %".

var fr = message.NewPrinter(language.French)

func formatFixed(d decimal.Decimal, places int32) string {
	f, _ := d.Round(places).Float64()
	switch places {
	case 1:
		return fr.Sprintf("%.1f", f)
	default:
		return fr.Sprintf("%.2f", f)
	}
}

// FormatEUR renders an amount in euros rounded half away from zero to the cent.
func FormatEUR(amount decimal.Decimal) string {
	return formatFixed(amount, 2) + " €"
}

func FormatPercent(p decimal.Decimal) string {
	return formatFixed(p, 1) + " %"
}
