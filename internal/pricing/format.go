package pricing

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var thaiPrinter = message.NewPrinter(language.Thai)

// FormatTHB renders a price for display: Thai-locale thousands grouping,
// zero decimal places, halves rounded away from zero. Display only —
// stored and summed values stay exact.
func FormatTHB(v float64) string {
	return thaiPrinter.Sprint(number.Decimal(math.Round(v), number.MaxFractionDigits(0)))
}
