// Package textutil holds small formatting helpers shared by the advisors and the AI layer.
package textutil

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// Truncate shortens text to at most maxLen runes, ending in "..." when cut.
func Truncate(text string, maxLen int) string {
	r := []rune(text)
	if len(r) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// FormatCurrency renders a whole-dollar USD amount with thousands separators,
// e.g. 1740 -> "$1,740" and -2500.4 -> "-$2,500".
func FormatCurrency(amount float64) string {
	rounded := int64(math.Round(amount))
	if rounded < 0 {
		return usPrinter.Sprintf("-$%d", -rounded)
	}
	return usPrinter.Sprintf("$%d", rounded)
}
