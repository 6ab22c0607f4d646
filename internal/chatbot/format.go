package chatbot

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// money renders whole pesos with thousands separators: $12,500
func money(d decimal.Decimal) string {
	return printer.Sprintf("$%d", d.Round(0).IntPart())
}

func units(f float64) string {
	return printer.Sprintf("%.1f", f)
}

func upper(s string) string {
	return strings.ToUpper(s)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
