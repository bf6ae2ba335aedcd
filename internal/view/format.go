package view

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatPrice renders a dollar price with precision scaled to its magnitude.
func FormatPrice(v *float64) string {
	if v == nil {
		return "N/A"
	}
	p := *v
	switch {
	case p >= 1:
		return printer.Sprintf("$%.2f", p)
	case p >= 0.01:
		return printer.Sprintf("$%.4f", p)
	default:
		return "$" + trimZeros(printer.Sprintf("%.8f", p), 6)
	}
}

// FormatMarketCap abbreviates large dollar amounts with T/B/M/K suffixes.
func FormatMarketCap(v *float64) string {
	if v == nil {
		return "N/A"
	}
	n := *v
	switch {
	case n >= 1e12:
		return printer.Sprintf("$%.2fT", n/1e12)
	case n >= 1e9:
		return printer.Sprintf("$%.2fB", n/1e9)
	case n >= 1e6:
		return printer.Sprintf("$%.2fM", n/1e6)
	case n >= 1e3:
		return printer.Sprintf("$%.2fK", n/1e3)
	default:
		return printer.Sprintf("$%.2f", n)
	}
}

// FormatChange renders a signed percentage with two decimals.
func FormatChange(v *float64) string {
	if v == nil {
		return "N/A"
	}
	sign := ""
	if *v >= 0 {
		sign = "+"
	}
	return sign + printer.Sprintf("%.2f", *v) + "%"
}

// trimZeros drops trailing fractional zeros while keeping at least minDigits.
func trimZeros(s string, minDigits int) string {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s
	}
	keep := dot + 1 + minDigits
	for len(s) > keep && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	return s
}
