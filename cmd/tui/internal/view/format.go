package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "C$",
	"AUD": "A$",
	"INR": "₹",
	"CNY": "¥",
}

// FormatMoney renders an amount with its currency symbol. JPY has no minor
// units; everything else shows two decimals.
func FormatMoney(amount decimal.Decimal, code string) string {
	places := int32(2)
	if code == "JPY" {
		places = 0
	}

	sym, ok := symbols[code]
	if !ok {
		return amount.StringFixed(places) + " " + code
	}

	return sym + amount.StringFixed(places)
}

// FormatPercent renders pct with one decimal.
func FormatPercent(pct decimal.Decimal) string {
	return pct.StringFixed(1) + "%"
}

// Bar draws a horizontal bar proportional to pct (0-100) in the given color.
func Bar(pct decimal.Decimal, width int, color string) string {
	if width <= 0 {
		return ""
	}

	n := int(pct.Mul(decimal.NewFromInt(int64(width))).Div(hundred).Round(0).IntPart())
	n = max(0, min(n, width))

	filled := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(strings.Repeat("█", n))

	return filled + strings.Repeat("·", width-n)
}

// Average returns total/count rounded to two places, or zero for no items.
func Average(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}

	return total.Div(decimal.NewFromInt(int64(count))).Round(2)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	if n <= 1 {
		return string(r[:n])
	}

	return fmt.Sprintf("%s…", string(r[:n-1]))
}
