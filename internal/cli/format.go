// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		if n == math.MinInt64 {
			return "-9,223,372,036,854,775,808"
		}
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatAmount formats a whole amount with its currency code.
// e.g., (15719000, "BDT") -> "BDT 15,719,000"
func FormatAmount(n int64, currency string) string {
	if currency == "" {
		return FormatNumber(n)
	}
	return currency + " " + FormatNumber(n)
}

// FormatEstimate formats a converted estimate as an approximate value.
// e.g., (130991.67, "USD") -> "~$130,992", (569.33, "USD") -> "~$569"
func FormatEstimate(v float64, currency string) string {
	n := FormatNumber(int64(math.Round(v)))
	switch strings.ToUpper(currency) {
	case "USD", "":
		return "~$" + n
	case "EUR":
		return "~€" + n
	case "GBP":
		return "~£" + n
	default:
		return "~" + currency + " " + n
	}
}

// FormatRate formats a 0-1 rate as a percentage, dropping a zero fraction.
// e.g., 0.1 -> "10%", 0.125 -> "12.5%"
func FormatRate(rate float64) string {
	pct := rate * 100
	if math.Abs(pct-math.Round(pct)) < 1e-9 {
		return fmt.Sprintf("%.0f%%", math.Round(pct))
	}
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatExchange describes an exchange rate, e.g. "1 USD ≈ BDT 120".
func FormatExchange(rate float64, local, foreign string) string {
	if foreign == "" {
		foreign = "USD"
	}
	return fmt.Sprintf("1 %s ≈ %s %s", foreign, local, strconv.FormatFloat(rate, 'f', -1, 64))
}
