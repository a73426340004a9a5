package services

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatCurrency renders a monetary amount with thousands separators and a
// fixed two-decimal scale, prefixed by the currency code
// ("AED 1,234,567.89"). The core never converts between currencies; this is
// display only.
func FormatCurrency(amount float64, currencyCode string) string {
	formatted := humanize.FormatFloat("#,###.##", amount)
	code := strings.TrimSpace(currencyCode)
	if code == "" {
		code = "AED"
	}
	return code + " " + formatted
}

// FormatPercent renders a progress percentage with one decimal.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
