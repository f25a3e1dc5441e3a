package domain

import "fmt"

// TaxCents computes sales tax on a subtotal at a basis-point rate (800 =
// 8%), rounding half up. Tax is computed once on the whole subtotal, never
// per line, so line-level rounding can never drift the total.
func TaxCents(subtotalCents, rateBasisPoints int64) int64 {
	return (subtotalCents*rateBasisPoints + 5000) / 10000
}

// FormatCents renders minor units as a display amount, e.g. 972 -> "$9.72".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
