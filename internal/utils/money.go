package utils

import (
	"fmt"
	"math"
)

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatCedi renders an amount the way receipts show it, e.g. "GH₵ 6.50".
func FormatCedi(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%sGH₵ %s", sign, FormatMoney(amount))
}

// ToCents converts currency units to integer cents, rounding half away from zero.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromCents converts integer cents back to currency units.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}
