package exporter

import (
	"github.com/shopspring/decimal"
)

// notAvailable marks a benchmark whose denominator was missing or zero
const notAvailable = "N/A"

// formatMoney formats an amount with exactly 2 decimal places
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatOptionalMoney leaves missing amounts empty
func formatOptionalMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return formatMoney(d.Decimal)
}

// formatCount rounds to a whole number; missing counts are empty
func formatCount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(0)
}

// formatRatio formats a benchmark, or N/A when it is undefined
func formatRatio(d decimal.NullDecimal) string {
	if !d.Valid {
		return notAvailable
	}
	return formatMoney(d.Decimal)
}
