package utils

import (
	"github.com/shopspring/decimal"
)

// DisplayPrecision is the number of decimal places amounts are shown with.
const DisplayPrecision = 2

// FormatAmount formats an amount for display: rounded to two places with
// trailing zeros dropped ("11.00" becomes "11"). A null amount yields "".
func FormatAmount(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return ""
	}
	return FormatWithPrecision(amount.Decimal, DisplayPrecision)
}

// FormatWithPrecision formats an amount with the given precision.
// Example: 12.3456 with precision 2 returns "12.35"
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}
