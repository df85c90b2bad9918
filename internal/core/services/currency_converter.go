package services

import (
	"strings"

	"github.com/SscSPs/order_export_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultRatePrecision is the number of decimal places a rate is rounded to
// before it is applied. The legacy report rounded rates, not amounts, to two
// places; keep that until product decides otherwise.
const DefaultRatePrecision int32 = 2

// CurrencyConverter converts amounts into the reference currency.
type CurrencyConverter struct {
	// ratePrecision < 0 applies rates unrounded.
	ratePrecision int32
}

// NewCurrencyConverter creates a converter that rounds rates to
// ratePrecision places. Pass a negative value to disable rounding.
func NewCurrencyConverter(ratePrecision int32) *CurrencyConverter {
	return &CurrencyConverter{ratePrecision: ratePrecision}
}

// Convert returns amount expressed in the reference currency. The result is
// null when rates has no usable entry for code; an unknown currency is data
// absence, not an error. Zero and negative amounts use the same formula.
func (c *CurrencyConverter) Convert(amount decimal.Decimal, code string, rates domain.RateTable) decimal.NullDecimal {
	rate, ok := rates.Lookup(strings.TrimSpace(code))
	if !ok {
		return decimal.NullDecimal{}
	}
	if c.ratePrecision >= 0 {
		rate = rate.Round(c.ratePrecision)
	}
	return decimal.NewNullDecimal(amount.Mul(rate))
}
