package domain

import "github.com/shopspring/decimal"

// ReferenceCurrency is the currency every exported amount is expressed in.
const ReferenceCurrency = "USD"

// RateTable maps a currency code to the multiplier that turns one unit of
// that currency into the reference currency. It is supplied once per run.
type RateTable map[string]decimal.Decimal

// Lookup returns the rate for code. A missing code and a zero rate are both
// reported as unknown.
func (t RateTable) Lookup(code string) (decimal.Decimal, bool) {
	rate, ok := t[code]
	if !ok || rate.IsZero() {
		return decimal.Zero, false
	}
	return rate, true
}

// Inverted returns a table quoted the other way round. Feeds that publish
// "units of code per one reference unit" (base=USD) are turned into
// multipliers with it. Zero rates are dropped.
func (t RateTable) Inverted() RateTable {
	out := make(RateTable, len(t))
	for code, rate := range t {
		if rate.IsZero() {
			continue
		}
		out[code] = decimal.NewFromInt(1).DivRound(rate, 16)
	}
	return out
}
