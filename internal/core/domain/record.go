package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Field names used by the upstream order and item feeds.
const (
	FieldItemID   = "itemId"
	FieldItemName = "itemName"
	FieldOrderID  = "orderId"
	FieldDate     = "date"
	FieldAmount   = "amount"
	FieldCurrency = "currency"

	// Derived fields attached by the join.
	FieldAmountInUSD = "amountInUSD"
	FieldNewDate     = "newDate"
)

// Record is one loosely typed upstream row (an order or a catalog item).
// Upstream payloads are decoded with json.Decoder.UseNumber, so numeric
// values arrive as json.Number and convert to decimals without loss.
type Record map[string]any

// Key returns the string form of the value under field, which is what join
// keys are compared by. Numbers and strings with the same text are equal
// ("1" matches 1). Missing and null values report false.
func (r Record) Key(field string) (string, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return "", false
	}
	return stringify(v), true
}

// Text returns the display text of field, or "" when it is missing or null.
func (r Record) Text(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	return stringify(v)
}

// Decimal returns the numeric value of field. Numeric strings are accepted
// the same way the upstream feeds sometimes quote amounts.
func (r Record) Decimal(field string) (decimal.Decimal, bool) {
	switch v := r[field].(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case decimal.Decimal:
		return v, true
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case decimal.Decimal:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
