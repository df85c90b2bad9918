package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// MergedRecord is one order joined with its catalog item. Fields holds the
// order's fields overridden by the item's; the two derived values are kept
// apart so their absence stays explicit.
type MergedRecord struct {
	Fields      Record
	AmountInUSD decimal.NullDecimal
	NewDate     *string
}

// ItemName returns the item name shown in the report.
func (m MergedRecord) ItemName() string { return m.Fields.Text(FieldItemName) }

// OrderID returns the order id shown in the report.
func (m MergedRecord) OrderID() string { return m.Fields.Text(FieldOrderID) }

// DisplayDate returns the normalized date, or "" when it is null.
func (m MergedRecord) DisplayDate() string {
	if m.NewDate == nil {
		return ""
	}
	return *m.NewDate
}

// MarshalJSON flattens the record into a single object with the derived
// fields written last, so they win over any upstream field of the same name.
func (m MergedRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Fields)+2)
	for k, v := range m.Fields {
		out[k] = v
	}
	if m.AmountInUSD.Valid {
		out[FieldAmountInUSD] = json.Number(m.AmountInUSD.Decimal.String())
	} else {
		out[FieldAmountInUSD] = nil
	}
	if m.NewDate != nil {
		out[FieldNewDate] = *m.NewDate
	} else {
		out[FieldNewDate] = nil
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a flattened record back. Anything other than a JSON
// object is rejected.
func (m *MergedRecord) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("merged record must be a JSON object")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	fields := Record{}
	if err := dec.Decode(&fields); err != nil {
		return err
	}

	m.AmountInUSD = decimal.NullDecimal{}
	if _, present := fields[FieldAmountInUSD]; present {
		if d, ok := fields.Decimal(FieldAmountInUSD); ok {
			m.AmountInUSD = decimal.NewNullDecimal(d)
		}
		delete(fields, FieldAmountInUSD)
	}

	m.NewDate = nil
	if v, ok := fields[FieldNewDate].(string); ok {
		m.NewDate = &v
	}
	delete(fields, FieldNewDate)

	m.Fields = fields
	return nil
}
