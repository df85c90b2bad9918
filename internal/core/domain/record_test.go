package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/order_export_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Key(t *testing.T) {
	tests := []struct {
		name   string
		record domain.Record
		want   string
		wantOK bool
	}{
		{name: "string key", record: domain.Record{"itemId": "1"}, want: "1", wantOK: true},
		{name: "json number key", record: domain.Record{"itemId": json.Number("1")}, want: "1", wantOK: true},
		{name: "float key", record: domain.Record{"itemId": float64(42)}, want: "42", wantOK: true},
		{name: "missing key", record: domain.Record{"orderId": "O1"}, wantOK: false},
		{name: "null key", record: domain.Record{"itemId": nil}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.record.Key(domain.FieldItemID)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecord_Decimal(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   string
		wantOK bool
	}{
		{name: "json number", value: json.Number("10.25"), want: "10.25", wantOK: true},
		{name: "numeric string", value: " 7 ", want: "7", wantOK: true},
		{name: "negative", value: json.Number("-3"), want: "-3", wantOK: true},
		{name: "garbage string", value: "ten", wantOK: false},
		{name: "null", value: nil, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := domain.Record{"amount": tt.value}.Decimal(domain.FieldAmount)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestRateTable_Lookup(t *testing.T) {
	rates := domain.RateTable{
		"EUR": decimal.RequireFromString("0.9"),
		"XXX": decimal.Zero,
	}

	rate, ok := rates.Lookup("EUR")
	assert.True(t, ok)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.9")))

	_, ok = rates.Lookup("XXX")
	assert.False(t, ok, "zero rate counts as unknown")

	_, ok = rates.Lookup("GBP")
	assert.False(t, ok)
}

func TestRateTable_Inverted(t *testing.T) {
	rates := domain.RateTable{
		"EUR": decimal.RequireFromString("0.8"),
		"XXX": decimal.Zero,
	}

	inv := rates.Inverted()
	assert.True(t, inv["EUR"].Equal(decimal.RequireFromString("1.25")))
	assert.NotContains(t, inv, "XXX")
}

func TestMergedRecord_JSONRoundTrip(t *testing.T) {
	date := "Jan 5"
	rec := domain.MergedRecord{
		Fields: domain.Record{
			"itemId":   "1",
			"itemName": "Mouse",
			"orderId":  "O1",
			"newDate":  "stale upstream value",
		},
		AmountInUSD: decimal.NewNullDecimal(decimal.RequireFromString("11")),
		NewDate:     &date,
	}

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"itemId":"1","itemName":"Mouse","orderId":"O1","amountInUSD":11,"newDate":"Jan 5"}`, string(raw))

	var back domain.MergedRecord
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "Mouse", back.ItemName())
	assert.Equal(t, "O1", back.OrderID())
	assert.Equal(t, "Jan 5", back.DisplayDate())
	require.True(t, back.AmountInUSD.Valid)
	assert.Equal(t, "11", back.AmountInUSD.Decimal.String())
	assert.NotContains(t, back.Fields, domain.FieldNewDate)
}

func TestMergedRecord_NullDerivedFields(t *testing.T) {
	raw, err := json.Marshal(domain.MergedRecord{Fields: domain.Record{"orderId": "O9"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"orderId":"O9","amountInUSD":null,"newDate":null}`, string(raw))

	var back domain.MergedRecord
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.False(t, back.AmountInUSD.Valid)
	assert.Nil(t, back.NewDate)
}

func TestMergedRecord_UnmarshalRejectsNonObject(t *testing.T) {
	var rec domain.MergedRecord
	assert.Error(t, json.Unmarshal([]byte(`"just a string"`), &rec))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &rec))
}

func TestExportState_Transitions(t *testing.T) {
	var state domain.ExportState
	assert.False(t, state.Busy())

	state = state.Start("run-1", fixedTime)
	assert.True(t, state.Busy())
	assert.Equal(t, domain.ExportRunning, state.Status)

	failed := state.Finish(assert.AnError, fixedTime)
	assert.Equal(t, domain.ExportFailed, failed.Status)
	assert.Equal(t, assert.AnError.Error(), failed.Error)
	assert.Equal(t, "run-1", failed.RunID)

	idle := state.Finish(nil, fixedTime)
	assert.Equal(t, domain.ExportIdle, idle.Status)
	assert.Empty(t, idle.Error)
}

func TestParseExportFormat(t *testing.T) {
	f, err := domain.ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, domain.FormatCSV, f)

	f, err = domain.ParseExportFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, domain.FormatXLSX, f)

	_, err = domain.ParseExportFormat("pdf")
	assert.Error(t, err)
}

var fixedTime = time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
