package services_test

import (
	"testing"

	"github.com/SscSPs/order_export_app/internal/core/domain"
	"github.com/SscSPs/order_export_app/internal/core/services"
	"github.com/SscSPs/order_export_app/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCurrencyConverter_Convert(t *testing.T) {
	rates := domain.RateTable{
		"EUR": dec("0.9"),
		"GBP": dec("1.2749"),
		"ZER": decimal.Zero,
	}

	tests := []struct {
		name      string
		precision int32
		amount    string
		code      string
		want      string
		wantValid bool
	}{
		{name: "exact multiplication", precision: 2, amount: "10", code: "EUR", want: "9", wantValid: true},
		{name: "rate rounded before multiply", precision: 2, amount: "100", code: "GBP", want: "127", wantValid: true},
		{name: "rounding disabled", precision: -1, amount: "100", code: "GBP", want: "127.49", wantValid: true},
		{name: "negative amount passes through", precision: 2, amount: "-10", code: "EUR", want: "-9", wantValid: true},
		{name: "zero amount", precision: 2, amount: "0", code: "EUR", want: "0", wantValid: true},
		{name: "unknown currency", precision: 2, amount: "10", code: "USD_actually_absent_code", wantValid: false},
		{name: "zero rate is unknown", precision: 2, amount: "10", code: "ZER", wantValid: false},
		{name: "empty currency", precision: 2, amount: "10", code: "", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := services.NewCurrencyConverter(tt.precision).Convert(dec(tt.amount), tt.code, rates)
			assert.Equal(t, tt.wantValid, got.Valid)
			if tt.wantValid {
				assert.True(t, got.Decimal.Equal(dec(tt.want)), "got %s, want %s", got.Decimal, tt.want)
			}
		})
	}
}

func TestCurrencyConverter_ComputeThenFormat(t *testing.T) {
	converter := services.NewCurrencyConverter(-1)
	got := converter.Convert(dec("3"), "EUR", domain.RateTable{"EUR": dec("0.3333")})

	assert.Equal(t, "0.9999", got.Decimal.String(), "computation keeps full precision")
	assert.Equal(t, "1", utils.FormatAmount(got), "display rounds to two places")
	assert.Equal(t, "", utils.FormatAmount(decimal.NullDecimal{}))
}
