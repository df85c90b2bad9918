package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/order_export_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JoinEngine merges a primary dataset with a secondary one by key.
type JoinEngine struct {
	BaseService
	converter *CurrencyConverter
}

// NewJoinEngine creates a JoinEngine that converts amounts with converter.
func NewJoinEngine(converter *CurrencyConverter) *JoinEngine {
	return &JoinEngine{converter: converter}
}

// Join is an inner join of primary against secondary on key.
//
// Secondary rows are indexed by key, the last occurrence winning. Each
// primary row with a match yields one merged record whose fields are the
// primary's, overridden by the secondary's. Amount and currency are taken as a
// pair: from the secondary when it carries either of them, otherwise from the
// primary. The display date comes from the primary's date. Unmatched primary
// rows are dropped and counted. Output keeps the order of primary.
func (j *JoinEngine) Join(ctx context.Context, primary, secondary []domain.Record, rates domain.RateTable, key string) domain.JoinResult {
	index := make(map[string]domain.Record, len(secondary))
	for _, row := range secondary {
		if k, ok := row.Key(key); ok {
			index[k] = row
		}
	}

	result := domain.JoinResult{Records: make([]domain.MergedRecord, 0, len(primary))}
	for _, row := range primary {
		k, ok := row.Key(key)
		if !ok {
			result.Unmatched++
			continue
		}
		match, ok := index[k]
		if !ok {
			j.LogDebug(ctx, "Dropping row without a match", slog.String("key", key), slog.String("value", k))
			result.Unmatched++
			continue
		}

		merged := domain.MergedRecord{Fields: row.Clone()}
		for field, v := range match {
			merged.Fields[field] = v
		}
		delete(merged.Fields, domain.FieldAmountInUSD)
		delete(merged.Fields, domain.FieldNewDate)

		merged.AmountInUSD = j.convert(priceSource(match, row), rates)
		if !merged.AmountInUSD.Valid {
			result.Unconverted++
		}

		newDate, err := NormalizeDate(row.Text(domain.FieldDate))
		if err != nil {
			j.LogWarn(ctx, "Leaving date empty", slog.String("key", k), slog.String("error", err.Error()))
			result.MalformedDates++
		}
		merged.NewDate = newDate

		result.Records = append(result.Records, merged)
		result.Matched++
	}

	return result
}

// priceSource picks the row whose amount and currency are converted. The two
// fields are never mixed across rows.
func priceSource(secondary, primary domain.Record) domain.Record {
	if hasValue(secondary, domain.FieldAmount) || hasValue(secondary, domain.FieldCurrency) {
		return secondary
	}
	return primary
}

func hasValue(row domain.Record, field string) bool {
	v, ok := row[field]
	return ok && v != nil
}

func (j *JoinEngine) convert(row domain.Record, rates domain.RateTable) decimal.NullDecimal {
	amount, ok := row.Decimal(domain.FieldAmount)
	if !ok {
		return decimal.NullDecimal{}
	}
	return j.converter.Convert(amount, row.Text(domain.FieldCurrency), rates)
}
