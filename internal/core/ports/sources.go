package ports

import (
	"context"

	"github.com/SscSPs/order_export_app/internal/core/domain"
)

// ItemSource retrieves the item catalog ({"items": [...]}).
type ItemSource interface {
	FetchItems(ctx context.Context) ([]domain.Record, error)
}

// OrderSource retrieves the purchase orders ({"orders": [...]}).
type OrderSource interface {
	FetchOrders(ctx context.Context) ([]domain.Record, error)
}

// RateSource retrieves the exchange rate table ({"rates": {...}}).
type RateSource interface {
	FetchRates(ctx context.Context) (domain.RateTable, error)
}

// DataSources groups the three upstream feeds of an export.
// Implementations return errors wrapping apperrors.ErrFetch or
// apperrors.ErrUpstreamFormat.
type DataSources struct {
	Items  ItemSource
	Orders OrderSource
	Rates  RateSource
}

// FileSaver persists a finished export under the given file name.
type FileSaver interface {
	Save(ctx context.Context, filename string, content []byte) error
}
