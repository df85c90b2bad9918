package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/order_export_app/internal/apperrors"
	"github.com/SscSPs/order_export_app/internal/core/domain"
	"github.com/SscSPs/order_export_app/internal/core/ports"
	"github.com/SscSPs/order_export_app/internal/middleware"
	"github.com/go-playground/validator/v10"
)

// FeedConfig holds the locations of the three upstream feeds.
type FeedConfig struct {
	ItemsURL  string
	OrdersURL string
	RatesURL  string

	// InvertRates is set when the rates feed is quoted per reference unit
	// (base=USD), i.e. "how many units of code buy one USD".
	InvertRates bool
}

// FeedClient reads the order, item and rate feeds over HTTP.
type FeedClient struct {
	httpClient *http.Client
	cfg        FeedConfig
	validate   *validator.Validate
}

// NewFeedClient creates a FeedClient using httpClient for every request.
func NewFeedClient(httpClient *http.Client, cfg FeedConfig) *FeedClient {
	return &FeedClient{
		httpClient: httpClient,
		cfg:        cfg,
		validate:   validator.New(),
	}
}

// Sources returns the client wired as all three export data sources.
func (c *FeedClient) Sources() ports.DataSources {
	return ports.DataSources{Items: c, Orders: c, Rates: c}
}

var (
	_ ports.ItemSource  = (*FeedClient)(nil)
	_ ports.OrderSource = (*FeedClient)(nil)
	_ ports.RateSource  = (*FeedClient)(nil)
)

type itemsEnvelope struct {
	Items []domain.Record `json:"items" validate:"required,dive,required"`
}

type ordersEnvelope struct {
	Orders []domain.Record `json:"orders" validate:"required,dive,required"`
}

type ratesEnvelope struct {
	Rates domain.RateTable `json:"rates" validate:"required"`
}

// FetchItems reads {"items": [...]}.
func (c *FeedClient) FetchItems(ctx context.Context) ([]domain.Record, error) {
	var env itemsEnvelope
	if err := c.getJSON(ctx, "items", c.cfg.ItemsURL, &env); err != nil {
		return nil, err
	}
	return env.Items, nil
}

// FetchOrders reads {"orders": [...]}.
func (c *FeedClient) FetchOrders(ctx context.Context) ([]domain.Record, error) {
	var env ordersEnvelope
	if err := c.getJSON(ctx, "orders", c.cfg.OrdersURL, &env); err != nil {
		return nil, err
	}
	return env.Orders, nil
}

// FetchRates reads {"rates": {"EUR": 0.9, ...}}.
func (c *FeedClient) FetchRates(ctx context.Context) (domain.RateTable, error) {
	var env ratesEnvelope
	if err := c.getJSON(ctx, "rates", c.cfg.RatesURL, &env); err != nil {
		return nil, err
	}
	if c.cfg.InvertRates {
		return env.Rates.Inverted(), nil
	}
	return env.Rates, nil
}

// getJSON fetches url and decodes its body into out, then validates it.
// Transport failures and non-2xx answers are ErrFetch; undecodable or
// invalid bodies are ErrUpstreamFormat.
func (c *FeedClient) getJSON(ctx context.Context, source, url string, out any) error {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("source", source))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: building request: %w", apperrors.ErrFetch, source, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrFetch, source, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("Upstream answered with an error status", slog.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: %s: unexpected status %d", apperrors.ErrFetch, source, resp.StatusCode)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		// A body cut short by cancellation is a transport failure.
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s: %w", apperrors.ErrFetch, source, ctx.Err())
		}
		return fmt.Errorf("%w: %s: %w", apperrors.ErrUpstreamFormat, source, err)
	}

	if err := c.validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrUpstreamFormat, source, err)
	}

	logger.Debug("Fetched upstream feed", slog.String("url", url))
	return nil
}
