package upstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/order_export_app/internal/adapters/upstream"
	"github.com/SscSPs/order_export_app/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedServer(t *testing.T, routes map[string]func(w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, handler := range routes {
		handler := handler // per-iteration copy; go.mod targets Go 1.21 loop semantics
		mux.HandleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
			handler(w)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func jsonBody(body string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func newClient(srv *httptest.Server, invert bool) *upstream.FeedClient {
	return upstream.NewFeedClient(srv.Client(), upstream.FeedConfig{
		ItemsURL:    srv.URL + "/items",
		OrdersURL:   srv.URL + "/orders",
		RatesURL:    srv.URL + "/rates",
		InvertRates: invert,
	})
}

func TestFeedClient_FetchAll(t *testing.T) {
	srv := newFeedServer(t, map[string]func(http.ResponseWriter){
		"/items":  jsonBody(`{"items":[{"itemId":"1","itemName":"Mouse","amount":10.5,"currency":"EUR"}]}`),
		"/orders": jsonBody(`{"orders":[{"itemId":1,"orderId":"O1","date":"2024-01-05"}]}`),
		"/rates":  jsonBody(`{"base":"USD","rates":{"EUR":0.9,"GBP":"1.25"}}`),
	})
	client := newClient(srv, false)
	ctx := context.Background()

	items, err := client.FetchItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	amount, ok := items[0].Decimal("amount")
	require.True(t, ok)
	assert.Equal(t, "10.5", amount.String())

	orders, err := client.FetchOrders(ctx)
	require.NoError(t, err)
	key, ok := orders[0].Key("itemId")
	require.True(t, ok)
	assert.Equal(t, "1", key)

	rates, err := client.FetchRates(ctx)
	require.NoError(t, err)
	assert.True(t, rates["EUR"].Equal(decimal.RequireFromString("0.9")))
	assert.True(t, rates["GBP"].Equal(decimal.RequireFromString("1.25")))
}

func TestFeedClient_InvertRates(t *testing.T) {
	srv := newFeedServer(t, map[string]func(http.ResponseWriter){
		"/rates": jsonBody(`{"rates":{"EUR":0.8}}`),
	})

	rates, err := newClient(srv, true).FetchRates(context.Background())
	require.NoError(t, err)
	assert.True(t, rates["EUR"].Equal(decimal.RequireFromString("1.25")))
}

func TestFeedClient_ShapeErrors(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		body  string
		fetch func(*upstream.FeedClient) error
	}{
		{name: "missing items key", path: "/items", body: `{"products":[]}`, fetch: fetchItems},
		{name: "null items", path: "/items", body: `{"items":null}`, fetch: fetchItems},
		{name: "items not an array", path: "/items", body: `{"items":{"itemId":"1"}}`, fetch: fetchItems},
		{name: "item not an object", path: "/items", body: `{"items":[1,2]}`, fetch: fetchItems},
		{name: "null item", path: "/items", body: `{"items":[null]}`, fetch: fetchItems},
		{name: "missing orders key", path: "/orders", body: `{}`, fetch: fetchOrders},
		{name: "orders not json", path: "/orders", body: `<html>oops</html>`, fetch: fetchOrders},
		{name: "missing rates key", path: "/rates", body: `{"success":false}`, fetch: fetchRates},
		{name: "rate not numeric", path: "/rates", body: `{"rates":{"EUR":"lots"}}`, fetch: fetchRates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFeedServer(t, map[string]func(http.ResponseWriter){tt.path: jsonBody(tt.body)})
			err := tt.fetch(newClient(srv, false))
			assert.ErrorIs(t, err, apperrors.ErrUpstreamFormat)
			assert.NotErrorIs(t, err, apperrors.ErrFetch)
		})
	}
}

func TestFeedClient_EmptyArraysAreValid(t *testing.T) {
	srv := newFeedServer(t, map[string]func(http.ResponseWriter){
		"/items": jsonBody(`{"items":[]}`),
	})

	items, err := newClient(srv, false).FetchItems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFeedClient_StatusIsFetchError(t *testing.T) {
	srv := newFeedServer(t, map[string]func(http.ResponseWriter){
		"/orders": func(w http.ResponseWriter) { w.WriteHeader(http.StatusServiceUnavailable) },
	})

	_, err := newClient(srv, false).FetchOrders(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrFetch)
	assert.Contains(t, err.Error(), "503")
}

func TestFeedClient_TransportIsFetchError(t *testing.T) {
	srv := newFeedServer(t, nil)
	client := newClient(srv, false)
	srv.Close()

	_, err := client.FetchItems(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrFetch)
}

func TestFeedClient_CancelledContextIsFetchError(t *testing.T) {
	srv := newFeedServer(t, map[string]func(http.ResponseWriter){
		"/rates": func(w http.ResponseWriter) {
			time.Sleep(200 * time.Millisecond)
			jsonBody(`{"rates":{}}`)(w)
		},
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newClient(srv, false).FetchRates(ctx)
	assert.ErrorIs(t, err, apperrors.ErrFetch)
}

func TestFeedClient_Sources(t *testing.T) {
	client := upstream.NewFeedClient(http.DefaultClient, upstream.FeedConfig{})
	sources := client.Sources()
	assert.NotNil(t, sources.Items)
	assert.NotNil(t, sources.Orders)
	assert.NotNil(t, sources.Rates)
}

func fetchItems(c *upstream.FeedClient) error {
	_, err := c.FetchItems(context.Background())
	return err
}

func fetchOrders(c *upstream.FeedClient) error {
	_, err := c.FetchOrders(context.Background())
	return err
}

func fetchRates(c *upstream.FeedClient) error {
	_, err := c.FetchRates(context.Background())
	return err
}
