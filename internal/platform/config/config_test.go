package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/SscSPs/order_export_app/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir()) // no stray .env

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.DefaultItemsURL, cfg.ItemsURL)
	assert.Equal(t, config.DefaultOrdersURL, cfg.OrdersURL)
	assert.Equal(t, config.DefaultRatesURL, cfg.RatesURL)
	assert.Equal(t, int32(2), cfg.RatePrecision)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "orders", cfg.ExportFilename)
	assert.Equal(t, "30-M", cfg.RateLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.False(t, cfg.InvertRates)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("ITEMS_URL", "http://upstream.local/items")
	t.Setenv("RATES_INVERT", "true")
	t.Setenv("RATE_PRECISION", "-1")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("ALLOWED_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://upstream.local/items", cfg.ItemsURL)
	assert.True(t, cfg.InvertRates)
	assert.Equal(t, int32(-1), cfg.RatePrecision)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_InvalidTimeoutFallsBack(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FETCH_TIMEOUT", "soon")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
}

func TestLoadConfig_RejectsBadURL(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ORDERS_URL", "not a url")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

// chdir is a Go 1.21-compatible stand-in for testing.T.Chdir (Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
