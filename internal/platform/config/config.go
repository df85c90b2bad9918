package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Default upstream feeds of the legacy order report.
const (
	DefaultItemsURL  = "https://api-staging.entriwise.com/mock/test-task-items"
	DefaultOrdersURL = "https://api-staging.entriwise.com/mock/test-task-orders"
	DefaultRatesURL  = "https://api.exchangerate.host/latest?&base=USD"
)

// Config holds application configuration.
type Config struct {
	Port         string `mapstructure:"PORT" validate:"required,numeric"`
	IsProduction bool   `mapstructure:"IS_PRODUCTION"`
	LogLevel     string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	// Upstream feeds
	ItemsURL      string        `mapstructure:"ITEMS_URL" validate:"required,url"`
	OrdersURL     string        `mapstructure:"ORDERS_URL" validate:"required,url"`
	RatesURL      string        `mapstructure:"RATES_URL" validate:"required,url"`
	InvertRates   bool          `mapstructure:"RATES_INVERT"`
	RatePrecision int32         `mapstructure:"RATE_PRECISION" validate:"gte=-1,lte=16"`
	FetchTimeout  time.Duration `mapstructure:"FETCH_TIMEOUT" validate:"gt=0"`

	// Export output
	ExportFilename string `mapstructure:"EXPORT_FILENAME" validate:"required"`
	OutputDir      string `mapstructure:"OUTPUT_DIR" validate:"required"`
	ArchiveEnabled bool   `mapstructure:"ARCHIVE_ENABLED"`
	S3Bucket       string `mapstructure:"S3_BUCKET"`
	S3Region       string `mapstructure:"S3_REGION"`
	S3Endpoint     string `mapstructure:"S3_ENDPOINT" validate:"omitempty,url"`
	S3Prefix       string `mapstructure:"S3_PREFIX"`

	// HTTP surface
	RateLimit      string   `mapstructure:"RATE_LIMIT" validate:"required"`
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`
	PosthogAPIKey  string   `mapstructure:"POSTHOG_API_KEY"`
}

var defaults = map[string]any{
	"PORT":            "8080",
	"IS_PRODUCTION":   false,
	"LOG_LEVEL":       "info",
	"ITEMS_URL":       DefaultItemsURL,
	"ORDERS_URL":      DefaultOrdersURL,
	"RATES_URL":       DefaultRatesURL,
	"RATES_INVERT":    false,
	"RATE_PRECISION":  2,
	"FETCH_TIMEOUT":   "30s",
	"EXPORT_FILENAME": "orders",
	"OUTPUT_DIR":      "exports",
	"ARCHIVE_ENABLED": false,
	"S3_BUCKET":       "",
	"S3_REGION":       "us-east-1",
	"S3_ENDPOINT":     "",
	"S3_PREFIX":       "exports/",
	"RATE_LIMIT":      "30-M",
	"ALLOWED_ORIGINS": "http://localhost:3000",
	"POSTHOG_API_KEY": "",
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{
		Port:           v.GetString("PORT"),
		IsProduction:   v.GetBool("IS_PRODUCTION"),
		LogLevel:       strings.ToLower(v.GetString("LOG_LEVEL")),
		ItemsURL:       v.GetString("ITEMS_URL"),
		OrdersURL:      v.GetString("ORDERS_URL"),
		RatesURL:       v.GetString("RATES_URL"),
		InvertRates:    v.GetBool("RATES_INVERT"),
		RatePrecision:  v.GetInt32("RATE_PRECISION"),
		ExportFilename: v.GetString("EXPORT_FILENAME"),
		OutputDir:      v.GetString("OUTPUT_DIR"),
		ArchiveEnabled: v.GetBool("ARCHIVE_ENABLED"),
		S3Bucket:       v.GetString("S3_BUCKET"),
		S3Region:       v.GetString("S3_REGION"),
		S3Endpoint:     v.GetString("S3_ENDPOINT"),
		S3Prefix:       v.GetString("S3_PREFIX"),
		RateLimit:      v.GetString("RATE_LIMIT"),
		AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		PosthogAPIKey:  v.GetString("POSTHOG_API_KEY"),
	}

	// Load fetch timeout (e.g., "30s", "1m")
	fetchTimeoutStr := v.GetString("FETCH_TIMEOUT")
	fetchTimeout, err := time.ParseDuration(fetchTimeoutStr)
	if err != nil {
		fetchTimeout = 30 * time.Second
		log.Printf("Warning: Invalid value for FETCH_TIMEOUT ('%s'). Defaulting to %s.\n", fetchTimeoutStr, fetchTimeout)
	}
	cfg.FetchTimeout = fetchTimeout

	if cfg.ArchiveEnabled && cfg.S3Bucket == "" {
		log.Printf("Warning: S3_BUCKET not set. Archived exports go to %s.\n", cfg.OutputDir)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
