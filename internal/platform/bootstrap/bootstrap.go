// Package bootstrap wires configuration into the collaborators shared by the
// HTTP server and the CLI.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/SscSPs/order_export_app/internal/adapters/storage"
	"github.com/SscSPs/order_export_app/internal/adapters/upstream"
	"github.com/SscSPs/order_export_app/internal/core/ports"
	portssvc "github.com/SscSPs/order_export_app/internal/core/ports/services"
	"github.com/SscSPs/order_export_app/internal/core/services"
	"github.com/SscSPs/order_export_app/internal/metrics"
	"github.com/SscSPs/order_export_app/internal/platform/config"
	"github.com/SscSPs/order_export_app/pkg/httpclient"
	"github.com/prometheus/client_golang/prometheus"
)

// NewLogger returns a JSON logger writing to w at the named level.
// Unknown levels fall back to info.
func NewLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewServices builds the service container: upstream feed client, metrics
// and the export pipeline. Metrics are registered with reg when it is non-nil.
func NewServices(cfg *config.Config, reg prometheus.Registerer) (*portssvc.ServiceContainer, error) {
	httpClient, err := httpclient.NewHTTPClient(cfg.FetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream http client: %w", err)
	}

	var exportMetrics *metrics.ExportMetrics
	if reg != nil {
		exportMetrics, err = metrics.NewExportMetrics(reg)
		if err != nil {
			return nil, fmt.Errorf("failed to register export metrics: %w", err)
		}
	}

	feeds := upstream.NewFeedClient(httpClient, upstream.FeedConfig{
		ItemsURL:    cfg.ItemsURL,
		OrdersURL:   cfg.OrdersURL,
		RatesURL:    cfg.RatesURL,
		InvertRates: cfg.InvertRates,
	})

	return services.NewServiceContainer(cfg, feeds.Sources(), exportMetrics), nil
}

// NewArchiveSaver returns the saver used to archive HTTP downloads, or nil
// when archiving is disabled. S3 is used when a bucket is configured,
// otherwise OUTPUT_DIR on local disk.
func NewArchiveSaver(ctx context.Context, cfg *config.Config) (ports.FileSaver, error) {
	if !cfg.ArchiveEnabled {
		return nil, nil
	}
	if cfg.S3Bucket == "" {
		return storage.NewLocalFileSaver(cfg.OutputDir), nil
	}
	saver, err := storage.NewS3Saver(ctx, storage.S3SaverConfig{
		Bucket:   cfg.S3Bucket,
		Region:   cfg.S3Region,
		Endpoint: cfg.S3Endpoint,
		Prefix:   cfg.S3Prefix,
	})
	if err != nil {
		return nil, err
	}
	return saver, nil
}
