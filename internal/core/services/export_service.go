package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/order_export_app/internal/apperrors"
	"github.com/SscSPs/order_export_app/internal/core/domain"
	"github.com/SscSPs/order_export_app/internal/core/ports"
	portssvc "github.com/SscSPs/order_export_app/internal/core/ports/services"
	"github.com/SscSPs/order_export_app/internal/metrics"
	"github.com/SscSPs/order_export_app/internal/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultExportFilename is the base name of a download when none is configured.
const DefaultExportFilename = "orders"

// exportService implements the ExportSvcFacade interface
type exportService struct {
	BaseService
	sources  ports.DataSources
	engine   *JoinEngine
	metrics  *metrics.ExportMetrics
	filename string
	now      func() time.Time
}

// ExportServiceOption is a functional option for configuring the export service
type ExportServiceOption func(*exportService)

// WithExportMetrics records runs and fetches in m.
func WithExportMetrics(m *metrics.ExportMetrics) ExportServiceOption {
	return func(s *exportService) {
		s.metrics = m
	}
}

// WithExportFilename sets the base name of rendered files. Any extension is
// replaced by the encoder's.
func WithExportFilename(name string) ExportServiceOption {
	return func(s *exportService) {
		name = strings.TrimSpace(name)
		if i := strings.LastIndex(name, "."); i > 0 {
			name = name[:i]
		}
		if name != "" {
			s.filename = name
		}
	}
}

// NewExportService creates a new export service with the provided options
func NewExportService(sources ports.DataSources, engine *JoinEngine, options ...ExportServiceOption) portssvc.ExportSvcFacade {
	svc := &exportService{
		sources:  sources,
		engine:   engine,
		filename: DefaultExportFilename,
		now:      time.Now,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure exportService implements the ExportSvcFacade interface
var _ portssvc.ExportSvcFacade = (*exportService)(nil)

// Run fetches the three feeds concurrently and joins orders (primary) to
// items (secondary) on itemId using the fetched rates. The first failing
// fetch cancels the others and fails the run.
func (s *exportService) Run(ctx context.Context) (*domain.JoinResult, error) {
	start := s.now()

	var (
		items  []domain.Record
		orders []domain.Record
		rates  domain.RateTable
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.fetch(gctx, "items", func(ctx context.Context) (err error) {
			items, err = s.sources.Items.FetchItems(ctx)
			return err
		})
	})
	g.Go(func() error {
		return s.fetch(gctx, "orders", func(ctx context.Context) (err error) {
			orders, err = s.sources.Orders.FetchOrders(ctx)
			return err
		})
	})
	g.Go(func() error {
		return s.fetch(gctx, "rates", func(ctx context.Context) (err error) {
			rates, err = s.sources.Rates.FetchRates(ctx)
			return err
		})
	})

	if err := g.Wait(); err != nil {
		s.metrics.ObserveRun(nil, s.now().Sub(start), err)
		s.LogError(ctx, err, "Export run failed")
		return nil, err
	}

	result := s.engine.Join(ctx, orders, items, rates, domain.FieldItemID)
	elapsed := s.now().Sub(start)
	s.metrics.ObserveRun(&result, elapsed, nil)
	runID, _ := middleware.GetRunIDFromCtx(ctx)
	s.LogInfo(ctx, "Export run completed",
		slog.String("run_id", runID),
		slog.Int("orders", len(orders)),
		slog.Int("items", len(items)),
		slog.Int("rates", len(rates)),
		slog.Int("matched", result.Matched),
		slog.Int("unmatched", result.Unmatched),
		slog.Int("unconverted", result.Unconverted),
		slog.Int("malformed_dates", result.MalformedDates),
		slog.Duration("elapsed", elapsed),
	)
	return &result, nil
}

// fetch runs one source fetch, timing it and classifying its error. Source
// errors that are neither ErrFetch nor ErrUpstreamFormat count as ErrFetch.
func (s *exportService) fetch(ctx context.Context, source string, fn func(context.Context) error) error {
	start := s.now()
	err := fn(ctx)
	if err != nil && !errors.Is(err, apperrors.ErrFetch) && !errors.Is(err, apperrors.ErrUpstreamFormat) {
		err = fmt.Errorf("%w: %s: %w", apperrors.ErrFetch, source, err)
	}
	s.metrics.ObserveFetch(source, s.now().Sub(start), err)
	if err != nil {
		s.LogWarn(ctx, "Upstream fetch failed", slog.String("source", source), slog.String("error", err.Error()))
	}
	return err
}

// Export runs the pipeline and renders the joined records.
func (s *exportService) Export(ctx context.Context, format domain.ExportFormat) (*domain.ExportFile, error) {
	encoder, err := EncoderFor(format)
	if err != nil {
		return nil, err
	}

	result, err := s.Run(ctx)
	if err != nil {
		return nil, err
	}

	file, err := s.encode(ctx, encoder, result.Records)
	if err != nil {
		s.LogError(ctx, err, "Failed to encode export")
		return nil, err
	}
	file.Summary = result.Summary()
	return file, nil
}

// Render encodes a caller-supplied record set.
func (s *exportService) Render(ctx context.Context, records []domain.MergedRecord, format domain.ExportFormat) (*domain.ExportFile, error) {
	encoder, err := EncoderFor(format)
	if err != nil {
		return nil, err
	}

	file, err := s.encode(ctx, encoder, records)
	if err != nil {
		return nil, err
	}
	file.Summary = domain.JoinSummary{Matched: len(records)}
	s.LogInfo(ctx, "Rendered records", slog.Int("records", len(records)), slog.String("format", string(format)))
	return file, nil
}

// encode renders records under the run id carried by ctx, or a fresh one.
func (s *exportService) encode(ctx context.Context, encoder Encoder, records []domain.MergedRecord) (*domain.ExportFile, error) {
	content, err := encoder.Encode(records)
	if err != nil {
		return nil, err
	}
	runID, ok := middleware.GetRunIDFromCtx(ctx)
	if !ok {
		runID = uuid.NewString()
	}
	return &domain.ExportFile{
		RunID:       runID,
		Filename:    s.filename + encoder.Extension(),
		ContentType: encoder.ContentType(),
		Content:     content,
	}, nil
}
