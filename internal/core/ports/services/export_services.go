package services

import (
	"context"

	"github.com/SscSPs/order_export_app/internal/core/domain"
)

// ExportRunnerSvc fetches the upstream feeds and joins them.
type ExportRunnerSvc interface {
	// Run fetches items, orders and rates concurrently and joins orders to
	// items. It fails with apperrors.ErrFetch or apperrors.ErrUpstreamFormat
	// and never returns a partial result.
	Run(ctx context.Context) (*domain.JoinResult, error)
}

// ExportRendererSvc encodes merged records into a downloadable file.
type ExportRendererSvc interface {
	// Render encodes records in the given format. Records without fields are
	// rejected with apperrors.ErrInvalidInput.
	Render(ctx context.Context, records []domain.MergedRecord, format domain.ExportFormat) (*domain.ExportFile, error)
}

// ExportSvcFacade combines all export-related service interfaces
type ExportSvcFacade interface {
	ExportRunnerSvc
	ExportRendererSvc

	// Export runs the pipeline and renders its result.
	Export(ctx context.Context, format domain.ExportFormat) (*domain.ExportFile, error)
}
