package services

import (
	"github.com/SscSPs/order_export_app/internal/core/ports"
	portssvc "github.com/SscSPs/order_export_app/internal/core/ports/services"
	"github.com/SscSPs/order_export_app/internal/metrics"
	"github.com/SscSPs/order_export_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, sources ports.DataSources, exportMetrics *metrics.ExportMetrics) *portssvc.ServiceContainer {
	converter := NewCurrencyConverter(cfg.RatePrecision)
	engine := NewJoinEngine(converter)

	return &portssvc.ServiceContainer{
		Export: NewExportService(
			sources,
			engine,
			WithExportMetrics(exportMetrics),
			WithExportFilename(cfg.ExportFilename),
		),
	}
}
