package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/SscSPs/order_export_app/internal/apperrors"
	"github.com/SscSPs/order_export_app/internal/core/domain"
	"github.com/SscSPs/order_export_app/internal/core/ports"
	portssvc "github.com/SscSPs/order_export_app/internal/core/ports/services"
	"github.com/SscSPs/order_export_app/internal/core/services"
	"github.com/SscSPs/order_export_app/internal/dto"
	"github.com/SscSPs/order_export_app/internal/middleware"
	"github.com/SscSPs/order_export_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response headers carrying the join counters of a download.
const (
	HeaderExportRunID     = "X-Export-Run-ID"
	HeaderExportMatched   = "X-Export-Matched"
	HeaderExportUnmatched = "X-Export-Unmatched"
)

// exportHandler handles HTTP requests related to order exports.
type exportHandler struct {
	exportService portssvc.ExportSvcFacade
	archive       ports.FileSaver // optional
	analytics     *utils.PosthogClientWrapper
	tracker       *exportTracker
}

// newExportHandler creates a new exportHandler.
func newExportHandler(es portssvc.ExportSvcFacade, archive ports.FileSaver, analytics *utils.PosthogClientWrapper) *exportHandler {
	return &exportHandler{
		exportService: es,
		archive:       archive,
		analytics:     analytics,
		tracker:       newExportTracker(),
	}
}

// registerExportRoutes registers routes related to exports.
func registerExportRoutes(rg *gin.RouterGroup, h *exportHandler) {
	exports := rg.Group("/exports")
	{
		exports.GET("/orders", h.getOrdersExport)
		exports.GET("/records", h.getRecords)
		exports.POST("/render", h.postRender)
		exports.GET("/status", h.getStatus)
	}
}

// getOrdersExport godoc
// @Summary Download the order export
// @Description Fetches items, orders and rates, joins orders to items and returns the report as a file
// @Tags exports
// @Produce  text/csv
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   format query string false "Export format" Enums(csv, xlsx) default(csv)
// @Success 200 {file} file "Export file"
// @Failure 400 {object} map[string]string "Unsupported format"
// @Failure 409 {object} map[string]string "An export is already running"
// @Failure 502 {object} map[string]string "Upstream feed unavailable or malformed"
// @Failure 500 {object} map[string]string "Failed to build export"
// @Router /exports/orders [get]
func (h *exportHandler) getOrdersExport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	format, err := domain.ParseExportFormat(c.Query("format"))
	if err != nil {
		logger.Warn("Unsupported export format requested", slog.String("format", c.Query("format")))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	runID := h.runID(c)
	logger = logger.With(slog.String("run_id", runID), slog.String("format", string(format)))
	if err := h.tracker.begin(runID); err != nil {
		logger.Warn("Export requested while another is running")
		c.JSON(http.StatusConflict, gin.H{"error": "An export is already running"})
		return
	}

	logger.Info("Received request to export orders")
	file, err := h.exportService.Export(middleware.WithRunID(c.Request.Context(), runID), format)
	h.tracker.finish(err)
	if err != nil {
		h.respondError(c, logger, err, "Failed to build export")
		return
	}

	h.archiveFile(c.Request.Context(), logger, file)
	middleware.PosthogEvent(c, h.analytics, "order_export_downloaded", map[string]any{
		"format":    string(format),
		"matched":   file.Summary.Matched,
		"unmatched": file.Summary.Unmatched,
	})

	logger.Info("Export built successfully",
		slog.String("filename", file.Filename),
		slog.Int("bytes", len(file.Content)),
		slog.Int("matched", file.Summary.Matched),
		slog.Int("unmatched", file.Summary.Unmatched),
	)
	writeAttachment(c, file)
}

// getRecords godoc
// @Summary Preview the merged records
// @Description Runs the same pipeline as the download and returns the merged records as JSON
// @Tags exports
// @Produce  json
// @Success 200 {object} dto.ExportRecordsResponse
// @Failure 409 {object} map[string]string "An export is already running"
// @Failure 502 {object} map[string]string "Upstream feed unavailable or malformed"
// @Failure 500 {object} map[string]string "Failed to build records"
// @Router /exports/records [get]
func (h *exportHandler) getRecords(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	runID := h.runID(c)
	logger = logger.With(slog.String("run_id", runID))
	if err := h.tracker.begin(runID); err != nil {
		logger.Warn("Records requested while an export is running")
		c.JSON(http.StatusConflict, gin.H{"error": "An export is already running"})
		return
	}

	logger.Info("Received request to preview merged records")
	res, err := h.exportService.Run(middleware.WithRunID(c.Request.Context(), runID))
	h.tracker.finish(err)
	if err != nil {
		h.respondError(c, logger, err, "Failed to build records")
		return
	}

	logger.Info("Records built successfully", slog.Int("count", len(res.Records)))
	c.JSON(http.StatusOK, dto.ToExportRecordsResponse(res))
}

// postRender godoc
// @Summary Render merged records to a file
// @Description Encodes a caller-supplied array of merged records without fetching anything
// @Tags exports
// @Accept  json
// @Produce  text/csv
// @Param   format query string false "Export format" Enums(csv, xlsx) default(csv)
// @Param   records body []object true "Merged records"
// @Success 200 {file} file "Export file"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to render export"
// @Router /exports/render [post]
func (h *exportHandler) postRender(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	format, err := domain.ParseExportFormat(c.Query("format"))
	if err != nil {
		logger.Warn("Unsupported export format requested", slog.String("format", c.Query("format")))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		logger.Warn("Failed to read render body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrInvalidInput.Error()})
		return
	}
	records, err := services.DecodeRecords(body)
	if err != nil {
		h.respondError(c, logger, err, "Failed to render export")
		return
	}

	ctx := middleware.WithRunID(c.Request.Context(), h.runID(c))
	file, err := h.exportService.Render(ctx, records, format)
	if err != nil {
		h.respondError(c, logger, err, "Failed to render export")
		return
	}

	logger.Info("Records rendered successfully", slog.Int("count", len(records)), slog.String("format", string(format)))
	writeAttachment(c, file)
}

// getStatus godoc
// @Summary Get the export status
// @Description Reports whether an export is running and how the last one finished
// @Tags exports
// @Produce  json
// @Success 200 {object} dto.ExportStatusResponse
// @Router /exports/status [get]
func (h *exportHandler) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToExportStatusResponse(h.tracker.snapshot()))
}

func (h *exportHandler) runID(c *gin.Context) string {
	if id, ok := middleware.GetRequestIDFromContext(c); ok {
		return id
	}
	return uuid.NewString()
}

// respondError maps service errors to HTTP statuses.
func (h *exportHandler) respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Invalid export request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrFetch), errors.Is(err, apperrors.ErrUpstreamFormat):
		logger.Error("Upstream feed failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// archiveFile stores a copy of a successful export. Failures are logged only;
// the caller still gets the file.
func (h *exportHandler) archiveFile(ctx context.Context, logger *slog.Logger, file *domain.ExportFile) {
	if h.archive == nil {
		return
	}
	name := archiveName(file)
	if err := h.archive.Save(ctx, name, file.Content); err != nil {
		logger.Warn("Failed to archive export", slog.String("filename", name), slog.String("error", err.Error()))
		return
	}
	logger.Info("Export archived", slog.String("filename", name))
}

// archiveName keeps every archived run: orders.csv becomes orders-<run id>.csv.
func archiveName(file *domain.ExportFile) string {
	ext := path.Ext(file.Filename)
	return fmt.Sprintf("%s-%s%s", strings.TrimSuffix(file.Filename, ext), file.RunID, ext)
}

func writeAttachment(c *gin.Context, file *domain.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header(HeaderExportRunID, file.RunID)
	c.Header(HeaderExportMatched, strconv.Itoa(file.Summary.Matched))
	c.Header(HeaderExportUnmatched, strconv.Itoa(file.Summary.Unmatched))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
