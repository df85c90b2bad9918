package dto

import (
	"time"

	"github.com/SscSPs/order_export_app/internal/core/domain"
)

// ExportRecordsResponse is returned by the records endpoint.
type ExportRecordsResponse struct {
	Summary domain.JoinSummary    `json:"summary"`
	Records []domain.MergedRecord `json:"records"`
}

// ToExportRecordsResponse converts a join result to its response DTO.
func ToExportRecordsResponse(res *domain.JoinResult) ExportRecordsResponse {
	records := res.Records
	if records == nil {
		records = []domain.MergedRecord{}
	}
	return ExportRecordsResponse{Summary: res.Summary(), Records: records}
}

// ExportStatusResponse describes the trigger state.
type ExportStatusResponse struct {
	Status     domain.ExportStatus `json:"status"`
	RunID      string              `json:"runId,omitempty"`
	Error      string              `json:"error,omitempty"`
	StartedAt  *time.Time          `json:"startedAt,omitempty"`
	FinishedAt *time.Time          `json:"finishedAt,omitempty"`
}

// ToExportStatusResponse converts an export state to its response DTO.
func ToExportStatusResponse(state domain.ExportState) ExportStatusResponse {
	status := state.Status
	if status == "" {
		status = domain.ExportIdle
	}
	return ExportStatusResponse{
		Status:     status,
		RunID:      state.RunID,
		Error:      state.Error,
		StartedAt:  state.StartedAt,
		FinishedAt: state.FinishedAt,
	}
}
