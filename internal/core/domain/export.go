package domain

import (
	"fmt"
	"strings"
	"time"
)

// JoinResult is the outcome of joining orders to items. Dropped rows are
// counted rather than silently lost.
type JoinResult struct {
	Records []MergedRecord `json:"records"`

	// Matched + Unmatched equals the number of primary rows.
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`

	// Matched rows whose amount could not be converted (unknown currency or
	// missing amount) and rows whose date could not be normalized.
	Unconverted    int `json:"unconverted"`
	MalformedDates int `json:"malformedDates"`
}

// Summary returns the result without its records.
func (r JoinResult) Summary() JoinSummary {
	return JoinSummary{
		Matched:        r.Matched,
		Unmatched:      r.Unmatched,
		Unconverted:    r.Unconverted,
		MalformedDates: r.MalformedDates,
	}
}

// JoinSummary holds the counters of a JoinResult.
type JoinSummary struct {
	Matched        int `json:"matched"`
	Unmatched      int `json:"unmatched"`
	Unconverted    int `json:"unconverted"`
	MalformedDates int `json:"malformedDates"`
}

// ExportFormat selects the encoder used for a download.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

// ParseExportFormat accepts "csv" and "xlsx" in any case; "" means CSV.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ExportFile is an encoded export ready to hand to a file saver.
type ExportFile struct {
	RunID       string
	Filename    string
	ContentType string
	Content     []byte
	Summary     JoinSummary
}

// ExportStatus is the coarse state of a trigger.
type ExportStatus string

const (
	ExportIdle    ExportStatus = "idle"
	ExportRunning ExportStatus = "running"
	ExportFailed  ExportStatus = "failed"
)

// ExportState is owned by whoever triggers exports (the HTTP handler or the
// CLI). The pipeline itself is stateless.
type ExportState struct {
	Status     ExportStatus `json:"status"`
	RunID      string       `json:"runId,omitempty"`
	Error      string       `json:"error,omitempty"`
	StartedAt  *time.Time   `json:"startedAt,omitempty"`
	FinishedAt *time.Time   `json:"finishedAt,omitempty"`
}

// Start moves the state to running.
func (s ExportState) Start(runID string, now time.Time) ExportState {
	return ExportState{Status: ExportRunning, RunID: runID, StartedAt: &now}
}

// Finish moves the state back to idle, or to failed when err is non-nil.
func (s ExportState) Finish(err error, now time.Time) ExportState {
	next := ExportState{Status: ExportIdle, RunID: s.RunID, StartedAt: s.StartedAt, FinishedAt: &now}
	if err != nil {
		next.Status = ExportFailed
		next.Error = err.Error()
	}
	return next
}

// Busy reports whether an export is in flight.
func (s ExportState) Busy() bool { return s.Status == ExportRunning }
