package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/order_export_app/internal/apperrors"
	"github.com/SscSPs/order_export_app/internal/core/domain"
	"github.com/SscSPs/order_export_app/internal/utils"
	"github.com/xuri/excelize/v2"
)

// ReportHeader is the fixed header of the order report.
var ReportHeader = []string{"Item Name", "Order ID", "Order Date", "Amount"}

// Encoder turns merged records into the bytes of a downloadable file.
type Encoder interface {
	Encode(records []domain.MergedRecord) ([]byte, error)
	ContentType() string
	Extension() string
}

// EncoderFor returns the encoder for format.
func EncoderFor(format domain.ExportFormat) (Encoder, error) {
	switch format {
	case domain.FormatCSV, "":
		return CSVEncoder{}, nil
	case domain.FormatXLSX:
		return XLSXEncoder{}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", apperrors.ErrValidation, format)
	}
}

// reportRow returns the four report columns of rec.
func reportRow(rec domain.MergedRecord) []string {
	return []string{rec.ItemName(), rec.OrderID(), rec.DisplayDate(), utils.FormatAmount(rec.AmountInUSD)}
}

func validateRecords(records []domain.MergedRecord) error {
	for i, rec := range records {
		if rec.Fields == nil {
			return fmt.Errorf("%w: record %d has no fields", apperrors.ErrInvalidInput, i)
		}
	}
	return nil
}

// CSVEncoder writes the report as comma separated text. Fields containing a
// comma, quote or line break are quoted and embedded quotes doubled. Every
// line, the last one included, ends with "\n". A null amount or date is
// written as an empty field, never as the text "null".
type CSVEncoder struct{}

func (CSVEncoder) ContentType() string { return "text/csv; charset=utf-8" }
func (CSVEncoder) Extension() string   { return ".csv" }

func (CSVEncoder) Encode(records []domain.MergedRecord) ([]byte, error) {
	if err := validateRecords(records); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ReportHeader); err != nil {
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}
	for i, rec := range records {
		if err := w.Write(reportRow(rec)); err != nil {
			return nil, fmt.Errorf("failed to write report row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush report: %w", err)
	}
	return buf.Bytes(), nil
}

// ToText renders records as the CSV report text.
func ToText(records []domain.MergedRecord) (string, error) {
	out, err := CSVEncoder{}.Encode(records)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DecodeRecords parses a JSON array of merged record objects, the shape
// produced by MergedRecord.MarshalJSON. Anything else is ErrInvalidInput.
func DecodeRecords(data []byte) ([]domain.MergedRecord, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: got null", apperrors.ErrInvalidInput)
	}

	records := make([]domain.MergedRecord, len(raw))
	for i, item := range raw {
		if err := json.Unmarshal(item, &records[i]); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", apperrors.ErrInvalidInput, i, err)
		}
	}
	return records, nil
}

// XLSXSheetName is the sheet the XLSX report is written to.
const XLSXSheetName = "Orders"

// XLSXEncoder writes the report as a single-sheet workbook. Amounts are
// numeric cells; null amounts are left blank.
type XLSXEncoder struct{}

func (XLSXEncoder) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (XLSXEncoder) Extension() string { return ".xlsx" }

func (XLSXEncoder) Encode(records []domain.MergedRecord) ([]byte, error) {
	if err := validateRecords(records); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", XLSXSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(ReportHeader))
	for i, h := range ReportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(XLSXSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{rec.ItemName(), rec.OrderID(), rec.DisplayDate(), nil}
		if rec.AmountInUSD.Valid {
			row[3] = rec.AmountInUSD.Decimal.Round(utils.DisplayPrecision).InexactFloat64()
		}
		if err := f.SetSheetRow(XLSXSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write report row %d: %w", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
