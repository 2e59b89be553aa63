package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/nikko-office/millsheet-renamer-google-vision/internal/history"
)

// Service produces XLSX bytes summarizing a processing run.
type Service struct {
	store  *history.Store
	logger *slog.Logger
}

func NewService(store *history.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportRunXLSX returns an XLSX workbook (as bytes) for one run.
func (s *Service) ExportRunXLSX(ctx context.Context, runID uuid.UUID) ([]byte, error) {
	start := time.Now()

	recs, err := s.store.ListRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}

	out, err := BuildRunReport(recs)
	if err != nil {
		return nil, err
	}

	s.logger.Info("export.xlsx.ok", "run_id", runID, "rows", len(recs), "duration_ms", time.Since(start).Milliseconds())
	return out, nil
}

// BuildRunReport renders records into a single-sheet workbook.
func BuildRunReport(recs []history.Record) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Mill Sheets"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// drop the default sheet excelize creates
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Original Name",
		"New Name",
		"Issue Date",
		"Material",
		"Dimensions",
		"Manufacturer",
		"Charge No",
		"Status",
		"Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for row, rec := range recs {
		status := "OK"
		if !rec.Success {
			status = "FAILED"
		}
		values := []string{
			rec.OriginalName,
			rec.NewName,
			rec.Date,
			rec.Material,
			rec.Dimensions,
			rec.Manufacturer,
			rec.ChargeNo,
			status,
			rec.Error,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
