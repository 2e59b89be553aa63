package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/nikko-office/millsheet-renamer-google-vision/internal/history"
)

func TestBuildRunReport(t *testing.T) {
	recs := []history.Record{
		{
			OriginalName: "scan001.pdf",
			NewName:      "25-08-04_SS400_1.6x1219x2438_東京製鉄_E12345.pdf",
			Date:         "25-08-04",
			Material:     "SS400",
			Dimensions:   "1.6x1219x2438",
			Manufacturer: "東京製鉄",
			ChargeNo:     "E12345",
			Success:      true,
		},
		{
			OriginalName: "scan002.pdf",
			Success:      false,
			Error:        "no text extracted from document",
		},
	}

	out, err := BuildRunReport(recs)
	if err != nil {
		t.Fatalf("BuildRunReport: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer func() { _ = f.Close() }()

	const sheet = "Mill Sheets"
	if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
		t.Fatalf("sheet %q missing, have %v", sheet, f.GetSheetList())
	}
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		t.Error("default Sheet1 was not removed")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 (header + 2 records)", len(rows))
	}

	wantHeader := []string{
		"Original Name", "New Name", "Issue Date", "Material",
		"Dimensions", "Manufacturer", "Charge No", "Status", "Error",
	}
	for i, h := range wantHeader {
		if rows[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], h)
		}
	}

	first := rows[1]
	if first[0] != "scan001.pdf" || first[3] != "SS400" || first[5] != "東京製鉄" || first[7] != "OK" {
		t.Errorf("first record row = %v", first)
	}

	second := rows[2]
	if second[0] != "scan002.pdf" || second[7] != "FAILED" {
		t.Errorf("second record row = %v", second)
	}
	if second[8] != "no text extracted from document" {
		t.Errorf("error cell = %q", second[8])
	}
}

func TestBuildRunReportEmpty(t *testing.T) {
	out, err := BuildRunReport(nil)
	if err != nil {
		t.Fatalf("BuildRunReport: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Mill Sheets")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want header only", len(rows))
	}
}

func TestExportRunXLSX(t *testing.T) {
	store, err := history.Open(":memory:", nil)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	runID := uuid.New()
	if err := store.Record(ctx, history.Record{
		RunID:        runID,
		OriginalName: "scan001.pdf",
		NewName:      "SS400.pdf",
		Material:     "SS400",
		Success:      true,
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	svc := NewService(store, nil)
	out, err := svc.ExportRunXLSX(ctx, runID)
	if err != nil {
		t.Fatalf("ExportRunXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Mill Sheets")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[1][0] != "scan001.pdf" || rows[1][3] != "SS400" {
		t.Errorf("record row = %v", rows[1])
	}
}
