package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nikko-office/millsheet-renamer-google-vision/internal/common"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/export"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/extract"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/history"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/ingest"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/ocr"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/parser"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/pipeline"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/vision"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags; env vars (LoadConfig) supply the defaults
	cfg := common.LoadConfig()
	var (
		in     = flag.String("in", cfg.Dirs.Input, "input directory of PDF scans")
		out    = flag.String("out", cfg.Dirs.Output, "output directory for renamed files")
		report = flag.String("report", "", "XLSX report path (optional, defaults next to output dir)")
		dbPath = flag.String("db", cfg.Naming.HistoryDBPath, "history database path (optional, defaults inside output dir)")
		jobs   = flag.Int("jobs", cfg.OCR.MaxJobs, "max concurrent documents")
	)
	flag.Parse()

	cfg.Dirs.Input = *in
	cfg.Dirs.Output = *out
	cfg.OCR.MaxJobs = *jobs
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *report == "" {
		*report = filepath.Join(filepath.Dir(*out), "millsheets.xlsx")
	}
	if *dbPath == "" {
		*dbPath = filepath.Join(*out, ".millsheet-history.db")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	if err := os.MkdirAll(cfg.Dirs.Input, 0o755); err != nil {
		logger.Error("failed to create input dir", "dir", cfg.Dirs.Input, "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.Dirs.Output, 0o755); err != nil {
		logger.Error("failed to create output dir", "dir", cfg.Dirs.Output, "error", err)
		os.Exit(1)
	}

	// Manufacturer priority table (built-in unless overridden)
	manufacturers := parser.DefaultManufacturers
	if cfg.Naming.ManufacturersPath != "" {
		table, err := parser.LoadManufacturerTable(cfg.Naming.ManufacturersPath)
		if err != nil {
			logger.Error("failed to load manufacturer table", "path", cfg.Naming.ManufacturersPath, "error", err)
			os.Exit(1)
		}
		manufacturers = table
		logger.Info("loaded manufacturer table", "path", cfg.Naming.ManufacturersPath, "entries", len(table))
	}

	// Vision OCR client
	visionClient, err := vision.NewClient(ctx, vision.Config{
		Endpoint:        cfg.Vision.Endpoint,
		CredentialsFile: cfg.Vision.CredentialsFile,
		LanguageHints:   cfg.Vision.LanguageHints,
		Timeout:         cfg.Vision.Timeout,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize vision client", "error", err)
		os.Exit(1)
	}

	// Rasterizer + extractor
	rasterizer := ocr.NewRasterizer(ocr.Config{
		Pdftoppm: cfg.OCR.Pdftoppm,
		DPI:      cfg.OCR.DPI,
	}, logger)
	extractor := extract.NewOCRAdapter(ocr.NewExtractor(rasterizer, visionClient, logger))

	// History store
	store, err := history.Open(*dbPath, logger)
	if err != nil {
		logger.Error("failed to open history store", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	processor := pipeline.NewProcessor(extractor, parser.NewParser(manufacturers, logger), store, logger)

	// Discover input documents
	files, err := ingest.ListDocuments(cfg.Dirs.Input)
	if err != nil {
		logger.Error("failed to list input directory", "dir", cfg.Dirs.Input, "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("no PDF files found in %s\n", cfg.Dirs.Input)
		return
	}
	logger.Info("starting batch", "run_id", processor.RunID(), "files", len(files), "jobs", cfg.OCR.MaxJobs)

	results, err := processor.ProcessBatch(ctx, files, cfg.Dirs.Output, cfg.OCR.MaxJobs)
	if err != nil {
		logger.Error("batch interrupted", "error", err)
	}

	// XLSX report
	exporter := export.NewService(store, logger)
	xlsxBytes, err := exporter.ExportRunXLSX(ctx, processor.RunID())
	if err != nil {
		logger.Error("failed to build report", "error", err)
	} else if err := os.WriteFile(*report, xlsxBytes, 0o644); err != nil {
		logger.Error("failed to write report", "path", *report, "error", err)
	}

	// Summary
	summary := pipeline.Summarize(results)
	logger.Info("batch complete",
		"run_id", processor.RunID(),
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)

	fmt.Printf("\nTotal: %d | OK: %d | Failed: %d\n", summary.Total, summary.Succeeded, summary.Failed)
	for _, r := range results {
		if r.Success() {
			fmt.Printf("  %s\n    -> %s\n", r.Original, r.NewName)
		}
	}
	for _, r := range results {
		if !r.Success() {
			fmt.Printf("  FAILED %s: %v\n", r.Original, r.Err)
		}
	}
	fmt.Printf("\nOutput directory: %s\n", cfg.Dirs.Output)

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
