package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nikko-office/millsheet-renamer-google-vision/internal/common"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/extract"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/history"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/ingest"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/ocr"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/parser"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/pipeline"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/vision"
)

func main() {
	cfg := common.LoadConfig()
	var (
		in       = flag.String("in", cfg.Dirs.Input, "drop directory to watch")
		out      = flag.String("out", cfg.Dirs.Output, "output directory for renamed files")
		dbPath   = flag.String("db", cfg.Naming.HistoryDBPath, "history database path (optional)")
		debounce = flag.Duration("debounce", 500*time.Millisecond, "wait for writes to settle before processing")
		scan     = flag.Bool("scan", true, "process files already present at startup")
	)
	flag.Parse()

	cfg.Dirs.Input = *in
	cfg.Dirs.Output = *out

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *dbPath == "" {
		*dbPath = filepath.Join(*out, ".millsheet-history.db")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, dir := range []string{cfg.Dirs.Input, cfg.Dirs.Output} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}

	manufacturers := parser.DefaultManufacturers
	if cfg.Naming.ManufacturersPath != "" {
		table, err := parser.LoadManufacturerTable(cfg.Naming.ManufacturersPath)
		if err != nil {
			logger.Error("failed to load manufacturer table", "path", cfg.Naming.ManufacturersPath, "error", err)
			os.Exit(1)
		}
		manufacturers = table
	}

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

	rasterizer := ocr.NewRasterizer(ocr.Config{
		Pdftoppm: cfg.OCR.Pdftoppm,
		DPI:      cfg.OCR.DPI,
	}, logger)
	extractor := extract.NewOCRAdapter(ocr.NewExtractor(rasterizer, visionClient, logger))

	store, err := history.Open(*dbPath, logger)
	if err != nil {
		logger.Error("failed to open history store", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	processor := pipeline.NewProcessor(extractor, parser.NewParser(manufacturers, logger), store, logger)

	evCh, errCh, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Root:        cfg.Dirs.Input,
		InitialScan: *scan,
		Debounce:    *debounce,
	}, logger)
	if err != nil {
		logger.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	logger.Info("watching for mill sheets",
		"input", cfg.Dirs.Input,
		"output", cfg.Dirs.Output,
		"run_id", processor.RunID(),
	)

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case err, ok := <-errCh:
			if ok && err != nil {
				logger.Error("watch error", "error", err)
			}
		case path, ok := <-evCh:
			if !ok {
				return
			}
			r := processor.ProcessFile(ctx, path, cfg.Dirs.Output)
			if r.Success() {
				fmt.Printf("%s -> %s\n", r.Original, r.NewName)
			} else {
				fmt.Printf("FAILED %s: %v\n", r.Original, r.Err)
			}
		}
	}
}
