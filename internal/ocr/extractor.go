package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// TextDetector is the OCR service boundary; satisfied by vision.Client.
type TextDetector interface {
	DetectDocumentText(ctx context.Context, imagePath string) (string, error)
}

// Extractor implements extract.TextExtractor for scanned PDFs:
// validate -> rasterize page 1 -> Vision document text detection.
type Extractor struct {
	rasterizer *Rasterizer
	detector   TextDetector
	logger     *slog.Logger
}

func NewExtractor(rasterizer *Rasterizer, detector TextDetector, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{rasterizer: rasterizer, detector: detector, logger: logger}
}

// ExtractionResult mirrors extract.TextExtractionResult field-for-field;
// it is redeclared here so this package does not import its consumer.
type ExtractionResult struct {
	Text     string
	Pages    int
	Method   string
	Duration time.Duration
	Warnings []string
}

// Extract produces the OCR text of path's first page. Temp artifacts are
// removed before returning. Any failure surfaces as one error.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	res := ExtractionResult{Method: "vision-ocr"}

	pages, err := e.rasterizer.PageCount(path)
	if err != nil {
		return res, err
	}
	res.Pages = pages

	tmpDir, err := os.MkdirTemp("", "millsheet-*")
	if err != nil {
		return res, fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", err)
		}
	}()

	imgPath, err := e.rasterizer.RenderFirstPage(ctx, path, tmpDir)
	if err != nil {
		return res, err
	}

	text, err := e.detector.DetectDocumentText(ctx, imgPath)
	if err != nil {
		return res, fmt.Errorf("vision ocr: %w", err)
	}

	res.Text = text
	res.Duration = time.Since(start)
	e.logger.Debug("ocr.extract.ok", "path", path, "pages", pages, "chars", len(text), "duration_ms", res.Duration.Milliseconds())
	return res, nil
}
