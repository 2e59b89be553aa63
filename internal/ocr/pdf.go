// Package ocr renders mill-certificate PDFs to page images for the
// Vision text-detection call.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

type Config struct {
	Pdftoppm string // binary name or absolute path; if empty -> "pdftoppm"
	DPI      int    // rasterization DPI, default 300
}

// Rasterizer turns the first page of a PDF into a PNG. Mill sheets put
// everything relevant on page one; later pages are chemistry tables.
type Rasterizer struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewRasterizer(cfg Config, logger *slog.Logger) *Rasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Rasterizer{cfg: cfg, runner: execRunner{}, logger: logger}
}

// PageCount validates the PDF and returns its page count.
func (r *Rasterizer) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("read pdf %s: %w", filepath.Base(path), err)
	}
	return n, nil
}

// RenderFirstPage rasterizes page 1 of pdfPath into destDir and returns
// the generated PNG path.
func (r *Rasterizer) RenderFirstPage(ctx context.Context, pdfPath, destDir string) (string, error) {
	prefix := filepath.Join(destDir, "page")

	// pdftoppm -png -f 1 -l 1 -r <dpi> <in.pdf> <dest/page>
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm,
		"-png", "-f", "1", "-l", "1", "-r", fmt.Sprintf("%d", r.cfg.DPI),
		pdfPath, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}

	// pdftoppm appends a page-number suffix (page-1.png or page-01.png
	// depending on version); glob rather than guess.
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no image for %s", filepath.Base(pdfPath))
	}

	r.logger.Debug("rasterized first page", "pdf", pdfPath, "image", matches[0], "dpi", r.cfg.DPI)
	return matches[0], nil
}
