package extract

import (
	"context"

	"github.com/nikko-office/millsheet-renamer-google-vision/internal/ocr"
)

// OCRAdapter exposes ocr.Extractor as a TextExtractor. The ocr package
// declares its own result type so it does not import its consumer; this
// adapter carries the fields across.
type OCRAdapter struct {
	extractor *ocr.Extractor
}

func NewOCRAdapter(e *ocr.Extractor) *OCRAdapter {
	return &OCRAdapter{extractor: e}
}

func (a *OCRAdapter) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	r, err := a.extractor.Extract(ctx, path)
	if err != nil {
		return TextExtractionResult{}, err
	}
	return TextExtractionResult{
		Text:     r.Text,
		Pages:    r.Pages,
		Method:   r.Method,
		Duration: r.Duration,
		Warnings: r.Warnings,
	}, nil
}
