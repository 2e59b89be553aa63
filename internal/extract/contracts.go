package extract

import (
	"context"
	"time"
)

// TextExtractor is stage 1 of the pipeline: document file -> text.
// Implementations own rasterization and the OCR call; a failure anywhere
// inside must surface as a single error, never as partial text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text     string
	Pages    int // page count of the source document
	Method   string
	Duration time.Duration
	Warnings []string
}
