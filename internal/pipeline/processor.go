// Package pipeline drives a document through
// OCR -> parse -> synthesize -> claim.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/nikko-office/millsheet-renamer-google-vision/internal/common"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/extract"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/history"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/naming"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/parser"
)

// Result is the outcome for one document. Err is nil on success; a
// failed document never aborts the rest of a batch.
type Result struct {
	Original string
	NewName  string
	Info     parser.Info
	Err      error
}

func (r Result) Success() bool { return r.Err == nil }

// Processor coordinates text extraction, parsing, and naming for single
// documents. Extraction and parsing are stateless and run concurrently;
// the resolve-and-claim of an output name is serialized so two workers
// cannot settle on the same "unique" name.
type Processor struct {
	extractor extract.TextExtractor
	parser    *parser.Parser
	store     *history.Store // optional
	runID     uuid.UUID
	logger    *slog.Logger

	claimMu sync.Mutex
}

func NewProcessor(extractor extract.TextExtractor, p *parser.Parser, store *history.Store, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if p == nil {
		p = parser.NewParser(nil, logger)
	}
	return &Processor{
		extractor: extractor,
		parser:    p,
		store:     store,
		runID:     uuid.New(),
		logger:    logger,
	}
}

// RunID identifies this processor's batch in the history store.
func (p *Processor) RunID() uuid.UUID { return p.runID }

// ProcessFile runs the full pipeline for one document and copies it
// into outDir under its synthesized name.
func (p *Processor) ProcessFile(ctx context.Context, srcPath, outDir string) Result {
	original := filepath.Base(srcPath)
	result := Result{Original: original}

	res, err := p.extractor.Extract(ctx, srcPath)
	if err != nil {
		result.Err = common.WrapError(err, "extract text")
		p.finish(ctx, result)
		return result
	}
	if strings.TrimSpace(res.Text) == "" {
		result.Err = common.ErrEmptyText
		p.finish(ctx, result)
		return result
	}

	info := p.parser.Parse(res.Text)
	result.Info = info

	// Resolve-and-claim under one lock: the existence check and the
	// copy must be a single step or concurrent documents can race to
	// the same name.
	p.claimMu.Lock()
	nameCtx := naming.Context{
		Info:         info,
		OriginalName: original,
		Exists: func(name string) bool {
			_, err := os.Stat(filepath.Join(outDir, name))
			return err == nil
		},
	}
	unique := nameCtx.Filename()
	err = copyFile(srcPath, filepath.Join(outDir, unique))
	p.claimMu.Unlock()

	if err != nil {
		result.Err = fmt.Errorf("%w: %v", common.ErrRename, err)
		p.finish(ctx, result)
		return result
	}

	result.NewName = unique
	p.logger.Info("pipeline.renamed", "original", original, "new_name", unique)
	p.finish(ctx, result)
	return result
}

// finish records the outcome in the history store, if one is attached.
func (p *Processor) finish(ctx context.Context, r Result) {
	if !r.Success() {
		p.logger.Error("pipeline.failed", "original", r.Original, "error", r.Err)
	}
	if p.store == nil {
		return
	}
	rec := history.Record{
		RunID:        p.runID,
		OriginalName: r.Original,
		NewName:      r.NewName,
		Date:         r.Info.Date,
		Material:     r.Info.Material,
		Dimensions:   r.Info.Dimensions,
		Manufacturer: r.Info.Manufacturer,
		ChargeNo:     r.Info.ChargeNo,
		Success:      r.Success(),
	}
	if r.Err != nil {
		rec.Error = r.Err.Error()
	}
	if err := p.store.Record(ctx, rec); err != nil {
		p.logger.Error("pipeline.history_record_failed", "original", r.Original, "error", err)
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
