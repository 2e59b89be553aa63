package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nikko-office/millsheet-renamer-google-vision/internal/common"
	"github.com/nikko-office/millsheet-renamer-google-vision/internal/extract"
)

const sheetText = `検査証明書
東京製鉄株式会社
発行日 2025/08/04
材質 SS400
寸法
1.6X1219X2438
CHARGE NO: E12345`

// fakeExtractor returns canned text per source filename.
type fakeExtractor struct {
	texts map[string]string
	err   error
}

func (f *fakeExtractor) Extract(_ context.Context, path string) (extract.TextExtractionResult, error) {
	if f.err != nil {
		return extract.TextExtractionResult{}, f.err
	}
	return extract.TextExtractionResult{
		Text:   f.texts[filepath.Base(path)],
		Pages:  1,
		Method: "fake",
	}, nil
}

func writeSource(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("%PDF-1.4 stub"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProcessFile(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	src := writeSource(t, inDir, "scan001.pdf")

	p := NewProcessor(&fakeExtractor{texts: map[string]string{"scan001.pdf": sheetText}}, nil, nil, nil)
	res := p.ProcessFile(context.Background(), src, outDir)

	if !res.Success() {
		t.Fatalf("ProcessFile failed: %v", res.Err)
	}
	want := "25-08-04_SS400_1.6x1219x2438_東京製鉄_E12345.pdf"
	if res.NewName != want {
		t.Errorf("NewName = %q, want %q", res.NewName, want)
	}
	if res.Original != "scan001.pdf" {
		t.Errorf("Original = %q, want scan001.pdf", res.Original)
	}

	data, err := os.ReadFile(filepath.Join(outDir, want))
	if err != nil {
		t.Fatalf("output file: %v", err)
	}
	if string(data) != "%PDF-1.4 stub" {
		t.Errorf("output content = %q", data)
	}
	// the source is copied, not moved
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source file gone: %v", err)
	}
}

func TestProcessFileEmptyText(t *testing.T) {
	inDir := t.TempDir()
	src := writeSource(t, inDir, "blank.pdf")

	p := NewProcessor(&fakeExtractor{texts: map[string]string{"blank.pdf": "  \n "}}, nil, nil, nil)
	res := p.ProcessFile(context.Background(), src, t.TempDir())

	if res.Success() {
		t.Fatal("expected failure for empty text")
	}
	if !errors.Is(res.Err, common.ErrEmptyText) {
		t.Errorf("Err = %v, want ErrEmptyText", res.Err)
	}
}

func TestProcessFileExtractError(t *testing.T) {
	inDir := t.TempDir()
	src := writeSource(t, inDir, "bad.pdf")

	extractErr := errors.New("vision unreachable")
	p := NewProcessor(&fakeExtractor{err: extractErr}, nil, nil, nil)
	res := p.ProcessFile(context.Background(), src, t.TempDir())

	if res.Success() {
		t.Fatal("expected failure")
	}
	if !errors.Is(res.Err, extractErr) {
		t.Errorf("Err = %v, does not wrap extractor error", res.Err)
	}
}

func TestProcessFileNothingExtractedFallsBack(t *testing.T) {
	inDir := t.TempDir()
	src := writeSource(t, inDir, "scan002.pdf")

	p := NewProcessor(&fakeExtractor{texts: map[string]string{"scan002.pdf": "illegible smudges"}}, nil, nil, nil)
	res := p.ProcessFile(context.Background(), src, t.TempDir())

	if !res.Success() {
		t.Fatalf("ProcessFile failed: %v", res.Err)
	}
	if res.NewName != "scan002_renamed.pdf" {
		t.Errorf("NewName = %q, want scan002_renamed.pdf", res.NewName)
	}
}

func TestProcessFileCollisionGetsSuffix(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	srcA := writeSource(t, inDir, "a.pdf")
	srcB := writeSource(t, inDir, "b.pdf")

	// both documents parse to the same fields, so the same candidate name
	p := NewProcessor(&fakeExtractor{texts: map[string]string{
		"a.pdf": sheetText,
		"b.pdf": sheetText,
	}}, nil, nil, nil)

	first := p.ProcessFile(context.Background(), srcA, outDir)
	second := p.ProcessFile(context.Background(), srcB, outDir)

	if !first.Success() || !second.Success() {
		t.Fatalf("failures: %v, %v", first.Err, second.Err)
	}
	want := "25-08-04_SS400_1.6x1219x2438_東京製鉄_E12345_1.pdf"
	if second.NewName != want {
		t.Errorf("second NewName = %q, want %q", second.NewName, want)
	}
}

func TestProcessBatch(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	files := []string{
		writeSource(t, inDir, "a.pdf"),
		writeSource(t, inDir, "b.pdf"),
		writeSource(t, inDir, "c.pdf"),
	}

	p := NewProcessor(&fakeExtractor{texts: map[string]string{
		"a.pdf": sheetText,
		"b.pdf": "", // empty text fails this document only
		"c.pdf": "SUS304 2.0X1000XCOIL",
	}}, nil, nil, nil)

	results, err := p.ProcessBatch(context.Background(), files, outDir, 2)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	// results come back in input order regardless of worker scheduling
	if results[0].Original != "a.pdf" || results[1].Original != "b.pdf" || results[2].Original != "c.pdf" {
		t.Errorf("result order: %q, %q, %q",
			results[0].Original, results[1].Original, results[2].Original)
	}
	if !results[0].Success() {
		t.Errorf("a.pdf failed: %v", results[0].Err)
	}
	if !errors.Is(results[1].Err, common.ErrEmptyText) {
		t.Errorf("b.pdf err = %v, want ErrEmptyText", results[1].Err)
	}
	if !results[2].Success() {
		t.Errorf("c.pdf failed: %v", results[2].Err)
	}
	if results[2].NewName != "SUS304_2x1000xC.pdf" {
		t.Errorf("c.pdf NewName = %q, want SUS304_2x1000xC.pdf", results[2].NewName)
	}

	s := Summarize(results)
	if s.Total != 3 || s.Succeeded != 2 || s.Failed != 1 {
		t.Errorf("Summarize = %+v, want {3 2 1}", s)
	}
}

func TestProcessBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProcessor(&fakeExtractor{}, nil, nil, nil)
	_, err := p.ProcessBatch(ctx, []string{"x.pdf"}, t.TempDir(), 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
