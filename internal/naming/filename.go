package naming

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nikko-office/millsheet-renamer-google-vision/internal/parser"
)

// Context carries everything needed to name one document: the extracted
// record, the original filename as fallback, and the target directory's
// name-existence oracle. It is built per document and consumed once.
type Context struct {
	Info         parser.Info
	OriginalName string
	Exists       func(name string) bool
}

// Filename synthesizes the candidate name and resolves it to a unique
// one against the context's existence oracle.
func (c Context) Filename() string {
	return MakeUnique(c.Exists, Synthesize(c.Info, c.OriginalName))
}

// Synthesize builds the output filename from the populated fields in
// fixed order: date, material, dimensions, manufacturer, charge number,
// each sanitized, joined with underscores, with a .pdf suffix. When no
// field was extracted the original name's stem is reused with a
// "_renamed" marker. Pure function; deterministic for a given input.
func Synthesize(info parser.Info, originalName string) string {
	var parts []string
	for _, field := range info.Fields() {
		if s := Sanitize(field); s != "" {
			parts = append(parts, s)
		}
	}

	if len(parts) == 0 {
		stem := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
		return Sanitize(stem) + "_renamed.pdf"
	}
	return strings.Join(parts, "_") + ".pdf"
}

// MakeUnique returns candidate if the directory does not already have a
// file by that name, otherwise the first "stem_N.ext" (N counting up
// from 1) that is free. Directories are finite, so this terminates.
func MakeUnique(exists func(name string) bool, candidate string) string {
	if exists == nil || !exists(candidate) {
		return candidate
	}

	ext := filepath.Ext(candidate)
	stem := strings.TrimSuffix(candidate, ext)

	for counter := 1; ; counter++ {
		name := fmt.Sprintf("%s_%d%s", stem, counter, ext)
		if !exists(name) {
			return name
		}
	}
}
