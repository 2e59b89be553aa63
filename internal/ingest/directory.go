package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ListDocuments returns the processable files directly inside dir,
// sorted by name. Hidden files and non-PDF extensions are skipped;
// subdirectories are not descended into; the input directory is a flat
// drop folder.
func ListDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() || IsHidden(e.Name()) {
			continue
		}
		if !AllowedExt(filepath.Ext(e.Name())) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
