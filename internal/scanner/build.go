// Package scanner implements the scan-and-reconcile engine: it builds the
// index of identifiers already present in translation catalogs, scans a
// source tree for gettext call sites that are not yet translated, and
// emits the results as index snapshots and catalog fragments.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"

	"gettext-scanner/internal/catalog"
	"gettext-scanner/internal/filewalker"
	"gettext-scanner/internal/parser"

	"github.com/rs/zerolog/log"
)

// ProgressFunc is told about every file a tree scan visits.
type ProgressFunc func(path string, done, total int)

// builder runs one tree pass with a walker, turning parse results into
// index occurrences.
type builder struct {
	walker   *filewalker.Walker
	anchor   func(abs string) string
	skip     *catalog.Index
	progress ProgressFunc
}

// buildTree walks root and records every extracted text whose identifier is
// not in b.skip. Per-file failures are logged and the walk continues.
func (b *builder) buildTree(root string) (*catalog.Index, error) {
	if err := requireDir(root); err != nil {
		return nil, err
	}

	entries, err := b.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	ix := catalog.NewIndex()
	failed := 0
	for i, entry := range entries {
		res, err := b.walker.ParseFile(entry)
		if b.progress != nil {
			b.progress(entry.Path, i+1, len(entries))
		}
		if err != nil {
			failed++
			log.Warn().Err(err).Str("file", entry.Path).Msg("Skipping unreadable file")
			continue
		}
		for _, oc := range b.occurrences(res) {
			ix.Add(oc.ID, oc.Function, oc.Anchor)
		}
	}

	log.Debug().
		Str("root", root).
		Int("files", len(entries)).
		Int("failed", failed).
		Int("msgids", ix.Len()).
		Msg("Tree pass complete")
	return ix, nil
}

// occurrences converts parse results into index occurrences. Empty
// identifiers are dropped: msgid "" is reserved for the catalog header.
func (b *builder) occurrences(res *parser.ParseResult) []catalog.Occurrence {
	var occs []catalog.Occurrence
	for _, et := range res.Texts {
		if et.Text == "" {
			continue
		}
		if b.skip != nil && b.skip.Has(et.Text) {
			continue
		}
		occs = append(occs, catalog.Occurrence{
			ID:       et.Text,
			Function: et.Function,
			Anchor:   catalog.Anchor{Path: b.anchor(et.File), Line: et.Line},
		})
	}
	return occs
}

func requireDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: directory %s", ErrPathNotFound, dir)
		}
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrPathNotFound, dir)
	}
	return nil
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: file %s", ErrPathNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	return nil
}

// relativeTo returns an anchor-path mapper. Paths under base become
// slash-separated relative paths; everything else stays absolute.
func relativeTo(base string) func(string) string {
	if base == "" {
		return func(p string) string { return p }
	}
	return func(p string) string {
		rel, err := filepath.Rel(base, p)
		if err != nil || rel == ".." || filepath.IsAbs(rel) || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
			return p
		}
		return filepath.ToSlash(rel)
	}
}
