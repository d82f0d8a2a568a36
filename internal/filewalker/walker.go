package filewalker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gettext-scanner/internal/parser"

	"github.com/rs/zerolog/log"
)

// Walker traverses a directory tree depth-first and selects the files a
// parser accepts.
type Walker struct {
	parser   parser.Parser
	skipDirs map[string]bool
}

// NewWalker creates a Walker dispatching to p. Directories whose base name
// is listed in skipDirs are not descended into.
func NewWalker(p parser.Parser, skipDirs ...string) *Walker {
	w := &Walker{parser: p, skipDirs: make(map[string]bool)}
	for _, d := range skipDirs {
		if d = strings.TrimSpace(d); d != "" {
			w.skipDirs[d] = true
		}
	}
	return w
}

// FileEntry represents a discovered file ready for processing.
type FileEntry struct {
	Path   string
	Ext    string
	Parser parser.Parser
}

// Walk discovers every accepted file under root. Entries come back in
// lexical depth-first order: a subdirectory is exhausted before its next
// sibling. A missing or non-directory root is an error; unreadable
// subdirectories are logged and skipped.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var entries []FileEntry

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && w.skipDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !w.parser.CanParse(ext) {
			return nil
		}

		entries = append(entries, FileEntry{
			Path:   path,
			Ext:    ext,
			Parser: w.parser,
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Debug().Int("count", len(entries)).Str("root", root).Msg("Discovered files")
	return entries, nil
}

// ParseFile parses a single file using the entry's parser.
func (w *Walker) ParseFile(entry FileEntry) (*parser.ParseResult, error) {
	return entry.Parser.Parse(entry.Path)
}
