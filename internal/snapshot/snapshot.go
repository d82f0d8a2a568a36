// Package snapshot persists scan artifacts: the JSON index snapshots and the
// formatted catalog fragment. Writes are atomic so readers never observe a
// partially written file.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gettext-scanner/internal/catalog"
)

// Artifact file names inside the data directory.
const (
	IndexFile    = "msgids.json"
	ExistingFile = "existing_msgids.json"
	FragmentFile = "translations.po"
)

// Document is the on-disk shape of an index snapshot.
type Document struct {
	ScannedAt time.Time      `json:"scanned_at"`
	Root      string         `json:"root"`
	Entries   *catalog.Index `json:"entries"`
}

// SaveIndex writes ix as a Document to path.
func SaveIndex(path, root string, scannedAt time.Time, ix *catalog.Index) error {
	b, err := json.MarshalIndent(Document{ScannedAt: scannedAt, Root: root, Entries: ix}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return WriteAtomic(path, append(b, '\n'))
}

// LoadIndex reads a Document from path. A missing file returns (nil, nil) so
// callers can treat it as "no previous snapshot".
func LoadIndex(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	doc := Document{Entries: catalog.NewIndex()}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return &doc, nil
}

const tempMarker = ".tmp-"

// IsTempFile reports whether path names an in-flight WriteAtomic temp file.
func IsTempFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && strings.Contains(base, tempMarker)
}

// WriteAtomic writes data into a temp file next to path and renames it
// into place.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+tempMarker+"*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
