package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"gettext-scanner/internal/catalog"
)

func TestSaveAndLoadIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", IndexFile)

	ix := catalog.NewIndex()
	ix.Add("Save", "gettext", catalog.Anchor{Path: "a.ts", Line: 2})
	ix.Add("Save", "gettext", catalog.Anchor{Path: "a.ts", Line: 5})
	ix.Add("Open", "ngettext", catalog.Anchor{Path: "b.ts", Line: 1})
	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	if err := SaveIndex(path, "/src", at, ix); err != nil {
		t.Fatalf("SaveIndex: %v", err)
	}

	doc, err := LoadIndex(path)
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if !doc.ScannedAt.Equal(at) || doc.Root != "/src" {
		t.Fatalf("unexpected header: %+v", doc)
	}
	if diff := cmp.Diff(ix.Entries(), doc.Entries.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadIndexMissing(t *testing.T) {
	doc, err := LoadIndex(filepath.Join(t.TempDir(), "none.json"))
	if err != nil || doc != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", doc, err)
	}
}

func TestWriteAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FragmentFile)
	if err := WriteAtomic(path, []byte("a")); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}
	if err := WriteAtomic(path, []byte("b")); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}

	files, _ := os.ReadDir(dir)
	if len(files) != 1 {
		t.Fatalf("expected exactly one file, got %d", len(files))
	}
	b, _ := os.ReadFile(path)
	if string(b) != "b" {
		t.Fatalf("expected overwritten content, got %q", b)
	}
}

func TestIsTempFile(t *testing.T) {
	dir := t.TempDir()
	f, err := os.CreateTemp(dir, "."+FragmentFile+tempMarker+"*")
	if err != nil {
		t.Fatalf("create temp: %v", err)
	}
	f.Close()

	tests := []struct {
		path string
		want bool
	}{
		{f.Name(), true},
		{filepath.Join(dir, FragmentFile), false},
		{filepath.Join(dir, IndexFile), false},
		{filepath.Join(dir, "notes.tmp-1"), false},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			if got := IsTempFile(tt.path); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
