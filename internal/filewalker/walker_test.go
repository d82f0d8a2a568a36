package filewalker

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gettext-scanner/internal/parser"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestWalkDepthFirstWithFilters(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.ex"), "")
	writeFile(t, filepath.Join(root, "a", "z.ex"), "")
	writeFile(t, filepath.Join(root, "a", "deep", "y.ex"), "")
	writeFile(t, filepath.Join(root, "a", "notes.md"), "")
	writeFile(t, filepath.Join(root, "deps", "vendored.ex"), "")
	writeFile(t, filepath.Join(root, "c.exs"), "")

	p, err := parser.NewGettextParser(parser.Options{Extensions: []string{".ex", ".exs"}})
	if err != nil {
		t.Fatalf("NewGettextParser: %v", err)
	}

	entries, err := NewWalker(p, "deps").Walk(root)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	var got []string
	for _, e := range entries {
		rel, _ := filepath.Rel(root, e.Path)
		got = append(got, filepath.ToSlash(rel))
	}
	want := []string{"a/deep/y.ex", "a/z.ex", "b.ex", "c.exs"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkMissingRoot(t *testing.T) {
	p, _ := parser.NewGettextParser(parser.Options{})
	_, err := NewWalker(p).Walk(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestWalkRootIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.ex")
	writeFile(t, path, "")
	p, _ := parser.NewGettextParser(parser.Options{})
	if _, err := NewWalker(p).Walk(path); err == nil {
		t.Fatalf("expected error when root is a file")
	}
}
