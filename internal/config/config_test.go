package config

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gettext-scanner/internal/parser"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"GETTEXT_ROOT", "GETTEXT_SCAN_PATH", "GETTEXT_PO_FILES_PATH", "GETTEXT_DATA_DIR",
		"GETTEXT_FILE_EXTENSIONS", "GETTEXT_FUNCTIONS", "GOOGLE_TRANSLATE_ENABLED", "WORKER_COUNT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.ScanPath != "lib" || cfg.POFilesPath != "priv/gettext" || cfg.DataDir != "data" {
		t.Fatalf("unexpected path defaults: %+v", cfg)
	}
	if cfg.FileExtensions != nil {
		t.Fatalf("expected no extension filter, got %v", cfg.FileExtensions)
	}
	if diff := cmp.Diff(parser.DefaultFunctions, cfg.Functions); diff != "" {
		t.Fatalf("functions mismatch (-want +got):\n%s", diff)
	}
	if cfg.GoogleTranslateEnabled {
		t.Fatal("expected translation disabled by default")
	}
	if cfg.WorkerCount != 4 {
		t.Fatalf("expected 4 workers, got %d", cfg.WorkerCount)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GETTEXT_FILE_EXTENSIONS", ".ex, .heex")
	t.Setenv("GETTEXT_FUNCTIONS", "gettext,ngettext")
	t.Setenv("GOOGLE_TRANSLATE_ENABLED", "true")
	t.Setenv("WORKER_COUNT", "not-a-number")

	cfg := Load()
	if diff := cmp.Diff([]string{".ex", ".heex"}, cfg.FileExtensions); diff != "" {
		t.Fatalf("extensions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"gettext", "ngettext"}, cfg.Functions); diff != "" {
		t.Fatalf("functions mismatch (-want +got):\n%s", diff)
	}
	if !cfg.GoogleTranslateEnabled {
		t.Fatal("expected translation enabled")
	}
	if cfg.WorkerCount != 4 {
		t.Fatalf("expected fallback worker count, got %d", cfg.WorkerCount)
	}
}

func TestResolve(t *testing.T) {
	cfg := &Config{Root: "/work"}
	if got := cfg.Resolve("lib"); got != filepath.Join("/work", "lib") {
		t.Fatalf("expected /work/lib, got %s", got)
	}
	if got := cfg.Resolve("/abs/lib"); got != "/abs/lib" {
		t.Fatalf("expected absolute path unchanged, got %s", got)
	}
}
