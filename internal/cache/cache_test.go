package cache

import (
	"context"
	"testing"
)

func TestMemoryOnlyCache(t *testing.T) {
	ctx := context.Background()
	c := NewTranslationCache(nil)

	if err := c.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema without pool: %v", err)
	}
	if _, ok := c.Get(ctx, "fr", "Save"); ok {
		t.Fatalf("expected miss on empty cache")
	}

	if err := c.Set(ctx, "fr", "Save", "Enregistrer"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, ok := c.Get(ctx, "fr", "Save"); !ok || got != "Enregistrer" {
		t.Fatalf("expected Enregistrer, got %q (ok=%v)", got, ok)
	}
	if _, ok := c.Get(ctx, "de", "Save"); ok {
		t.Fatalf("expected locales to be cached separately")
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
	if err := c.Preload(ctx); err != nil {
		t.Fatalf("Preload without pool: %v", err)
	}
}
