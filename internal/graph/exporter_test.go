package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"gettext-scanner/internal/catalog"
)

func TestAnchorRows(t *testing.T) {
	entries := []catalog.Entry{
		{ID: "Save", Function: "gettext", Anchors: []catalog.Anchor{{Path: "a.ex", Line: 2}, {Path: "b.ex", Line: 5}}},
		{ID: "Open", Function: "pgettext", Anchors: []catalog.Anchor{{Path: "a.ex", Line: 9}}},
	}

	want := []map[string]any{
		{"id": "Save", "function": "gettext", "path": "a.ex", "line": int64(2), "position": int64(0)},
		{"id": "Save", "function": "gettext", "path": "b.ex", "line": int64(5), "position": int64(1)},
		{"id": "Open", "function": "pgettext", "path": "a.ex", "line": int64(9), "position": int64(0)},
	}
	if diff := cmp.Diff(want, anchorRows(entries)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if rows := anchorRows(nil); rows != nil {
		t.Fatalf("expected no rows for empty index, got %v", rows)
	}
}
