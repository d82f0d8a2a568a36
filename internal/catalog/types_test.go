package catalog

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIndexAddAppendsAnchorsAndKeepsFirstFunction(t *testing.T) {
	ix := NewIndex()
	if !ix.Add("Save", "gettext", Anchor{Path: "a.ts", Line: 2}) {
		t.Fatalf("expected first Add to create the entry")
	}
	if ix.Add("Save", "pgettext", Anchor{Path: "a.ts", Line: 5}) {
		t.Fatalf("expected second Add to append, not create")
	}

	got, ok := ix.Get("Save")
	if !ok {
		t.Fatalf("expected entry for Save")
	}
	want := Entry{
		ID:       "Save",
		Anchors:  []Anchor{{Path: "a.ts", Line: 2}, {Path: "a.ts", Line: 5}},
		Function: "gettext",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestIndexEntriesPreserveInsertionOrder(t *testing.T) {
	ix := NewIndex()
	for _, id := range []string{"c", "a", "b", "a"} {
		ix.Add(id, "gettext", Anchor{Path: "f", Line: 1})
	}

	var ids []string
	for _, e := range ix.Entries() {
		ids = append(ids, e.ID)
	}
	if diff := cmp.Diff([]string{"c", "a", "b"}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestIndexEntriesAreSnapshots(t *testing.T) {
	ix := NewIndex()
	ix.Add("x", "gettext", Anchor{Path: "f", Line: 1})

	entries := ix.Entries()
	entries[0].Anchors[0].Line = 99

	got, _ := ix.Get("x")
	if got.Anchors[0].Line != 1 {
		t.Fatalf("mutating a snapshot changed the index: line=%d", got.Anchors[0].Line)
	}
}

func TestIndexDelete(t *testing.T) {
	ix := NewIndex()
	ix.Add("a", "gettext", Anchor{Path: "f", Line: 1})
	ix.Add("b", "gettext", Anchor{Path: "f", Line: 2})

	if !ix.Delete("a") {
		t.Fatalf("expected Delete to report removal")
	}
	if ix.Delete("a") {
		t.Fatalf("expected second Delete to report absence")
	}
	if ix.Len() != 1 || ix.Has("a") || !ix.Has("b") {
		t.Fatalf("unexpected index state after delete: %#v", ix.Entries())
	}
}

func TestIndexJSONRoundTripKeepsOrder(t *testing.T) {
	ix := NewIndex()
	ix.Add("zeta", "gettext", Anchor{Path: "a.ex", Line: 3})
	ix.Add("alpha", "ngettext", Anchor{Path: "b.ex", Line: 7})
	ix.Add("zeta", "gettext", Anchor{Path: "c.ex", Line: 1})

	data, err := json.Marshal(ix)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	restored := NewIndex()
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(ix.Entries(), restored.Entries()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestIndexUnmarshalRejectsEmptyAnchors(t *testing.T) {
	data := []byte(`[["x", {"id": "x", "anchors": [], "function": "gettext"}]]`)
	if err := json.Unmarshal(data, NewIndex()); err == nil {
		t.Fatalf("expected error for entry without anchors")
	}
}

func TestAnchorString(t *testing.T) {
	if got := (Anchor{Path: "lib/app.ex", Line: 12}).String(); got != "lib/app.ex:12" {
		t.Fatalf("expected lib/app.ex:12, got %q", got)
	}
}

func TestIndexReplacePath(t *testing.T) {
	ix := NewIndex()
	ix.Add("keep", "gettext", Anchor{Path: "a.ex", Line: 1})
	ix.Add("shared", "gettext", Anchor{Path: "a.ex", Line: 2})
	ix.Add("shared", "gettext", Anchor{Path: "b.ex", Line: 9})
	ix.Add("gone", "gettext", Anchor{Path: "b.ex", Line: 3})
	ix.Add("tail", "gettext", Anchor{Path: "a.ex", Line: 4})

	removed := ix.ReplacePath("b.ex", []Occurrence{
		{ID: "shared", Function: "gettext", Anchor: Anchor{Path: "b.ex", Line: 10}},
		{ID: "new", Function: "ngettext", Anchor: Anchor{Path: "b.ex", Line: 11}},
	})
	if removed != 1 {
		t.Fatalf("expected 1 removed entry, got %d", removed)
	}

	want := []Entry{
		{ID: "keep", Function: "gettext", Anchors: []Anchor{{Path: "a.ex", Line: 1}}},
		{ID: "shared", Function: "gettext", Anchors: []Anchor{{Path: "a.ex", Line: 2}, {Path: "b.ex", Line: 10}}},
		{ID: "tail", Function: "gettext", Anchors: []Anchor{{Path: "a.ex", Line: 4}}},
		{ID: "new", Function: "ngettext", Anchors: []Anchor{{Path: "b.ex", Line: 11}}},
	}
	if diff := cmp.Diff(want, ix.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}
