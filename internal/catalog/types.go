// Package catalog holds the message-identifier data model shared by the scanner
// and the catalog writers: anchors, entries and the insertion-ordered index.
package catalog

import (
	"encoding/json"
	"fmt"
)

// FunctionCatalog is recorded as the originating function of entries read
// from an existing catalog file rather than from source code.
const FunctionCatalog = "<catalog>"

// Anchor is one physical occurrence of a message identifier.
type Anchor struct {
	// Path is the file the identifier was found in.
	Path string `json:"path"`
	// Line is the 1-based line number.
	Line int `json:"line"`
}

// String renders the anchor as "path:line".
func (a Anchor) String() string {
	return fmt.Sprintf("%s:%d", a.Path, a.Line)
}

// Entry is a message identifier with every place it occurs.
type Entry struct {
	// ID is the unescaped msgid.
	ID string `json:"id"`
	// Anchors are kept in discovery order.
	Anchors []Anchor `json:"anchors"`
	// Function is the first call name the identifier was seen with.
	Function string `json:"function"`
}

func (e Entry) clone() Entry {
	e.Anchors = append([]Anchor(nil), e.Anchors...)
	return e
}

// Index maps identifiers to entries and remembers insertion order.
// It is not safe for concurrent use; owners serialize access.
type Index struct {
	order   []string
	entries map[string]*Entry
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{entries: make(map[string]*Entry)}
}

// Add records one occurrence of id. The entry is created on first sight and
// keeps that first function name; later occurrences only append anchors.
// It reports whether a new entry was created.
func (ix *Index) Add(id, function string, anchor Anchor) bool {
	if e, ok := ix.entries[id]; ok {
		e.Anchors = append(e.Anchors, anchor)
		return false
	}
	ix.entries[id] = &Entry{ID: id, Anchors: []Anchor{anchor}, Function: function}
	ix.order = append(ix.order, id)
	return true
}

// Has reports whether id is present.
func (ix *Index) Has(id string) bool {
	_, ok := ix.entries[id]
	return ok
}

// Get returns a copy of the entry for id.
func (ix *Index) Get(id string) (Entry, bool) {
	e, ok := ix.entries[id]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// Delete removes id and reports whether it was present.
func (ix *Index) Delete(id string) bool {
	if _, ok := ix.entries[id]; !ok {
		return false
	}
	delete(ix.entries, id)
	for i, k := range ix.order {
		if k == id {
			ix.order = append(ix.order[:i], ix.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of distinct identifiers.
func (ix *Index) Len() int {
	return len(ix.order)
}

// Clear drops every entry.
func (ix *Index) Clear() {
	ix.order = nil
	ix.entries = make(map[string]*Entry)
}

// Entries returns copies of all entries in insertion order.
func (ix *Index) Entries() []Entry {
	out := make([]Entry, 0, len(ix.order))
	for _, id := range ix.order {
		out = append(out, ix.entries[id].clone())
	}
	return out
}

// Clone returns a deep copy.
func (ix *Index) Clone() *Index {
	c := NewIndex()
	for _, e := range ix.Entries() {
		entry := e
		c.entries[e.ID] = &entry
		c.order = append(c.order, e.ID)
	}
	return c
}

// MarshalJSON encodes the index as an ordered list of [id, entry] pairs.
func (ix *Index) MarshalJSON() ([]byte, error) {
	pairs := make([][2]any, 0, len(ix.order))
	for _, id := range ix.order {
		pairs = append(pairs, [2]any{id, ix.entries[id]})
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON decodes the [id, entry] pair list written by MarshalJSON.
func (ix *Index) UnmarshalJSON(data []byte) error {
	var pairs []json.RawMessage
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("decode index: %w", err)
	}

	ix.Clear()
	for i, raw := range pairs {
		var pair []json.RawMessage
		if err := json.Unmarshal(raw, &pair); err != nil || len(pair) != 2 {
			return fmt.Errorf("decode index pair %d: malformed", i)
		}
		var id string
		if err := json.Unmarshal(pair[0], &id); err != nil {
			return fmt.Errorf("decode index pair %d id: %w", i, err)
		}
		var e Entry
		if err := json.Unmarshal(pair[1], &e); err != nil {
			return fmt.Errorf("decode index pair %d entry: %w", i, err)
		}
		if len(e.Anchors) == 0 || ix.Has(id) {
			return fmt.Errorf("decode index pair %d: invalid entry %q", i, id)
		}
		e.ID = id
		ix.entries[id] = &e
		ix.order = append(ix.order, id)
	}
	return nil
}

// Occurrence is one identifier found at one anchor.
type Occurrence struct {
	ID       string
	Function string
	Anchor   Anchor
}

// ReplacePath swaps the contribution of a single file: anchors under path
// are dropped, occs are recorded, and entries left without any anchor are
// removed. Surviving entries keep their position. It returns the number of
// entries removed.
func (ix *Index) ReplacePath(path string, occs []Occurrence) int {
	for _, e := range ix.entries {
		kept := e.Anchors[:0]
		for _, a := range e.Anchors {
			if a.Path != path {
				kept = append(kept, a)
			}
		}
		e.Anchors = kept
	}

	for _, oc := range occs {
		ix.Add(oc.ID, oc.Function, oc.Anchor)
	}

	removed := 0
	order := ix.order[:0]
	for _, id := range ix.order {
		if len(ix.entries[id].Anchors) == 0 {
			delete(ix.entries, id)
			removed++
			continue
		}
		order = append(order, id)
	}
	ix.order = order
	return removed
}
