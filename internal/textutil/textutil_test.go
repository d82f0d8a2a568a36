package textutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHashSeparatesParts(t *testing.T) {
	if Hash("ab", "c") == Hash("a", "bc") {
		t.Fatalf("expected different hashes for different part boundaries")
	}
	if Hash("fr", "Save") != Hash("fr", "Save") {
		t.Fatalf("expected stable hash")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"truncated", 5, "trunc..."},
		{"héllo wörld", 4, "héll..."},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" .ex, .heex ,,.exs ")
	if diff := cmp.Diff([]string{".ex", ".heex", ".exs"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if SplitList("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}
