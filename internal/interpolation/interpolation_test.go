package interpolation

import "testing"

func TestProtectRestore(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		protected string
		count     int
	}{
		{"plain text", "Save changes", "Save changes", 0},
		{"elixir binding", "%{count} files", "[[1]] files", 1},
		{"printf verbs", "%s of %d (%.1f%%)", "[[1]] of [[2]] ([[3]][[4]])", 4},
		{"positional", "{0} and {1}", "[[1]] and [[2]]", 2},
		{"template", "Hello ${name}", "Hello [[1]]", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, mappings := Protect(tt.in)
			if got != tt.protected {
				t.Fatalf("Protect(%q) = %q, want %q", tt.in, got, tt.protected)
			}
			if len(mappings) != tt.count {
				t.Fatalf("expected %d mappings, got %d", tt.count, len(mappings))
			}
			if back := Restore(got, mappings); back != tt.in {
				t.Fatalf("Restore() = %q, want %q", back, tt.in)
			}
		})
	}
}

func TestRestoreToleratesSpacing(t *testing.T) {
	_, mappings := Protect("%{count} fichiers")
	if got := Restore("[[ 1 ]] fichiers", mappings); got != "%{count} fichiers" {
		t.Fatalf("unexpected restore: %q", got)
	}
}
