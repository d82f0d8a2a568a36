package catalog

import "testing"

func TestFormatEntry(t *testing.T) {
	e := Entry{
		ID:       "hello",
		Anchors:  []Anchor{{Path: "a.ts", Line: 3}, {Path: "b.ts", Line: 7}},
		Function: "gettext",
	}

	tests := []struct {
		name   string
		msgstr string
		want   string
	}{
		{
			name: "empty msgstr",
			want: "#: a.ts:3\r\n#: b.ts:7\r\nmsgid \"hello\"\r\nmsgstr \"\"\r\n\r\n",
		},
		{
			name:   "translated msgstr",
			msgstr: "bonjour",
			want:   "#: a.ts:3\r\n#: b.ts:7\r\nmsgid \"hello\"\r\nmsgstr \"bonjour\"\r\n\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatEntry(e, tt.msgstr); got != tt.want {
				t.Errorf("FormatEntry() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatConcatenatesInIndexOrder(t *testing.T) {
	ix := NewIndex()
	ix.Add("b", "gettext", Anchor{Path: "x", Line: 1})
	ix.Add("a", "gettext", Anchor{Path: "y", Line: 2})

	want := "#: x:1\r\nmsgid \"b\"\r\nmsgstr \"\"\r\n\r\n" +
		"#: y:2\r\nmsgid \"a\"\r\nmsgstr \"\"\r\n\r\n"
	if got := Format(ix); got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}

func TestFormatEmptyIndex(t *testing.T) {
	if got := Format(NewIndex()); got != "" {
		t.Fatalf("expected empty fragment, got %q", got)
	}
}
