package catalog

import "strings"

// LineEnding terminates every line of formatted catalog output.
const LineEnding = "\r\n"

// FormatEntry renders one catalog block: an anchor comment per occurrence,
// the msgid, the msgstr and a blank separator line. The identifier is
// written as-is; quotes are not escaped at this layer.
func FormatEntry(e Entry, msgstr string) string {
	var sb strings.Builder
	for _, a := range e.Anchors {
		sb.WriteString("#: ")
		sb.WriteString(a.String())
		sb.WriteString(LineEnding)
	}
	sb.WriteString(`msgid "`)
	sb.WriteString(e.ID)
	sb.WriteString(`"` + LineEnding)
	sb.WriteString(`msgstr "`)
	sb.WriteString(msgstr)
	sb.WriteString(`"` + LineEnding)
	sb.WriteString(LineEnding)
	return sb.String()
}

// Format concatenates the blocks of every entry in index order with empty
// msgstr values. An empty index yields an empty fragment.
func Format(ix *Index) string {
	var sb strings.Builder
	for _, e := range ix.Entries() {
		sb.WriteString(FormatEntry(e, ""))
	}
	return sb.String()
}
