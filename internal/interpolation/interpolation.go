package interpolation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Mapping stores the original placeholder and its safe replacement.
type Mapping struct {
	Original    string
	Placeholder string
	Index       int
}

type varMatch struct {
	start, end int
	value      string
}

// patterns detect interpolations that must survive machine translation.
var patterns = []*regexp.Regexp{
	// %{count}, Elixir gettext bindings
	regexp.MustCompile(`%\{[a-zA-Z_][a-zA-Z0-9_]*\}`),
	// ${value}
	regexp.MustCompile(`\$\{[a-zA-Z_][a-zA-Z0-9_]*\}`),
	// {0}, {1}
	regexp.MustCompile(`\{[0-9]+\}`),
	// %d, %1$s, %.2f
	regexp.MustCompile(`%(?:[0-9]+\$)?[-+ #0]*[0-9]*(?:\.[0-9]+)?[dsfieEgGxXoubcpq]`),
	regexp.MustCompile(`%%`),
}

// Protect replaces every interpolation with a numbered [[N]] token and
// returns the mapping needed to restore them.
func Protect(text string) (string, []Mapping) {
	var all []varMatch
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			all = append(all, varMatch{start: loc[0], end: loc[1], value: text[loc[0]:loc[1]]})
		}
	}

	if len(all) == 0 {
		return text, nil
	}

	// Earliest first; on a tie the longest wins.
	sort.Slice(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return all[i].end-all[i].start > all[j].end-all[j].start
	})

	var kept []varMatch
	lastEnd := -1
	for _, m := range all {
		if m.start >= lastEnd {
			kept = append(kept, m)
			lastEnd = m.end
		}
	}

	var sb strings.Builder
	mappings := make([]Mapping, 0, len(kept))
	prev := 0
	for i, m := range kept {
		placeholder := fmt.Sprintf("[[%d]]", i+1)
		sb.WriteString(text[prev:m.start])
		sb.WriteString(placeholder)
		prev = m.end
		mappings = append(mappings, Mapping{Original: m.value, Placeholder: placeholder, Index: i + 1})
	}
	sb.WriteString(text[prev:])

	return sb.String(), mappings
}

// Restore puts the original interpolations back. Translators sometimes pad
// tokens with spaces, so "[[ 1 ]]" is accepted too.
func Restore(translated string, mappings []Mapping) string {
	result := translated
	for _, m := range mappings {
		loose := regexp.MustCompile(fmt.Sprintf(`\[\[\s*%d\s*\]\]`, m.Index))
		result = loose.ReplaceAllLiteralString(result, m.Original)
	}
	return result
}
