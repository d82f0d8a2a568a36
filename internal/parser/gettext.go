package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// DefaultFunctions are the gettext-family calls recognized when no override
// is configured.
var DefaultFunctions = []string{
	"gettext",
	"ngettext",
	"dgettext",
	"dngettext",
	"pgettext",
	"npgettext",
	"dpgettext",
	"dnpgettext",
}

// Capture group names a custom pattern must define.
const (
	GroupFunction = "function"
	GroupMsgID    = "msgid"
)

// Options configures what the GettextParser recognizes.
type Options struct {
	// Functions overrides DefaultFunctions when non-empty.
	Functions []string
	// Extensions is an allow-list such as ".ex"; empty or ".*" accepts every file.
	Extensions []string
	// Pattern replaces the generated expression. It must define the
	// "function" and "msgid" named groups.
	Pattern string
}

// Match is one recognized call site on a line.
type Match struct {
	Function string
	MsgID    string
}

// GettextParser finds translatable-string call sites in source files.
//
// Matching is lexical: a configured function name, optional whitespace, an
// optional "(", and a double-quoted literal as the first argument. Further
// arguments are ignored. Escape sequences inside the literal are kept
// verbatim, so `gettext("say \"hi\"")` yields the msgid `say \"hi\"`.
type GettextParser struct {
	expr      *regexp.Regexp
	fnGroup   int
	idGroup   int
	functions []string
	exts      map[string]bool
}

// NewGettextParser builds a parser from opts.
func NewGettextParser(opts Options) (*GettextParser, error) {
	functions := opts.Functions
	if len(functions) == 0 {
		functions = DefaultFunctions
	}

	pattern := opts.Pattern
	if pattern == "" {
		pattern = buildPattern(functions)
	}

	expr, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile call pattern: %w", err)
	}

	fnGroup := expr.SubexpIndex(GroupFunction)
	idGroup := expr.SubexpIndex(GroupMsgID)
	if fnGroup < 0 || idGroup < 0 {
		return nil, fmt.Errorf("call pattern %q must define (?P<%s>) and (?P<%s>) groups", pattern, GroupFunction, GroupMsgID)
	}

	p := &GettextParser{
		expr:      expr,
		fnGroup:   fnGroup,
		idGroup:   idGroup,
		functions: append([]string(nil), functions...),
	}

	for _, ext := range opts.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == ".*" {
			p.exts = nil
			break
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if p.exts == nil {
			p.exts = make(map[string]bool)
		}
		p.exts[ext] = true
	}

	return p, nil
}

// buildPattern joins the function names longest first so that a name which
// prefixes another never shadows it.
func buildPattern(functions []string) string {
	names := append([]string(nil), functions...)
	sort.SliceStable(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	alts := make([]string, 0, len(names))
	for _, name := range names {
		alt := regexp.QuoteMeta(name)
		if r := []rune(name); len(r) > 0 && (unicode.IsLetter(r[0]) || unicode.IsDigit(r[0]) || r[0] == '_') {
			alt = `\b` + alt
		}
		alts = append(alts, alt)
	}

	return fmt.Sprintf(`(?P<%s>%s)\s*\(?\s*"(?P<%s>(?:[^"\\]|\\.)*)"`,
		GroupFunction, strings.Join(alts, "|"), GroupMsgID)
}

// Functions returns the configured call names.
func (p *GettextParser) Functions() []string {
	return append([]string(nil), p.functions...)
}

// CanParse reports whether ext passes the extension allow-list.
func (p *GettextParser) CanParse(ext string) bool {
	if p.exts == nil {
		return true
	}
	return p.exts[strings.ToLower(ext)]
}

// MatchLine returns every non-overlapping call site on line, left to right.
func (p *GettextParser) MatchLine(line string) []Match {
	found := p.expr.FindAllStringSubmatch(line, -1)
	if len(found) == 0 {
		return nil
	}
	matches := make([]Match, 0, len(found))
	for _, m := range found {
		matches = append(matches, Match{Function: m[p.fnGroup], MsgID: m[p.idGroup]})
	}
	return matches
}

// Parse extracts every call site in the file.
func (p *GettextParser) Parse(filePath string) (*ParseResult, error) {
	result := &ParseResult{
		FilePath: filePath,
		FileType: "source",
	}

	err := scanLines(filePath, func(lineNum int, line string) {
		for _, m := range p.MatchLine(line) {
			result.Texts = append(result.Texts, ExtractedText{
				Text:     m.MsgID,
				File:     filePath,
				Line:     lineNum,
				Function: m.Function,
			})
		}
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
