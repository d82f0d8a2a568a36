package parser

import (
	"regexp"

	"gettext-scanner/internal/catalog"
)

// msgidPattern matches a single-line msgid. Continuation strings of
// multi-line msgids are not joined.
var msgidPattern = regexp.MustCompile(`^\s*msgid\s+"((?:[^"\\]|\\.)*)"\s*$`)

// POParser reads msgid lines out of existing catalog files.
type POParser struct{}

func NewPOParser() *POParser { return &POParser{} }

// CanParse accepts every file: catalogs are recognized by content.
func (p *POParser) CanParse(ext string) bool {
	return true
}

// Parse collects the msgid of every entry. The empty header msgid is skipped
// and malformed lines are silently ignored.
func (p *POParser) Parse(filePath string) (*ParseResult, error) {
	result := &ParseResult{
		FilePath: filePath,
		FileType: "catalog",
	}

	err := scanLines(filePath, func(lineNum int, line string) {
		m := msgidPattern.FindStringSubmatch(line)
		if m == nil || m[1] == "" {
			return
		}
		result.Texts = append(result.Texts, ExtractedText{
			Text:     m[1],
			File:     filePath,
			Line:     lineNum,
			Function: catalog.FunctionCatalog,
		})
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
