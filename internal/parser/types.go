package parser

// ExtractedText is one message identifier found on one line.
type ExtractedText struct {
	// Text is the msgid with its surrounding quotes removed.
	Text string
	// File is the source file path.
	File string
	// Line is the 1-based line number in the source file.
	Line int
	// Function is the recognized call name.
	Function string
}

// ParseResult holds parsing output for a single file.
type ParseResult struct {
	// FilePath is the path the file was read from.
	FilePath string
	// FileType is "source" or "catalog".
	FileType string
	// Texts are the extracted identifiers in line order.
	Texts []ExtractedText
}

// Parser is the interface for the source and catalog readers.
type Parser interface {
	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool
	// Parse extracts message identifiers from a file.
	Parse(filePath string) (*ParseResult, error)
}
