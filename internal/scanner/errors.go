package scanner

import "errors"

var (
	// ErrPathNotFound marks a configuration error: a scan directory, catalog
	// directory, locale directory or single file that does not exist.
	ErrPathNotFound = errors.New("path not found")
	// ErrUnknownMsgID is returned when an operation names an identifier
	// missing from the scan index.
	ErrUnknownMsgID = errors.New("unknown msgid")
	// ErrNoLocale is returned when a catalog append names no locale.
	ErrNoLocale = errors.New("no locale selected")
	// ErrInvalidLocale is returned for a locale that is not a single
	// directory name under the catalog root.
	ErrInvalidLocale = errors.New("invalid locale")
)
