package scanner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gettext-scanner/internal/catalog"
	"gettext-scanner/internal/worker"

	"github.com/rs/zerolog/log"
)

// CatalogPath returns <catalogDir>/<locale>/LC_MESSAGES/default.po.
func CatalogPath(catalogDir, locale string) string {
	return filepath.Join(catalogDir, locale, "LC_MESSAGES", "default.po")
}

// AppendToCatalog appends the block for id to the default.po catalog of
// every locale and returns the files written. With translate set and a
// Translator configured, msgstr holds the machine translation whenever the
// lookup actually changed the text; otherwise it is empty. Lookups for all
// locales run concurrently; files are written one at a time.
func (o *Orchestrator) AppendToCatalog(ctx context.Context, id string, locales []string, translate bool) ([]string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	entry, ok := o.index.Get(id)
	if !ok {
		return nil, fmt.Errorf("append %q: %w", id, ErrUnknownMsgID)
	}
	if len(locales) == 0 {
		return nil, fmt.Errorf("append %q: %w", id, ErrNoLocale)
	}
	for _, locale := range locales {
		if locale == "" || locale == "." || locale == ".." || filepath.Base(locale) != locale {
			return nil, fmt.Errorf("append %q: %w: %q", id, ErrInvalidLocale, locale)
		}
		if err := requireDir(filepath.Join(o.cfg.CatalogDir, locale)); err != nil {
			return nil, fmt.Errorf("append %q to %s: %w", id, locale, err)
		}
	}

	msgstrs := o.translateAll(ctx, entry.ID, locales, translate)

	var written []string
	for i, locale := range locales {
		path := CatalogPath(o.cfg.CatalogDir, locale)
		if err := appendBlock(path, catalog.FormatEntry(entry, msgstrs[i])); err != nil {
			return written, fmt.Errorf("append %q to %s: %w", id, locale, err)
		}
		written = append(written, path)
		log.Info().Str("msgid", id).Str("locale", locale).Bool("translated", msgstrs[i] != "").Msg("Appended msgid to catalog")
	}
	return written, nil
}

func (o *Orchestrator) translateAll(ctx context.Context, text string, locales []string, translate bool) []string {
	msgstrs := make([]string, len(locales))
	if !translate || o.cfg.Translator == nil {
		return msgstrs
	}

	pool := worker.NewPool[string, string](o.cfg.Workers, func(ctx context.Context, locale string) (string, error) {
		return o.cfg.Translator.Translate(ctx, text, locale), nil
	})
	for _, r := range pool.Run(ctx, locales) {
		if r.Err == nil && r.Value != text {
			msgstrs[r.Index] = r.Value
		}
	}
	return msgstrs
}

// appendBlock appends block to path, creating it if needed and padding the
// existing content so exactly one blank line precedes the new block.
func appendBlock(path, block string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	sep, err := separator(f)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(sep + block); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return f.Close()
}

// separator inspects the tail of f and returns the line breaks needed so
// the content ends in a blank line.
func separator(f *os.File) (string, error) {
	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat catalog: %w", err)
	}
	if info.Size() == 0 {
		return "", nil
	}

	n := min(info.Size(), 4)
	tail := make([]byte, n)
	if _, err := f.ReadAt(tail, info.Size()-n); err != nil && err != io.EOF {
		return "", fmt.Errorf("read catalog tail: %w", err)
	}

	tail = bytes.ReplaceAll(tail, []byte("\r"), nil)
	switch {
	case bytes.HasSuffix(tail, []byte("\n\n")):
		return "", nil
	case bytes.HasSuffix(tail, []byte("\n")):
		return catalog.LineEnding, nil
	default:
		return catalog.LineEnding + catalog.LineEnding, nil
	}
}
