package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gettext-scanner/internal/catalog"
	"gettext-scanner/internal/filewalker"
	"gettext-scanner/internal/parser"
	"gettext-scanner/internal/snapshot"
	"gettext-scanner/internal/translation"

	"github.com/rs/zerolog/log"
)

// Config wires an Orchestrator to a workspace.
type Config struct {
	// ScanDir is the source tree searched for call sites.
	ScanDir string
	// CatalogDir holds the existing catalogs, one subdirectory per locale.
	CatalogDir string
	// DataDir receives index snapshots and the catalog fragment. Empty
	// disables persistence.
	DataDir string
	// AnchorBase, when set, makes anchor paths relative to it.
	AnchorBase string
	// Parser configures call-site recognition.
	Parser parser.Options
	// SkipDirs are directory names never descended into.
	SkipDirs []string
	// Translator fills msgstr values on catalog appends; nil disables it.
	Translator translation.Translator
	// Workers bounds concurrent translation lookups.
	Workers int
	// Progress is told about every file of a tree scan.
	Progress ProgressFunc
}

// Orchestrator owns the existing-catalog index and the scan index and runs
// every operation on them. Operations are serialized: a call made while
// another is running waits for it to finish.
type Orchestrator struct {
	mu sync.Mutex

	cfg      Config
	sources  *filewalker.Walker
	catalogs *filewalker.Walker
	gettext  *parser.GettextParser
	anchor   func(string) string
	existing *catalog.Index
	index    *catalog.Index
	lastScan time.Time
	now      func() time.Time
}

// New validates cfg and creates an Orchestrator with empty indices.
func New(cfg Config) (*Orchestrator, error) {
	gp, err := parser.NewGettextParser(cfg.Parser)
	if err != nil {
		return nil, err
	}

	for _, p := range []*string{&cfg.ScanDir, &cfg.CatalogDir, &cfg.DataDir, &cfg.AnchorBase} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", *p, err)
		}
		*p = abs
	}

	return &Orchestrator{
		cfg:      cfg,
		sources:  filewalker.NewWalker(gp, cfg.SkipDirs...),
		catalogs: filewalker.NewWalker(parser.NewPOParser(), cfg.SkipDirs...),
		gettext:  gp,
		anchor:   relativeTo(cfg.AnchorBase),
		existing: catalog.NewIndex(),
		index:    catalog.NewIndex(),
		now:      time.Now,
	}, nil
}

// LoadExisting rebuilds the existing-catalog index from CatalogDir and
// returns its size. If the build fails the previous index is kept; a
// persistence failure is returned with the new index installed.
func (o *Orchestrator) LoadExisting() (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loadExisting()
}

func (o *Orchestrator) loadExisting() (int, error) {
	ix, err := o.buildExisting()
	if err != nil {
		return 0, err
	}
	o.existing = ix
	return ix.Len(), o.persistExisting()
}

func (o *Orchestrator) buildExisting() (*catalog.Index, error) {
	b := &builder{walker: o.catalogs, anchor: o.anchor}
	ix, err := b.buildTree(o.cfg.CatalogDir)
	if err != nil {
		return nil, fmt.Errorf("load catalogs: %w", err)
	}
	log.Info().Str("dir", o.cfg.CatalogDir).Int("msgids", ix.Len()).Msg("Loaded existing catalogs")
	return ix, nil
}

// Scan rebuilds the scan index from ScanDir, skipping identifiers already in
// the existing-catalog index, persists the artifacts and returns the index
// size. A missing ScanDir leaves the current index untouched. A persistence
// failure is returned alongside the size; the new index is kept.
func (o *Orchestrator) Scan() (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ix, err := o.buildScan(o.existing)
	if err != nil {
		return 0, err
	}
	o.index = ix
	o.lastScan = o.now()
	return ix.Len(), o.persist()
}

func (o *Orchestrator) buildScan(skip *catalog.Index) (*catalog.Index, error) {
	b := &builder{walker: o.sources, anchor: o.anchor, skip: skip, progress: o.cfg.Progress}
	ix, err := b.buildTree(o.cfg.ScanDir)
	if err != nil {
		return nil, fmt.Errorf("scan sources: %w", err)
	}
	log.Info().Str("dir", o.cfg.ScanDir).Int("msgids", ix.Len()).Msg("Scan complete")
	return ix, nil
}

// Refresh reloads the existing catalogs and rescans. Both indices are built
// before either is replaced, so a failed build leaves the old ones in place.
// Persistence failures are returned after the new indices are installed.
func (o *Orchestrator) Refresh() (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := requireDir(o.cfg.CatalogDir); err != nil {
		return 0, fmt.Errorf("refresh: %w", err)
	}
	if err := requireDir(o.cfg.ScanDir); err != nil {
		return 0, fmt.Errorf("refresh: %w", err)
	}

	existing, err := o.buildExisting()
	if err != nil {
		return 0, err
	}
	ix, err := o.buildScan(existing)
	if err != nil {
		return 0, err
	}

	o.existing = existing
	o.index = ix
	o.lastScan = o.now()

	return ix.Len(), errors.Join(o.persistExisting(), o.persist())
}

// ScanFile rescans one file and merges it into the scan index: anchors the
// file contributed before are replaced by the ones found now. Files the
// extension filter rejects are ignored. It returns the index size.
func (o *Orchestrator) ScanFile(path string) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := requireFile(abs); err != nil {
		return 0, fmt.Errorf("scan file: %w", err)
	}

	if !o.gettext.CanParse(strings.ToLower(filepath.Ext(abs))) {
		log.Debug().Str("file", abs).Msg("Extension filtered, not scanning")
		return o.index.Len(), nil
	}

	res, err := o.gettext.Parse(abs)
	if err != nil {
		return 0, fmt.Errorf("scan file: %w", err)
	}

	b := &builder{anchor: o.anchor, skip: o.existing}
	removed := o.index.ReplacePath(o.anchor(abs), b.occurrences(res))

	log.Info().
		Str("file", abs).
		Int("found", len(res.Texts)).
		Int("removed", removed).
		Int("msgids", o.index.Len()).
		Msg("File rescanned")

	if err := o.persist(); err != nil {
		return o.index.Len(), err
	}
	return o.index.Len(), nil
}

// Delete removes id from the scan index and persists the result.
func (o *Orchestrator) Delete(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.index.Delete(id) {
		return fmt.Errorf("delete %q: %w", id, ErrUnknownMsgID)
	}
	log.Info().Str("msgid", id).Msg("Removed msgid from index")
	return o.persist()
}

// Restore replaces the scan index with the last persisted snapshot. It
// reports false when DataDir is unset or holds no snapshot.
func (o *Orchestrator) Restore() (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cfg.DataDir == "" {
		return false, nil
	}
	doc, err := snapshot.LoadIndex(filepath.Join(o.cfg.DataDir, snapshot.IndexFile))
	if err != nil || doc == nil {
		return false, err
	}
	o.index = doc.Entries
	o.lastScan = doc.ScannedAt
	return true, nil
}

func (o *Orchestrator) persistExisting() error {
	if o.cfg.DataDir == "" {
		return nil
	}
	path := filepath.Join(o.cfg.DataDir, snapshot.ExistingFile)
	if err := snapshot.SaveIndex(path, o.cfg.CatalogDir, o.now(), o.existing); err != nil {
		return fmt.Errorf("persist existing index: %w", err)
	}
	return nil
}

// persist writes the index snapshot and the catalog fragment.
func (o *Orchestrator) persist() error {
	if o.cfg.DataDir == "" {
		return nil
	}
	path := filepath.Join(o.cfg.DataDir, snapshot.IndexFile)
	if err := snapshot.SaveIndex(path, o.cfg.ScanDir, o.lastScan, o.index); err != nil {
		return fmt.Errorf("persist scan index: %w", err)
	}
	fragment := filepath.Join(o.cfg.DataDir, snapshot.FragmentFile)
	if err := snapshot.WriteAtomic(fragment, []byte(catalog.Format(o.index))); err != nil {
		return fmt.Errorf("persist catalog fragment: %w", err)
	}
	return nil
}

// Entries returns a point-in-time copy of the scan index.
func (o *Orchestrator) Entries() []catalog.Entry {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.index.Entries()
}

// Existing returns a point-in-time copy of the existing-catalog index.
func (o *Orchestrator) Existing() []catalog.Entry {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.existing.Entries()
}

// Get returns the scan index entry for id.
func (o *Orchestrator) Get(id string) (catalog.Entry, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.index.Get(id)
}

// Len returns the scan index size.
func (o *Orchestrator) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.index.Len()
}

// LastScan returns when the last full scan completed, or the zero time.
func (o *Orchestrator) LastScan() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastScan
}

// Config returns the resolved configuration.
func (o *Orchestrator) Config() Config {
	return o.cfg
}

// Locales lists the locale directories under CatalogDir.
func (o *Orchestrator) Locales() ([]string, error) {
	if err := requireDir(o.cfg.CatalogDir); err != nil {
		return nil, fmt.Errorf("list locales: %w", err)
	}
	dirents, err := os.ReadDir(o.cfg.CatalogDir)
	if err != nil {
		return nil, fmt.Errorf("list locales: %w", err)
	}
	var locales []string
	for _, d := range dirents {
		if d.IsDir() {
			locales = append(locales, d.Name())
		}
	}
	sort.Strings(locales)
	return locales, nil
}

// RemoveFile drops every anchor the file contributed, removing entries left
// without occurrences, and persists. Used when a watched file is deleted.
func (o *Orchestrator) RemoveFile(path string) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("resolve %s: %w", path, err)
	}
	removed := o.index.ReplacePath(o.anchor(abs), nil)
	log.Info().Str("file", abs).Int("removed", removed).Int("msgids", o.index.Len()).Msg("File dropped from index")

	if err := o.persist(); err != nil {
		return o.index.Len(), err
	}
	return o.index.Len(), nil
}
