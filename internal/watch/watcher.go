// Package watch reports saved and deleted files under a source tree so the
// scan index can be updated one file at a time.
package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeWritten ChangeKind = iota // created or saved
	ChangeRemoved                   // deleted or renamed away
)

func (k ChangeKind) String() string {
	if k == ChangeRemoved {
		return "removed"
	}
	return "written"
}

// Change is one debounced file event.
type Change struct {
	Kind ChangeKind
	File string // Absolute path
}

// Watcher monitors a directory tree using fsnotify. Directories created
// after Start are picked up automatically.
type Watcher struct {
	Dir     string
	Changes <-chan Change // Read-only external channel

	changes  chan Change
	stop     chan struct{}
	done     chan struct{}
	watcher  *fsnotify.Watcher
	skipDirs map[string]bool
	ignored  []string
	debounce time.Duration
}

// NewWatcher creates a watcher for dir. Directories named in skipDirs are
// not watched.
func NewWatcher(dir string, skipDirs ...string) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Change, 16)
	w := &Watcher{
		Dir:      abs,
		Changes:  ch,
		changes:  ch,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		watcher:  fw,
		skipDirs: make(map[string]bool),
		debounce: 100 * time.Millisecond,
	}
	for _, d := range skipDirs {
		w.skipDirs[d] = true
	}
	return w, nil
}

// Ignore drops every event at or below root. Call it before Start.
func (w *Watcher) Ignore(root string) {
	if abs, err := filepath.Abs(root); err == nil {
		w.ignored = append(w.ignored, abs)
	}
}

func (w *Watcher) isIgnored(path string) bool {
	for _, root := range w.ignored {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Start begins watching the tree.
func (w *Watcher) Start() error {
	if err := w.addTree(w.Dir); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel. Changes still inside
// the debounce window are dropped.
func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (w.skipDirs[d.Name()] || w.isIgnored(path)) {
			return fs.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			log.Warn().Err(err).Str("dir", path).Msg("Cannot watch directory")
		}
		return nil
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.isIgnored(event.Name) {
				continue
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !w.skipDirs[filepath.Base(event.Name)] {
						if err := w.addTree(event.Name); err != nil {
							log.Warn().Err(err).Str("dir", event.Name).Msg("Cannot watch new directory")
						}
					}
					continue
				}
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = time.Now()
			}

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			now := time.Now()
			for file, t := range pending {
				if now.Sub(t) >= w.debounce {
					if !w.emitChange(file) {
						return
					}
					delete(pending, file)
				}
			}

		case <-w.stop:
			return

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("Watch error")
		}
	}
}

// emitChange reports file and returns false once Stop has been called.
func (w *Watcher) emitChange(file string) bool {
	c := Change{Kind: ChangeWritten, File: file}
	info, err := os.Stat(file)
	switch {
	case err != nil:
		c.Kind = ChangeRemoved
	case info.IsDir():
		return true
	}

	select {
	case w.changes <- c:
		return true
	case <-w.stop:
		return false
	}
}
