// Package watch monitors the knowledge document for changes while the
// daemon is serving.
package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/civika-labs/faqd/internal/logger"
)

// Watcher watches the source document and logs when the embedded cache has
// gone stale. It never reindexes on its own; the operator decides when to
// re-run ingestion.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// New creates a watcher for the given document path. The parent directory
// is watched rather than the file itself, so editors that replace the file
// on save (rename + create) are still detected.
func New(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	return &Watcher{
		path:    path,
		watcher: fsw,
	}, nil
}

// Run consumes filesystem events until the context is cancelled. Blocking;
// callers run it in a goroutine.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.concerns(event) {
				continue
			}
			logger.Warn("document %s changed on disk: the embedded cache is stale, re-run ingest and restart", w.path)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("document watcher error: %v", err)
		}
	}
}

// concerns reports whether the event touches the watched document with an
// operation that can change its content.
func (w *Watcher) concerns(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return false
	}
	return event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Remove) ||
		event.Op.Has(fsnotify.Rename)
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
