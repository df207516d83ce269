// Package watch re-runs the build pipeline when project sources change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher observes a tuist project directory for source changes.
type Watcher struct {
	dir    string
	logger *slog.Logger

	// Debounce is how long to wait after the last change before firing.
	Debounce time.Duration

	// ready is closed once the watcher is registered, for tests.
	ready chan struct{}
}

// New creates a watcher rooted at the project directory.
func New(dir string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		dir:      dir,
		logger:   logger,
		Debounce: defaultDebounce,
	}
}

// Watch blocks until the context is cancelled, invoking onChange with the
// triggering path after each debounced batch of relevant file changes.
func (w *Watcher) Watch(ctx context.Context, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, w.dir); err != nil {
		return err
	}
	if w.ready != nil {
		close(w.ready)
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !shouldRebuild(event.Name) {
				continue
			}

			// Debounce
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.Debounce, func() {
				w.logger.Debug("source changed", "file", event.Name)
				onChange(event.Name)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// shouldRebuild reports whether a change to the file warrants a rebuild.
// Swift sources cover both app code and tuist manifests.
func shouldRebuild(path string) bool {
	return filepath.Ext(path) == ".swift"
}

// watchDirRecursive adds a directory and all subdirectories to the watcher,
// skipping hidden directories and the bazel-* convenience symlinks.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "bazel-")) {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}
