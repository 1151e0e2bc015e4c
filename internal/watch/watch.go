// Package watch reruns the build whenever the input file changes. Editors
// replace files with rename/create sequences, so the watcher observes the
// containing directory and filters events down to the input file.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tmorg/refbuilder/internal/logfields"
)

// Watcher monitors one input file and triggers debounced rebuilds.
type Watcher struct {
	input    string
	rebuild  func()
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// New creates a watcher for the input file. rebuild is invoked after each
// debounced change burst.
func New(input string, rebuild func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("resolve input path: %w", err)
	}

	return &Watcher{
		input:    abs,
		rebuild:  rebuild,
		watcher:  fsw,
		debounce: 500 * time.Millisecond,
	}, nil
}

// Run watches until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.watcher.Add(filepath.Dir(w.input)); err != nil {
		return fmt.Errorf("watch input directory: %w", err)
	}
	slog.Info("Watching input for changes", logfields.Input(w.input))

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(w.input) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Input change detected", logfields.Input(event.Name), slog.String("op", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.rebuild)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Watcher error", logfields.Error(err))
		}
	}
}
