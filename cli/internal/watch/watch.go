// Package watch provides file watching functionality for query files.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sbelzile-nexapp/cotton/internal/debug"
)

// Debounce is the quiet period after the last write before the callback runs
var Debounce = 200 * time.Millisecond

// Watch calls onChange once, then again after every write to file, until
// ctx is done. Errors from onChange after the first call are logged and
// watching continues.
func Watch(ctx context.Context, file string, onChange func() error) error {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	if err := onChange(); err != nil {
		return fmt.Errorf("initial callback failed: %w", err)
	}

	debounceTimer := time.NewTimer(Debounce)
	debounceTimer.Stop()
	var debounceCh <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if eventPath, err := filepath.Abs(event.Name); err != nil || eventPath != absPath {
				continue
			}
			debounceTimer.Reset(Debounce)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			debounceCh = nil
			if err := onChange(); err != nil {
				debug.Warn("watch callback failed", "file", absPath, "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			debug.Warn("watch error", "file", absPath, "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}
