package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursts of editor writes into one run.
const watchDebounce = 100 * time.Millisecond

// watch runs the linter once, then again whenever one of paths is written,
// until ctx is cancelled. Failed runs are reported and do not stop watching.
func (l *linter) watch(ctx context.Context, paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace files on save, so watch parent directories.
	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	var mu sync.Mutex
	rerun := func() {
		mu.Lock()
		defer mu.Unlock()
		if err := l.run(ctx, paths); err != nil && !errors.Is(err, ErrLintFailed) && ctx.Err() == nil {
			l.logger.Error("lint run failed", "error", err)
		}
	}

	rerun()

	// pending tracks scheduled and in-flight reruns; watch does not return
	// until they finish writing.
	var pending sync.WaitGroup
	var debounceTimer *time.Timer
	stopTimer := func() {
		if debounceTimer != nil && debounceTimer.Stop() {
			pending.Done()
		}
	}
	defer pending.Wait()
	defer stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !targets[abs] {
				continue
			}

			// Debounce
			stopTimer()
			pending.Add(1)
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				defer pending.Done()
				l.logger.Debug("file changed, re-linting", "file", event.Name)
				rerun()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Error("watcher error", "error", err)
		}
	}
}
