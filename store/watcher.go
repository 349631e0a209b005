package store

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/randalmurphal/promptkit/prompt"
)

// Update reports a changed document inside a watched repository.
type Update struct {
	// Filename is the document's name inside the repository.
	Filename string

	// Removed is true when the document was deleted or renamed away.
	Removed bool
}

// Watch observes a repository in a local store and sends an Update for
// every document file that is written, created, removed, or renamed.
// The watch is established before Watch returns, so a write that lands
// immediately after is observed. The channel is closed when the context
// is cancelled. Uses fsnotify with a polling fallback.
func (l *Local) Watch(ctx context.Context, repoID string) (<-chan Update, error) {
	dir, err := l.path(repoID, "placeholder")
	if err != nil {
		return nil, err
	}
	dir = filepath.Dir(dir)
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}

	ch := make(chan Update, 16)

	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		if err = watcher.Add(dir); err != nil {
			watcher.Close()
		}
	}
	if err != nil {
		go func() {
			defer close(ch)
			watchPolling(ctx, dir, ch)
		}()
		return ch, nil
	}

	go func() {
		defer close(ch)
		defer watcher.Close()
		watchEvents(ctx, watcher, ch)
	}()
	return ch, nil
}

func watchEvents(ctx context.Context, watcher *fsnotify.Watcher, ch chan<- Update) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			name := filepath.Base(event.Name)
			if _, err := prompt.FormatForPath(name); err != nil {
				continue
			}

			var update Update
			switch {
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				update = Update{Filename: name, Removed: true}
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				update = Update{Filename: name}
			default:
				continue
			}

			select {
			case ch <- update:
			case <-ctx.Done():
				return
			}

		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
			// Usually recoverable; keep watching.
		}
	}
}

// watchPolling diffs directory snapshots on a ticker.
func watchPolling(ctx context.Context, dir string, ch chan<- Update) {
	previous := snapshot(dir)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			current := snapshot(dir)
			for name, modTime := range current {
				if prev, ok := previous[name]; !ok || !prev.Equal(modTime) {
					select {
					case ch <- Update{Filename: name}:
					case <-ctx.Done():
						return
					}
				}
			}
			for name := range previous {
				if _, ok := current[name]; !ok {
					select {
					case ch <- Update{Filename: name, Removed: true}:
					case <-ctx.Done():
						return
					}
				}
			}
			previous = current
		}
	}
}

func snapshot(dir string) map[string]time.Time {
	out := make(map[string]time.Time)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return out
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := prompt.FormatForPath(entry.Name()); err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out[entry.Name()] = info.ModTime()
	}
	return out
}
