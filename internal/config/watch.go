package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher signals when the config file changes on disk.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher watches the directory holding path. Editors often save by
// renaming a temp file over the original, which a file watch would miss.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch directory %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		watcher:  fsw,
		debounce: 200 * time.Millisecond,
	}, nil
}

// Watch returns a channel that receives one value per burst of changes to
// the config file. The channel is closed when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)

	go func() {
		defer close(out)

		// Debounce timer to coalesce rapid filesystem events
		debounceTimer := time.NewTimer(0)
		if !debounceTimer.Stop() {
			<-debounceTimer.C
		}
		pending := false

		for {
			select {
			case <-ctx.Done():
				debounceTimer.Stop()
				return

			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				pending = true
				debounceTimer.Reset(w.debounce)

			case <-debounceTimer.C:
				if !pending {
					continue
				}
				pending = false
				select {
				case out <- struct{}{}:
				default:
					// A reload is already queued.
				}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				// Log errors but keep watching
				log.Warn().Err(err).Str("component", "config_watcher").Msg("Watch error")
			}
		}
	}()

	return out
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// Close stops watching and cleans up resources.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
