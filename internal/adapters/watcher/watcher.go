// Package watcher implements file system watching for presets files.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unique"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/crest/internal/core/ports"
)

var _ ports.Watcher = (*Watcher)(nil)

const changesChannelBuffer = 16

// Watcher implements presets-file watching using fsnotify. It watches the
// parent directories of the requested paths rather than the files
// themselves, so creation and deletion of an optional user presets file is
// observed too.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	changes   chan []ports.WatchEvent

	mu      sync.Mutex
	watched map[unique.Handle[string]]struct{}
	closed  bool
}

// NewWatcher creates a new presets file watcher with the given debounce
// window.
func NewWatcher(window time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		changes:   make(chan []ports.WatchEvent, changesChannelBuffer),
		watched:   make(map[unique.Handle[string]]struct{}),
	}
	w.debouncer = NewDebouncer(window, w.emit)

	return w, nil
}

// Start begins watching the given file paths.
func (w *Watcher) Start(ctx context.Context, paths []string) error {
	w.mu.Lock()
	for _, path := range paths {
		w.watched[unique.Make(filepath.Clean(path))] = struct{}{}
	}
	w.mu.Unlock()

	// Watch each distinct parent directory once.
	dirs := make(map[string]struct{})
	for _, path := range paths {
		dirs[filepath.Dir(filepath.Clean(path))] = struct{}{}
	}
	for dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	return w.fsWatcher.Close()
}

// Changes returns a channel receiving one batch of coalesced events per
// debounce window.
func (w *Watcher) Changes() <-chan []ports.WatchEvent {
	return w.changes
}

// emit forwards a debounced batch to the changes channel. Batches are
// dropped when the consumer lags behind the buffer.
func (w *Watcher) emit(events []ports.WatchEvent) {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	select {
	case w.changes <- events:
	default:
	}
}

// interesting reports whether the event path is one of the watched files.
func (w *Watcher) interesting(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, ok := w.watched[unique.Make(filepath.Clean(path))]
	return ok
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.debouncer.Flush()
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				w.debouncer.Flush()
				return
			}

			if !w.interesting(event.Name) {
				continue
			}

			watchEvent := convertEvent(event)
			if watchEvent == nil {
				continue
			}
			w.debouncer.Add(*watchEvent)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				w.debouncer.Flush()
				return
			}
			fmt.Fprintf(os.Stderr, "watcher: file system error: %v\n", err)
		}
	}
}

// convertEvent converts an fsnotify event to a ports.WatchEvent.
func convertEvent(event fsnotify.Event) *ports.WatchEvent {
	path := event.Name

	if event.Op&fsnotify.Write == fsnotify.Write {
		return &ports.WatchEvent{
			Path:      path,
			Operation: ports.OpWrite,
		}
	}

	if event.Op&fsnotify.Create == fsnotify.Create {
		return &ports.WatchEvent{
			Path:      path,
			Operation: ports.OpCreate,
		}
	}

	if event.Op&fsnotify.Remove == fsnotify.Remove {
		return &ports.WatchEvent{
			Path:      path,
			Operation: ports.OpRemove,
		}
	}

	if event.Op&fsnotify.Rename == fsnotify.Rename {
		return &ports.WatchEvent{
			Path:      path,
			Operation: ports.OpRename,
		}
	}

	return nil
}
