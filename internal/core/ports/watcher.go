package ports

import "context"

// WatchOp represents the type of file system operation.
type WatchOp uint8

const (
	// OpCreate indicates a file was created.
	OpCreate WatchOp = iota
	// OpWrite indicates a file was modified.
	OpWrite
	// OpRemove indicates a file was removed.
	OpRemove
	// OpRename indicates a file was renamed.
	OpRename
)

// WatchEvent represents a file system event from the watcher.
type WatchEvent struct {
	// Path is the absolute path of the file that changed.
	Path string
	// Operation is the type of change that occurred.
	Operation WatchOp
}

// Watcher watches the workspace's presets files and reports debounced
// change batches so the controller can rebuild its preset layers.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start begins watching the given file paths.
	Start(ctx context.Context, paths []string) error

	// Stop stops the watcher and releases all resources.
	Stop() error

	// Changes returns a channel receiving one batch of coalesced events
	// per debounce window.
	Changes() <-chan []WatchEvent
}
