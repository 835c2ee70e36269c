package watcher

import (
	"context"
	"time"

	"github.com/grindlemire/graft"
	"go.trai.ch/crest/internal/adapters/config"
	"go.trai.ch/crest/internal/core/ports"
)

// NodeID is the unique identifier for the presets file watcher Graft node.
const NodeID graft.ID = "adapter.watcher"

// DefaultDebounceWindow is the time window for coalescing file events when
// crest.yaml does not configure one.
const DefaultDebounceWindow = 50 * time.Millisecond

func init() {
	graft.Register(graft.Node[ports.Watcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.Watcher, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}

			window := DefaultDebounceWindow
			if settings.DebounceMs > 0 {
				window = time.Duration(settings.DebounceMs) * time.Millisecond
			}
			return NewWatcher(window)
		},
	})
}
