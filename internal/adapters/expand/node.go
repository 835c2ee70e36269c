package expand

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/crest/internal/core/ports"
)

// NodeID is the unique identifier for the macro expander Graft node.
const NodeID graft.ID = "adapter.expand"

func init() {
	graft.Register(graft.Node[ports.MacroExpander]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.MacroExpander, error) {
			return New(), nil
		},
	})
}
