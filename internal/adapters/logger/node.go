package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/crest/internal/adapters/detector"
	"go.trai.ch/crest/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			level := slog.LevelInfo
			if os.Getenv("CREST_DEBUG") != "" {
				level = slog.LevelDebug
			}
			log := NewAt(level)
			if detector.DetectEnvironment() == detector.FormatJSON {
				log.SetJSON(true)
			}
			return log, nil
		},
	})
}
