package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/crest/internal/adapters/logger"
	"go.trai.ch/crest/internal/core/ports"
)

const (
	// SettingsNodeID is the unique identifier for the settings Graft node.
	SettingsNodeID graft.ID = "adapter.settings"

	// SourceNodeID is the unique identifier for the presets source Graft node.
	SourceNodeID graft.ID = "adapter.config_source"
)

func init() {
	graft.Register(graft.Node[*Settings]{
		ID:        SettingsNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Settings, error) {
			workspace, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			return LoadSettings(workspace)
		},
	})

	graft.Register(graft.Node[ports.ConfigSource]{
		ID:        SourceNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ConfigSource, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewSource(log), nil
		},
	})
}
