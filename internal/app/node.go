package app

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/crest/internal/adapters/config"
	"go.trai.ch/crest/internal/adapters/expand"
	"go.trai.ch/crest/internal/adapters/logger"
	"go.trai.ch/crest/internal/adapters/statestore"
	"go.trai.ch/crest/internal/adapters/telemetry"
	"go.trai.ch/crest/internal/adapters/toolchain"
	"go.trai.ch/crest/internal/adapters/watcher"
	"go.trai.ch/crest/internal/core/domain"
	"go.trai.ch/crest/internal/core/ports"
	"go.trai.ch/crest/internal/engine/presets"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.SettingsNodeID,
			config.SourceNodeID,
			logger.NodeID,
			expand.NodeID,
			toolchain.NodeID,
			statestore.NodeID,
			watcher.NodeID,
			telemetry.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.NodeID,
			config.SettingsNodeID,
		},
		Run: runComponentsNode,
	})
}

//nolint:cyclop // linear dependency gathering
func runAppNode(ctx context.Context) (*App, error) {
	settings, err := graft.Dep[*config.Settings](ctx)
	if err != nil {
		return nil, err
	}
	source, err := graft.Dep[ports.ConfigSource](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	engine, err := graft.Dep[ports.MacroExpander](ctx)
	if err != nil {
		return nil, err
	}
	provider, err := graft.Dep[ports.ToolchainProvider](ctx)
	if err != nil {
		return nil, err
	}
	selection, err := graft.Dep[ports.SelectionStore](ctx)
	if err != nil {
		return nil, err
	}
	watch, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	workspace, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	mode, err := settings.DevEnvMode()
	if err != nil {
		return nil, err
	}

	ambient := domain.EnvironmentFromStrings(os.Environ())
	devenv := presets.NewDevEnvResolver(provider, mode, ambient, log)
	controller := presets.NewController(workspace, settings.SourceDir, source, engine, devenv, tracer, log)

	return New(workspace, controller, selection, watch, source, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	settings, err := graft.Dep[*config.Settings](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:      application,
		Logger:   log,
		Tracer:   tracer,
		Settings: settings,
	}, nil
}
