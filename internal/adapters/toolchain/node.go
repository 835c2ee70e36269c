package toolchain

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/crest/internal/adapters/config"
	"go.trai.ch/crest/internal/core/domain"
	"go.trai.ch/crest/internal/core/ports"
)

// NodeID is the unique identifier for the toolchain provider Graft node.
const NodeID graft.ID = "adapter.toolchain"

// DefaultLocatorBinary is the locator executable probed when crest.yaml
// does not name one.
const DefaultLocatorBinary = "vswhere"

func init() {
	graft.Register(graft.Node[ports.ToolchainProvider]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.ToolchainProvider, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}

			locatorPath := settings.Locator
			if locatorPath == "" {
				locatorPath = DefaultLocatorBinary
			}

			workspace, err := os.Getwd()
			if err != nil {
				return nil, err
			}

			locator := NewCommandLocator(locatorPath)
			return NewProvider(locator, domain.DefaultEnvCachePath(workspace)), nil
		},
	})
}
