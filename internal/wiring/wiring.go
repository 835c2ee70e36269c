// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/crest/internal/adapters/config"
	_ "go.trai.ch/crest/internal/adapters/expand"
	_ "go.trai.ch/crest/internal/adapters/logger"
	_ "go.trai.ch/crest/internal/adapters/statestore"
	_ "go.trai.ch/crest/internal/adapters/telemetry"
	_ "go.trai.ch/crest/internal/adapters/toolchain"
	_ "go.trai.ch/crest/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/crest/internal/app"
)
