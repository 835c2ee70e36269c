package app

import (
	"go.trai.ch/crest/internal/adapters/config"
	"go.trai.ch/crest/internal/core/ports"
)

// Components bundles the wired application objects the CLI needs.
type Components struct {
	App      *App
	Logger   ports.Logger
	Tracer   ports.Tracer
	Settings *config.Settings
}
