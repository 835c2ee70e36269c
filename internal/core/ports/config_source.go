package ports

import "go.trai.ch/crest/internal/core/domain"

// PresetsFile is one presets file exactly as parsed: its schema version, its
// include list, and its five preset lists in declaration order. Every preset
// is tagged with its origin (path, version, user flag) by the source.
type PresetsFile struct {
	Path     string
	Version  int
	Includes []string

	ConfigurePresets []*domain.ConfigurePreset
	BuildPresets     []*domain.BuildPreset
	TestPresets      []*domain.TestPreset
	PackagePresets   []*domain.PackagePreset
	WorkflowPresets  []*domain.WorkflowPreset
}

// PresetsGraph is one origin's file plus its resolved include chain.
type PresetsGraph struct {
	// Root is the entry file as parsed, before include flattening.
	Root *PresetsFile

	// Files lists the root and every transitively included file in
	// depth-first inclusion order, deduplicated.
	Files []*PresetsFile

	// Flattened concatenates all preset lists across Files in inclusion
	// order. Lookups resolve against this layer.
	Flattened *PresetsFile
}

// ConfigSource loads preset configuration for a workspace folder.
//
//go:generate mockgen -source=config_source.go -destination=mocks/mock_config_source.go -package=mocks
type ConfigSource interface {
	// Load reads the project presets file and the user overlay file from
	// the workspace folder and resolves their include chains. Either
	// result may be nil when the corresponding file does not exist.
	Load(dir string) (project, user *PresetsGraph, err error)

	// DiscoverConfigPaths returns the presets file paths that affect the
	// workspace, mapped to their mtime in UnixNano, for watching.
	DiscoverConfigPaths(dir string) (map[string]int64, error)
}
