package config

import "go.trai.ch/crest/internal/core/domain"

// presetsFileJSON mirrors the on-disk shape of CMakePresets.json and
// CMakeUserPresets.json. Preset lists decode directly into domain types;
// origins are attached by the loader after parsing.
type presetsFileJSON struct {
	Version          int                       `json:"version"`
	Include          []string                  `json:"include,omitempty"`
	ConfigurePresets []*domain.ConfigurePreset `json:"configurePresets,omitempty"`
	BuildPresets     []*domain.BuildPreset     `json:"buildPresets,omitempty"`
	TestPresets      []*domain.TestPreset      `json:"testPresets,omitempty"`
	PackagePresets   []*domain.PackagePreset   `json:"packagePresets,omitempty"`
	WorkflowPresets  []*domain.WorkflowPreset  `json:"workflowPresets,omitempty"`
}
