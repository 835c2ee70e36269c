package domain

import "path/filepath"

const (
	// PresetsFileName is the project-scope presets file.
	PresetsFileName = "CMakePresets.json"

	// UserPresetsFileName is the user-scope overlay presets file.
	UserPresetsFileName = "CMakeUserPresets.json"

	// SettingsFileName is the tool's own configuration file.
	SettingsFileName = "crest.yaml"

	// CrestDirName is the name of the internal state directory.
	CrestDirName = ".crest"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// EnvDirName is the name of the toolchain environment cache directory.
	EnvDirName = "environments"

	// StateFileName is the name of the persisted selection state file.
	StateFileName = "state.json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStatePath returns the selection state file path for a workspace.
func DefaultStatePath(workspace string) string {
	return filepath.Join(workspace, CrestDirName, StateFileName)
}

// DefaultEnvCachePath returns the toolchain environment cache directory for a workspace.
func DefaultEnvCachePath(workspace string) string {
	return filepath.Join(workspace, CrestDirName, CacheDirName, EnvDirName)
}

// DefaultBinaryDirPattern is the fallback binary directory template applied
// to configure presets that leave binaryDir unset on schema version 3+.
const DefaultBinaryDirPattern = "${sourceDir}/out/build/${presetName}"
