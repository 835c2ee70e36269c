package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/crest/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Settings is the tool's own configuration, read from crest.yaml in the
// workspace folder. All fields are optional.
type Settings struct {
	// DevEnv controls the developer toolchain environment overlay:
	// "never", "auto" or "always". Defaults to auto.
	DevEnv string `yaml:"devEnv"`

	// LogJSON forces JSON log output regardless of TTY detection.
	LogJSON *bool `yaml:"logJson"`

	// DebounceMs is the watcher debounce window in milliseconds.
	DebounceMs int `yaml:"debounceMs"`

	// SourceDir overrides the cmake source directory, which otherwise
	// defaults to the workspace folder.
	SourceDir string `yaml:"sourceDir"`

	// Locator overrides the toolchain locator binary. Defaults to vswhere.
	Locator string `yaml:"locator"`
}

// DefaultDebounceMs is the watcher debounce window when unset.
const DefaultDebounceMs = 300

// LoadSettings reads crest.yaml from the workspace folder. A missing file
// yields defaults.
func LoadSettings(dir string) (*Settings, error) {
	settings := &Settings{DebounceMs: DefaultDebounceMs}

	path := filepath.Join(dir, domain.SettingsFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSettingsParseFailed.Error()), "path", path)
	}
	if settings.DebounceMs <= 0 {
		settings.DebounceMs = DefaultDebounceMs
	}
	if _, err := settings.DevEnvMode(); err != nil {
		return nil, domain.With(err, "path", path)
	}
	return settings, nil
}

// DevEnvMode parses and validates the configured developer environment mode.
func (s *Settings) DevEnvMode() (domain.DevEnvMode, error) {
	return domain.ParseDevEnvMode(s.DevEnv)
}
