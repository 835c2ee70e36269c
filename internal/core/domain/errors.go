package domain

import "go.trai.ch/zerr"

// With attaches a key/value pair to err while keeping err reachable through
// errors.Is. zerr.With on a *zerr.Error returns a detached copy that no
// longer unwraps to the original, so the error is first pushed down the
// chain as the cause of a message-less wrapper; repeated calls attach their
// pairs to that same wrapper.
func With(err error, key string, value any) error {
	if err == nil {
		return nil
	}
	if m, ok := err.(interface{ Message() string }); ok && m.Message() == "" {
		return zerr.With(err, key, value)
	}
	return zerr.With(zerr.Wrap(err, ""), key, value)
}

var (
	// ErrUnsupportedVersion is returned when a presets file declares schema version 1 or lower.
	ErrUnsupportedVersion = zerr.New("unsupported presets file version")

	// ErrVersionGatedField is returned when a preset uses a field its file's schema version does not allow.
	ErrVersionGatedField = zerr.New("field requires a newer presets file version")

	// ErrPresetNotFound is returned when a named preset does not exist in any visible origin.
	ErrPresetNotFound = zerr.New("preset not found")

	// ErrPresetDisabled is returned when a preset exists but is hidden or its condition does not hold.
	ErrPresetDisabled = zerr.New("preset is hidden or disabled by its condition")

	// ErrCircularInheritance is returned when a preset inherits from itself, directly or transitively.
	ErrCircularInheritance = zerr.New("circular inheritance detected")

	// ErrConditionMissingProperty is returned when a condition object lacks a required property.
	ErrConditionMissingProperty = zerr.New("missing condition property")

	// ErrInvalidConditionType is returned when a condition declares an unrecognized type.
	ErrInvalidConditionType = zerr.New("invalid condition type")

	// ErrInvalidConditionRegex is returned when a matches condition carries an unparsable regex.
	ErrInvalidConditionRegex = zerr.New("invalid condition regex")

	// ErrInvalidWorkflowFirstStep is returned when a workflow's first step is not a configure step.
	ErrInvalidWorkflowFirstStep = zerr.New("workflow must start with a configure step")

	// ErrWorkflowIncompatible is returned when a workflow step references a different configure preset than step 0.
	ErrWorkflowIncompatible = zerr.New("workflow step is incompatible with the workflow's configure preset")

	// ErrResolutionInFlight is returned when a resolution pass is requested while another is running.
	ErrResolutionInFlight = zerr.New("a preset resolution pass is already in flight")

	// ErrNoConfigurePreset is returned when a build, test or package preset ends up
	// without a configure preset reference after inheritance is merged.
	ErrNoConfigurePreset = zerr.New("preset does not reference a configure preset")

	// ErrDuplicatePresetName is returned when two presets of the same kind share a name within one origin.
	ErrDuplicatePresetName = zerr.New("duplicate preset name")

	// ErrConfigReadFailed is returned when a presets file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read presets file")

	// ErrConfigParseFailed is returned when a presets file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse presets file")

	// ErrIncludeCycle is returned when presets files include each other in a cycle.
	ErrIncludeCycle = zerr.New("include cycle detected")

	// ErrIncludeNotFound is returned when an included presets file does not exist.
	ErrIncludeNotFound = zerr.New("included presets file not found")

	// ErrIncludeOutsideScope is returned when a project presets file includes the user presets file.
	ErrIncludeOutsideScope = zerr.New("project presets file may not include the user presets file")

	// ErrMacroCycle is returned when macro expansion recurses into itself.
	ErrMacroCycle = zerr.New("macro expansion cycle detected")

	// ErrUnknownMacro is returned when a template references an unrecognized macro.
	ErrUnknownMacro = zerr.New("unknown macro")

	// ErrUnterminatedMacro is returned when a template opens a macro without closing it.
	ErrUnterminatedMacro = zerr.New("unterminated macro reference")

	// ErrToolchainNotFound is returned when no toolchain matches the requested tuple.
	ErrToolchainNotFound = zerr.New("toolchain not found")

	// ErrEnvCacheMiss is returned when a toolchain environment is not in the disk cache.
	ErrEnvCacheMiss = zerr.New("toolchain environment not cached")

	// ErrInvalidPresetKind is returned when a kind string does not name a preset kind.
	ErrInvalidPresetKind = zerr.New("invalid preset kind")

	// ErrStateReadFailed is returned when the selection state file cannot be read.
	ErrStateReadFailed = zerr.New("failed to read selection state")

	// ErrStateWriteFailed is returned when the selection state file cannot be written.
	ErrStateWriteFailed = zerr.New("failed to write selection state")

	// ErrSettingsParseFailed is returned when crest.yaml cannot be parsed.
	ErrSettingsParseFailed = zerr.New("failed to parse settings file")

	// ErrInvalidDevEnvMode is returned when a settings file carries an unknown dev environment mode.
	ErrInvalidDevEnvMode = zerr.New("invalid developer environment mode, expected 'never', 'auto' or 'always'")
)
