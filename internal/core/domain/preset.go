// Package domain contains the core preset model: the five preset kinds,
// their inheritance and environment semantics, and the condition sublanguage.
package domain

import "encoding/json"

// PresetKind identifies one of the five preset kinds.
type PresetKind string

const (
	// KindConfigure is a configure-stage preset.
	KindConfigure PresetKind = "configure"
	// KindBuild is a build-stage preset.
	KindBuild PresetKind = "build"
	// KindTest is a test-stage preset.
	KindTest PresetKind = "test"
	// KindPackage is a package-stage preset.
	KindPackage PresetKind = "package"
	// KindWorkflow is an ordered composition of the other kinds.
	KindWorkflow PresetKind = "workflow"
)

// ParseKind converts a user-supplied kind string into a PresetKind.
func ParseKind(s string) (PresetKind, error) {
	switch PresetKind(s) {
	case KindConfigure, KindBuild, KindTest, KindPackage, KindWorkflow:
		return PresetKind(s), nil
	default:
		return "", With(ErrInvalidPresetKind, "kind", s)
	}
}

// Kinds lists all preset kinds in pipeline order.
func Kinds() []PresetKind {
	return []PresetKind{KindConfigure, KindBuild, KindTest, KindPackage, KindWorkflow}
}

// Origin records where a preset was declared.
type Origin struct {
	// Path is the absolute path of the declaring presets file.
	Path string
	// Version is the schema version of the declaring file. It gates which fields are legal.
	Version int
	// User reports whether the declaring file is the user overlay.
	User bool
}

// InheritList holds the parent preset names of a preset.
// The schema allows a scalar string as shorthand for a single-element list.
type InheritList []string

// UnmarshalJSON accepts either a string or a list of strings.
func (l *InheritList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = InheritList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = InheritList(many)
	return nil
}

// CommonPreset holds the fields shared by every preset kind.
//
// Name, Hidden, Inherits, DisplayName and Description are never inherited;
// everything else is subject to the per-kind inheritable-field tables in the
// resolver.
type CommonPreset struct {
	Name        string          `json:"name"`
	DisplayName string          `json:"displayName,omitempty"`
	Description string          `json:"description,omitempty"`
	Hidden      bool            `json:"hidden,omitempty"`
	Inherits    InheritList     `json:"inherits,omitempty"`
	Condition   *Condition      `json:"condition,omitempty"`
	Environment Environment     `json:"environment,omitempty"`
	Vendor      json.RawMessage `json:"vendor,omitempty"`

	// Origin is attached by the configuration source, not parsed from JSON.
	Origin *Origin `json:"-"`
}

// Common returns the shared fields of the preset.
func (p *CommonPreset) Common() *CommonPreset { return p }

// IsUserPreset reports whether the preset was declared in the user overlay file.
func (p *CommonPreset) IsUserPreset() bool {
	return p.Origin != nil && p.Origin.User
}

// FileVersion returns the schema version of the declaring file, or 0 when unknown.
func (p *CommonPreset) FileVersion() int {
	if p.Origin == nil {
		return 0
	}
	return p.Origin.Version
}

// Preset is implemented by all five concrete preset kinds.
type Preset interface {
	Common() *CommonPreset
	Kind() PresetKind
}

// ValueStrategy is an architecture or toolset setting: a value plus an
// optional strategy telling the build tool whether to apply it.
type ValueStrategy struct {
	Value    string `json:"value,omitempty"`
	Strategy string `json:"strategy,omitempty"`
}

// UnmarshalJSON accepts either a bare string or a {value, strategy} object.
func (v *ValueStrategy) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.Value = s
		return nil
	}
	type raw ValueStrategy
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*v = ValueStrategy(r)
	return nil
}

// WarningOptions maps to cmake's -W warning flag group.
type WarningOptions struct {
	Dev           *bool `json:"dev,omitempty"`
	Deprecated    *bool `json:"deprecated,omitempty"`
	Uninitialized bool  `json:"uninitialized,omitempty"`
	UnusedCLI     *bool `json:"unusedCli,omitempty"`
	SystemVars    bool  `json:"systemVars,omitempty"`
}

// ErrorOptions maps to cmake's -Werror flag group.
type ErrorOptions struct {
	Dev        *bool `json:"dev,omitempty"`
	Deprecated *bool `json:"deprecated,omitempty"`
}

// DebugOptions maps to cmake's --debug-* flag group.
type DebugOptions struct {
	Output     bool `json:"output,omitempty"`
	TryCompile bool `json:"tryCompile,omitempty"`
	Find       bool `json:"find,omitempty"`
}

// TraceOptions maps to cmake's --trace* flag group. Requires schema version 7.
type TraceOptions struct {
	Mode     string   `json:"mode,omitempty"`
	Format   string   `json:"format,omitempty"`
	Source   []string `json:"source,omitempty"`
	Redirect string   `json:"redirect,omitempty"`
}

// ConfigurePreset configures a source tree into a binary directory.
type ConfigurePreset struct {
	CommonPreset
	Generator      string                   `json:"generator,omitempty"`
	Architecture   *ValueStrategy           `json:"architecture,omitempty"`
	Toolset        *ValueStrategy           `json:"toolset,omitempty"`
	BinaryDir      string                   `json:"binaryDir,omitempty"`
	InstallDir     string                   `json:"installDir,omitempty"`
	ToolchainFile  string                   `json:"toolchainFile,omitempty"`
	CacheVariables map[string]CacheVariable `json:"cacheVariables,omitempty"`
	Warnings       *WarningOptions          `json:"warnings,omitempty"`
	Errors         *ErrorOptions            `json:"errors,omitempty"`
	Debug          *DebugOptions            `json:"debug,omitempty"`
	Trace          *TraceOptions            `json:"trace,omitempty"`

	// ParentEnvironment is the environment the preset layers on top of:
	// the ambient process environment, optionally overlaid with a developer
	// toolchain environment. Populated per resolution pass, never parsed.
	ParentEnvironment Environment `json:"-"`
}

// Kind returns KindConfigure.
func (p *ConfigurePreset) Kind() PresetKind { return KindConfigure }

// StageReference is embedded by the build, test and package kinds, which all
// reference exactly one configure preset.
type StageReference struct {
	ConfigurePreset             string `json:"configurePreset,omitempty"`
	InheritConfigureEnvironment *bool  `json:"inheritConfigureEnvironment,omitempty"`

	// ParentEnvironment mirrors ConfigurePreset.ParentEnvironment; it is
	// carried over from the referenced configure preset during resolution.
	ParentEnvironment Environment `json:"-"`
}

// InheritsConfigureEnvironment reports whether the configure preset's
// environment should be layered beneath this preset's own. Defaults to true.
func (r *StageReference) InheritsConfigureEnvironment() bool {
	return r.InheritConfigureEnvironment == nil || *r.InheritConfigureEnvironment
}

// Targets holds build target names; the schema allows a scalar shorthand.
type Targets []string

// UnmarshalJSON accepts either a string or a list of strings.
func (t *Targets) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = Targets{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*t = Targets(many)
	return nil
}

// BuildPreset drives the build stage of a configured binary directory.
type BuildPreset struct {
	CommonPreset
	StageReference
	Jobs              *int     `json:"jobs,omitempty"`
	Targets           Targets  `json:"targets,omitempty"`
	Configuration     string   `json:"configuration,omitempty"`
	CleanFirst        *bool    `json:"cleanFirst,omitempty"`
	Verbose           *bool    `json:"verbose,omitempty"`
	NativeToolOptions []string `json:"nativeToolOptions,omitempty"`
}

// Kind returns KindBuild.
func (p *BuildPreset) Kind() PresetKind { return KindBuild }

// TestFilterInclude selects tests to run.
type TestFilterInclude struct {
	Name  string `json:"name,omitempty"`
	Label string `json:"label,omitempty"`
}

// TestFilterExclude deselects tests.
type TestFilterExclude struct {
	Name  string `json:"name,omitempty"`
	Label string `json:"label,omitempty"`
}

// TestFilter groups test selection options.
type TestFilter struct {
	Include *TestFilterInclude `json:"include,omitempty"`
	Exclude *TestFilterExclude `json:"exclude,omitempty"`
}

// TestOutput groups ctest output options.
type TestOutput struct {
	OutputOnFailure      bool   `json:"outputOnFailure,omitempty"`
	StopOnFailure        bool   `json:"stopOnFailure,omitempty"`
	Quiet                bool   `json:"quiet,omitempty"`
	Verbosity            string `json:"verbosity,omitempty"`
	OutputLogFile        string `json:"outputLogFile,omitempty"`
	TestOutputTruncation string `json:"testOutputTruncation,omitempty"`
}

// TestRepeat tells ctest to re-run tests.
type TestRepeat struct {
	Mode  string `json:"mode"`
	Count int    `json:"count"`
}

// TestExecution groups ctest execution options.
type TestExecution struct {
	Jobs           *int        `json:"jobs,omitempty"`
	Timeout        *int        `json:"timeout,omitempty"`
	Repeat         *TestRepeat `json:"repeat,omitempty"`
	ScheduleRandom bool        `json:"scheduleRandom,omitempty"`
	NoTestsAction  string      `json:"noTestsAction,omitempty"`
}

// TestPreset drives the test stage of a configured binary directory.
type TestPreset struct {
	CommonPreset
	StageReference
	Configuration string         `json:"configuration,omitempty"`
	Filter        *TestFilter    `json:"filter,omitempty"`
	Output        *TestOutput    `json:"output,omitempty"`
	Execution     *TestExecution `json:"execution,omitempty"`
}

// Kind returns KindTest.
func (p *TestPreset) Kind() PresetKind { return KindTest }

// PackagePreset drives the package stage. Requires schema version 6.
type PackagePreset struct {
	CommonPreset
	StageReference
	Generators       []string          `json:"generators,omitempty"`
	Configurations   []string          `json:"configurations,omitempty"`
	Variables        map[string]string `json:"variables,omitempty"`
	ConfigFile       string            `json:"configFile,omitempty"`
	PackageName      string            `json:"packageName,omitempty"`
	PackageVersion   string            `json:"packageVersion,omitempty"`
	PackageDirectory string            `json:"packageDirectory,omitempty"`
	VendorName       string            `json:"vendorName,omitempty"`
}

// Kind returns KindPackage.
func (p *PackagePreset) Kind() PresetKind { return KindPackage }

// WorkflowStep is one stage of a workflow: its kind and the preset it runs.
type WorkflowStep struct {
	Type PresetKind `json:"type"`
	Name string     `json:"name"`
}

// WorkflowPreset composes other presets into an ordered pipeline.
// Step 0 must be a configure step; all later steps must reference, directly
// or through inheritance, the same configure preset.
type WorkflowPreset struct {
	CommonPreset
	Steps []WorkflowStep `json:"steps,omitempty"`
}

// Kind returns KindWorkflow.
func (p *WorkflowPreset) Kind() PresetKind { return KindWorkflow }
