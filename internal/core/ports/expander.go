package ports

import "go.trai.ch/crest/internal/core/domain"

// ExpansionContext carries the flat variable namespace visible to ${...}
// macros plus the two environment overlays visible to $env{} and $penv{}.
type ExpansionContext struct {
	// WorkspaceFolder is the absolute path of the workspace root.
	WorkspaceFolder string

	// SourceDir is the cmake source directory, normally the workspace folder.
	SourceDir string

	// PresetName is the name of the preset being expanded.
	PresetName string

	// Generator is the resolved generator name, if any.
	Generator string

	// HostSystemName is the uname-style host OS name (Linux, Darwin, Windows).
	HostSystemName string

	// FileDir is the directory of the file the preset was declared in.
	// Only legal on schema version 4+.
	FileDir string

	// PathListSep is the platform path-list separator. Only legal on
	// schema version 5+.
	PathListSep string

	// Version is the schema version of the declaring file, gating
	// version-dependent macros.
	Version int

	// Env backs $env{NAME}: the preset's own environment. Lookups recurse
	// so entries may reference each other regardless of declaration order.
	Env domain.Environment

	// ParentEnv backs $penv{NAME}: the preset's parent environment.
	// Lookups do not recurse.
	ParentEnv domain.Environment
}

// ExpansionErrorHandler receives every expansion failure instead of an
// unwound error, so callers can accumulate diagnostics and continue.
type ExpansionErrorHandler func(err error, template string)

// MacroExpander substitutes ${macro}, $env{NAME} and $penv{NAME} references
// in a template string. It fails closed: unresolvable references expand to
// the empty string after reporting through the handler.
//
//go:generate mockgen -source=expander.go -destination=mocks/mock_expander.go -package=mocks
type MacroExpander interface {
	Expand(template string, ctx *ExpansionContext, onError ExpansionErrorHandler) string
}
