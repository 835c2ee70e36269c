package presets

import (
	"fmt"
	"path/filepath"

	"go.trai.ch/crest/internal/core/domain"
	"go.trai.ch/crest/internal/core/ports"
)

// Expander runs the macro expansion pass over resolved presets. The
// environment map is expanded first so that every other field sees the final
// environment through $env{}; expansion failures are reported through the
// handler and the affected reference expands to "".
type Expander struct {
	engine ports.MacroExpander
	logger ports.Logger

	workspaceFolder string
	sourceDir       string
}

// NewExpander returns an expansion pass bound to a workspace.
func NewExpander(engine ports.MacroExpander, workspaceFolder, sourceDir string, logger ports.Logger) *Expander {
	if sourceDir == "" {
		sourceDir = workspaceFolder
	}
	return &Expander{
		engine:          engine,
		logger:          logger,
		workspaceFolder: workspaceFolder,
		sourceDir:       sourceDir,
	}
}

func (e *Expander) contextFor(common *domain.CommonPreset, generator string, parentEnv domain.Environment) *ports.ExpansionContext {
	ctx := &ports.ExpansionContext{
		WorkspaceFolder: e.workspaceFolder,
		SourceDir:       e.sourceDir,
		PresetName:      common.Name,
		Generator:       generator,
		HostSystemName:  domain.HostSystemName(),
		PathListSep:     string(filepath.ListSeparator),
		Version:         common.FileVersion(),
		Env:             common.Environment,
		ParentEnv:       nil,
	}
	if common.Origin != nil {
		ctx.FileDir = filepath.Dir(common.Origin.Path)
	}
	ctx.ParentEnv = parentEnv
	return ctx
}

// expandEnvironment expands every entry of the environment in place of the
// context's env, so later field expansion resolves $env{} against final
// values. Explicit unsets (nil entries) pass through untouched.
func (e *Expander) expandEnvironment(ctx *ports.ExpansionContext, onError ports.ExpansionErrorHandler) domain.Environment {
	out := make(domain.Environment, len(ctx.Env))
	for name, value := range ctx.Env {
		if value == nil {
			out[name] = nil
			continue
		}
		expanded := e.engine.Expand(*value, ctx, onError)
		out[name] = &expanded
	}
	ctx.Env = out
	return out
}

func (e *Expander) str(ctx *ports.ExpansionContext, s string, onError ports.ExpansionErrorHandler) string {
	if s == "" {
		return s
	}
	return e.engine.Expand(s, ctx, onError)
}

func (e *Expander) strs(ctx *ports.ExpansionContext, in []string, onError ports.ExpansionErrorHandler) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = e.engine.Expand(s, ctx, onError)
	}
	return out
}

// expandCondition expands the string-bearing fields of a condition tree.
func (e *Expander) expandCondition(ctx *ports.ExpansionContext, c *domain.Condition, onError ports.ExpansionErrorHandler) *domain.Condition {
	if c == nil {
		return nil
	}
	out := c.Clone()
	if out.Lhs != nil {
		v := e.str(ctx, *out.Lhs, onError)
		out.Lhs = &v
	}
	if out.Rhs != nil {
		v := e.str(ctx, *out.Rhs, onError)
		out.Rhs = &v
	}
	if out.String != nil {
		v := e.str(ctx, *out.String, onError)
		out.String = &v
	}
	out.List = e.strs(ctx, out.List, onError)
	for i, sub := range out.Conditions {
		out.Conditions[i] = e.expandCondition(ctx, sub, onError)
	}
	out.Condition = e.expandCondition(ctx, out.Condition, onError)
	return out
}

// ExpandConfigure returns a copy of the preset with all macro references
// substituted. An empty binaryDir is defaulted before expansion on schema
// version 3 and later.
func (e *Expander) ExpandConfigure(p *domain.ConfigurePreset, onError ports.ExpansionErrorHandler) *domain.ConfigurePreset {
	out := p.Clone()
	if out.BinaryDir == "" && out.FileVersion() >= 3 {
		out.BinaryDir = domain.DefaultBinaryDirPattern
		e.logger.Debug(fmt.Sprintf("preset %q has no binaryDir, defaulting to %s", out.Name, out.BinaryDir))
	}
	ctx := e.contextFor(&out.CommonPreset, out.Generator, out.ParentEnvironment)
	out.Environment = e.expandEnvironment(ctx, onError)

	out.BinaryDir = e.str(ctx, out.BinaryDir, onError)
	out.InstallDir = e.str(ctx, out.InstallDir, onError)
	out.ToolchainFile = e.str(ctx, out.ToolchainFile, onError)
	for name, v := range out.CacheVariables {
		if v.IsBool() {
			continue
		}
		v.Value = e.str(ctx, v.Value, onError)
		out.CacheVariables[name] = v
	}
	out.Condition = e.expandCondition(ctx, out.Condition, onError)
	return out
}

// ExpandBuild returns a copy of the preset with all macro references substituted.
func (e *Expander) ExpandBuild(p *domain.BuildPreset, cfg *domain.ConfigurePreset, onError ports.ExpansionErrorHandler) *domain.BuildPreset {
	out := p.Clone()
	ctx := e.contextFor(&out.CommonPreset, generatorOf(cfg), out.ParentEnvironment)
	out.Environment = e.expandEnvironment(ctx, onError)

	out.Targets = e.strs(ctx, out.Targets, onError)
	out.NativeToolOptions = e.strs(ctx, out.NativeToolOptions, onError)
	out.Condition = e.expandCondition(ctx, out.Condition, onError)
	return out
}

// ExpandTest returns a copy of the preset with all macro references substituted.
func (e *Expander) ExpandTest(p *domain.TestPreset, cfg *domain.ConfigurePreset, onError ports.ExpansionErrorHandler) *domain.TestPreset {
	out := p.Clone()
	ctx := e.contextFor(&out.CommonPreset, generatorOf(cfg), out.ParentEnvironment)
	out.Environment = e.expandEnvironment(ctx, onError)

	if out.Filter != nil {
		if out.Filter.Include != nil {
			out.Filter.Include.Name = e.str(ctx, out.Filter.Include.Name, onError)
			out.Filter.Include.Label = e.str(ctx, out.Filter.Include.Label, onError)
		}
		if out.Filter.Exclude != nil {
			out.Filter.Exclude.Name = e.str(ctx, out.Filter.Exclude.Name, onError)
			out.Filter.Exclude.Label = e.str(ctx, out.Filter.Exclude.Label, onError)
		}
	}
	if out.Output != nil {
		out.Output.OutputLogFile = e.str(ctx, out.Output.OutputLogFile, onError)
	}
	out.Condition = e.expandCondition(ctx, out.Condition, onError)
	return out
}

// ExpandPackage returns a copy of the preset with all macro references substituted.
func (e *Expander) ExpandPackage(p *domain.PackagePreset, cfg *domain.ConfigurePreset, onError ports.ExpansionErrorHandler) *domain.PackagePreset {
	out := p.Clone()
	ctx := e.contextFor(&out.CommonPreset, generatorOf(cfg), out.ParentEnvironment)
	out.Environment = e.expandEnvironment(ctx, onError)

	for name, v := range out.Variables {
		out.Variables[name] = e.str(ctx, v, onError)
	}
	out.ConfigFile = e.str(ctx, out.ConfigFile, onError)
	out.PackageName = e.str(ctx, out.PackageName, onError)
	out.PackageVersion = e.str(ctx, out.PackageVersion, onError)
	out.PackageDirectory = e.str(ctx, out.PackageDirectory, onError)
	out.VendorName = e.str(ctx, out.VendorName, onError)
	out.Condition = e.expandCondition(ctx, out.Condition, onError)
	return out
}

// ExpandWorkflow returns a copy of the preset with its condition expanded.
// Workflow steps carry preset names verbatim.
func (e *Expander) ExpandWorkflow(p *domain.WorkflowPreset, onError ports.ExpansionErrorHandler) *domain.WorkflowPreset {
	out := p.Clone()
	ctx := e.contextFor(&out.CommonPreset, "", nil)
	out.Environment = e.expandEnvironment(ctx, onError)
	out.Condition = e.expandCondition(ctx, out.Condition, onError)
	return out
}

func generatorOf(cfg *domain.ConfigurePreset) string {
	if cfg == nil {
		return ""
	}
	return cfg.Generator
}

