package presets

import (
	"context"

	"go.trai.ch/crest/internal/core/domain"
	"go.trai.ch/crest/internal/core/ports"
)

// passContext threads the cycle guard and memoization table through one
// top-level resolution call. The done table is consulted before the visiting
// set so that diamond-shaped inheritance resolves each shared ancestor once
// instead of tripping the cycle guard.
type passContext struct {
	visiting map[expandedKey]bool
	done     map[expandedKey]domain.Preset
}

func newPassContext() *passContext {
	return &passContext{
		visiting: map[expandedKey]bool{},
		done:     map[expandedKey]domain.Preset{},
	}
}

// Resolver applies multi-parent inheritance to raw presets. It never mutates
// the store's raw layers; every result is a deep copy with parent fields
// merged in.
type Resolver struct {
	store  *Store
	devenv *DevEnvResolver
	logger ports.Logger
}

// NewResolver returns a resolver over the given store. The devenv resolver
// supplies the parent environment of configure presets.
func NewResolver(store *Store, devenv *DevEnvResolver, logger ports.Logger) *Resolver {
	return &Resolver{store: store, devenv: devenv, logger: logger}
}

// kindOps parameterizes the shared resolution algorithm per preset kind.
type kindOps[P domain.Preset] struct {
	kind   domain.PresetKind
	lookup func(s *Store, name string, includeUser bool) (P, bool)
	clone  func(P) P

	// gate rejects fields the preset's declaring file version does not
	// support yet, before any inheritance work happens.
	gate func(p P, version int) error

	// merge copies each inheritable field of parent into child when the
	// child has not set it yet. Environments are handled by the caller.
	merge func(child, parent P)

	// finish runs after all parents are merged; the stage kinds use it to
	// resolve their configure preset reference and layer its environment.
	finish func(ctx context.Context, r *Resolver, pc *passContext, p P) error
}

func resolve[P domain.Preset](ctx context.Context, r *Resolver, pc *passContext, ops kindOps[P], name string, includeUser bool) (P, error) {
	var zero P
	key := expandedKey{ops.kind, name}
	if cached, ok := pc.done[key]; ok {
		return cached.(P), nil
	}
	if pc.visiting[key] {
		err := domain.With(domain.ErrCircularInheritance, "kind", string(ops.kind))
		return zero, domain.With(err, "preset", name)
	}
	raw, ok := ops.lookup(r.store, name, includeUser)
	if !ok {
		err := domain.With(domain.ErrPresetNotFound, "kind", string(ops.kind))
		return zero, domain.With(err, "preset", name)
	}
	version := raw.Common().FileVersion()
	if raw.Common().Condition != nil {
		if err := domain.CheckFeature(domain.FeatureCondition, version); err != nil {
			return zero, domain.With(err, "preset", name)
		}
	}
	if ops.gate != nil {
		if err := ops.gate(raw, version); err != nil {
			return zero, domain.With(err, "preset", name)
		}
	}
	pc.visiting[key] = true

	child := ops.clone(raw)
	common := child.Common()
	ownEnv := common.Environment

	// Project-declared presets may only inherit from the project layer;
	// user-declared presets may reach both layers.
	parentsFromUser := includeUser && common.IsUserPreset()

	inherited := domain.Environment{}
	for _, parentName := range common.Inherits {
		parent, err := resolve(ctx, r, pc, ops, parentName, parentsFromUser)
		if err != nil {
			return zero, domain.With(err, "inherited_by", name)
		}
		ops.merge(child, parent)
		inherited = domain.MergeEnvironment(inherited, parent.Common().Environment)
	}
	common.Environment = domain.MergeEnvironment(inherited, ownEnv)

	if ops.finish != nil {
		if err := ops.finish(ctx, r, pc, child); err != nil {
			return zero, err
		}
	}
	pc.done[key] = child
	return child, nil
}

var configureOps = kindOps[*domain.ConfigurePreset]{
	kind:   domain.KindConfigure,
	lookup: (*Store).ConfigurePreset,
	clone:  (*domain.ConfigurePreset).Clone,
	gate: func(p *domain.ConfigurePreset, version int) error {
		if p.ToolchainFile != "" {
			if err := domain.CheckFeature(domain.FeatureToolchainFile, version); err != nil {
				return err
			}
		}
		if p.InstallDir != "" {
			if err := domain.CheckFeature(domain.FeatureInstallDir, version); err != nil {
				return err
			}
		}
		if p.Trace != nil {
			if err := domain.CheckFeature(domain.FeatureTraceOptions, version); err != nil {
				return err
			}
		}
		return nil
	},
	merge: func(child, parent *domain.ConfigurePreset) {
		mergeCommon(&child.CommonPreset, &parent.CommonPreset)
		if child.Generator == "" {
			child.Generator = parent.Generator
		}
		if child.Architecture == nil {
			child.Architecture = clonePtr(parent.Architecture)
		}
		if child.Toolset == nil {
			child.Toolset = clonePtr(parent.Toolset)
		}
		if child.BinaryDir == "" {
			child.BinaryDir = parent.BinaryDir
		}
		if child.InstallDir == "" {
			child.InstallDir = parent.InstallDir
		}
		if child.ToolchainFile == "" {
			child.ToolchainFile = parent.ToolchainFile
		}
		// Inheritance merges whole fields. A child that declares
		// cacheVariables at all replaces the parent's map outright; only
		// an absent map is inherited.
		if child.CacheVariables == nil && parent.CacheVariables != nil {
			child.CacheVariables = make(map[string]domain.CacheVariable, len(parent.CacheVariables))
			for name, v := range parent.CacheVariables {
				child.CacheVariables[name] = v
			}
		}
		if child.Warnings == nil {
			child.Warnings = clonePtr(parent.Warnings)
		}
		if child.Errors == nil {
			child.Errors = clonePtr(parent.Errors)
		}
		if child.Debug == nil {
			child.Debug = clonePtr(parent.Debug)
		}
		if child.Trace == nil && parent.Trace != nil {
			trace := *parent.Trace
			child.Trace = &trace
		}
	},
	finish: func(ctx context.Context, r *Resolver, _ *passContext, p *domain.ConfigurePreset) error {
		p.ParentEnvironment = r.devenv.ParentEnvironment(ctx, p)
		return nil
	},
}

var buildOps = kindOps[*domain.BuildPreset]{
	kind:   domain.KindBuild,
	lookup: (*Store).BuildPreset,
	clone:  (*domain.BuildPreset).Clone,
	merge: func(child, parent *domain.BuildPreset) {
		mergeCommon(&child.CommonPreset, &parent.CommonPreset)
		mergeStageRef(&child.StageReference, &parent.StageReference)
		if child.Jobs == nil {
			child.Jobs = clonePtr(parent.Jobs)
		}
		if child.Targets == nil {
			child.Targets = append(domain.Targets(nil), parent.Targets...)
		}
		if child.Configuration == "" {
			child.Configuration = parent.Configuration
		}
		if child.CleanFirst == nil {
			child.CleanFirst = clonePtr(parent.CleanFirst)
		}
		if child.Verbose == nil {
			child.Verbose = clonePtr(parent.Verbose)
		}
		if child.NativeToolOptions == nil {
			child.NativeToolOptions = append([]string(nil), parent.NativeToolOptions...)
		}
	},
	finish: func(ctx context.Context, r *Resolver, pc *passContext, p *domain.BuildPreset) error {
		return r.finishStage(ctx, pc, &p.CommonPreset, &p.StageReference)
	},
}

var testOps = kindOps[*domain.TestPreset]{
	kind:   domain.KindTest,
	lookup: (*Store).TestPreset,
	clone:  (*domain.TestPreset).Clone,
	gate: func(p *domain.TestPreset, version int) error {
		if p.Output != nil && p.Output.TestOutputTruncation != "" {
			return domain.CheckFeature(domain.FeatureTestOutputTruncation, version)
		}
		return nil
	},
	merge: func(child, parent *domain.TestPreset) {
		mergeCommon(&child.CommonPreset, &parent.CommonPreset)
		mergeStageRef(&child.StageReference, &parent.StageReference)
		if child.Configuration == "" {
			child.Configuration = parent.Configuration
		}
		if child.Filter == nil && parent.Filter != nil {
			child.Filter = &domain.TestFilter{
				Include: clonePtr(parent.Filter.Include),
				Exclude: clonePtr(parent.Filter.Exclude),
			}
		}
		if child.Output == nil && parent.Output != nil {
			output := *parent.Output
			child.Output = &output
		}
		if child.Execution == nil && parent.Execution != nil {
			execution := *parent.Execution
			execution.Jobs = clonePtr(parent.Execution.Jobs)
			execution.Timeout = clonePtr(parent.Execution.Timeout)
			execution.Repeat = clonePtr(parent.Execution.Repeat)
			child.Execution = &execution
		}
	},
	finish: func(ctx context.Context, r *Resolver, pc *passContext, p *domain.TestPreset) error {
		return r.finishStage(ctx, pc, &p.CommonPreset, &p.StageReference)
	},
}

var packageOps = kindOps[*domain.PackagePreset]{
	kind:   domain.KindPackage,
	lookup: (*Store).PackagePreset,
	clone:  (*domain.PackagePreset).Clone,
	merge: func(child, parent *domain.PackagePreset) {
		mergeCommon(&child.CommonPreset, &parent.CommonPreset)
		mergeStageRef(&child.StageReference, &parent.StageReference)
		if child.Generators == nil {
			child.Generators = append([]string(nil), parent.Generators...)
		}
		if child.Configurations == nil {
			child.Configurations = append([]string(nil), parent.Configurations...)
		}
		// Same whole-field rule as configure cacheVariables: a declared
		// map replaces the parent's, an absent one is inherited.
		if child.Variables == nil && parent.Variables != nil {
			child.Variables = make(map[string]string, len(parent.Variables))
			for name, v := range parent.Variables {
				child.Variables[name] = v
			}
		}
		if child.ConfigFile == "" {
			child.ConfigFile = parent.ConfigFile
		}
		if child.PackageName == "" {
			child.PackageName = parent.PackageName
		}
		if child.PackageVersion == "" {
			child.PackageVersion = parent.PackageVersion
		}
		if child.PackageDirectory == "" {
			child.PackageDirectory = parent.PackageDirectory
		}
		if child.VendorName == "" {
			child.VendorName = parent.VendorName
		}
	},
	finish: func(ctx context.Context, r *Resolver, pc *passContext, p *domain.PackagePreset) error {
		return r.finishStage(ctx, pc, &p.CommonPreset, &p.StageReference)
	},
}

var workflowOps = kindOps[*domain.WorkflowPreset]{
	kind:   domain.KindWorkflow,
	lookup: (*Store).WorkflowPreset,
	clone:  (*domain.WorkflowPreset).Clone,
	merge: func(child, parent *domain.WorkflowPreset) {
		mergeCommon(&child.CommonPreset, &parent.CommonPreset)
		if child.Steps == nil {
			child.Steps = append([]domain.WorkflowStep(nil), parent.Steps...)
		}
	},
}

// mergeCommon copies the inheritable shared fields. Name, displayName,
// description, hidden and inherits never travel; environments are layered by
// the resolve loop.
func mergeCommon(child, parent *domain.CommonPreset) {
	if child.Condition == nil {
		child.Condition = parent.Condition.Clone()
	}
	if child.Vendor == nil && parent.Vendor != nil {
		child.Vendor = append([]byte(nil), parent.Vendor...)
	}
}

func mergeStageRef(child, parent *domain.StageReference) {
	if child.ConfigurePreset == "" {
		child.ConfigurePreset = parent.ConfigurePreset
	}
	if child.InheritConfigureEnvironment == nil {
		child.InheritConfigureEnvironment = clonePtr(parent.InheritConfigureEnvironment)
	}
}

// finishStage resolves the configure preset a build, test or package preset
// references, layers the configure environment beneath the preset's own when
// enabled, and carries the configure parent environment over.
func (r *Resolver) finishStage(ctx context.Context, pc *passContext, common *domain.CommonPreset, ref *domain.StageReference) error {
	if ref.ConfigurePreset == "" {
		return domain.With(domain.ErrNoConfigurePreset, "preset", common.Name)
	}
	cfg, err := resolve(ctx, r, pc, configureOps, ref.ConfigurePreset, common.IsUserPreset())
	if err != nil {
		return domain.With(err, "referenced_by", common.Name)
	}
	if ref.InheritsConfigureEnvironment() {
		common.Environment = domain.MergeEnvironment(cfg.Environment, common.Environment)
	}
	ref.ParentEnvironment = cfg.ParentEnvironment.Clone()
	return nil
}

// ResolveConfigure resolves a configure preset's inheritance chain.
func (r *Resolver) ResolveConfigure(ctx context.Context, pc *passContext, name string) (*domain.ConfigurePreset, error) {
	return resolve(ctx, r, pc, configureOps, name, true)
}

// ResolveBuild resolves a build preset's inheritance chain.
func (r *Resolver) ResolveBuild(ctx context.Context, pc *passContext, name string) (*domain.BuildPreset, error) {
	return resolve(ctx, r, pc, buildOps, name, true)
}

// ResolveTest resolves a test preset's inheritance chain.
func (r *Resolver) ResolveTest(ctx context.Context, pc *passContext, name string) (*domain.TestPreset, error) {
	return resolve(ctx, r, pc, testOps, name, true)
}

// ResolvePackage resolves a package preset's inheritance chain.
func (r *Resolver) ResolvePackage(ctx context.Context, pc *passContext, name string) (*domain.PackagePreset, error) {
	return resolve(ctx, r, pc, packageOps, name, true)
}

// ResolveWorkflow resolves a workflow preset's inheritance chain.
func (r *Resolver) ResolveWorkflow(ctx context.Context, pc *passContext, name string) (*domain.WorkflowPreset, error) {
	return resolve(ctx, r, pc, workflowOps, name, true)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
