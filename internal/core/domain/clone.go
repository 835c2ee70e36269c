package domain

import (
	"maps"
	"slices"
)

// The resolver and expansion passes never mutate stored raw presets; they
// work on deep copies so that cached layers stay pristine across passes.

func (p *CommonPreset) cloneInto(out *CommonPreset) {
	*out = *p
	out.Inherits = slices.Clone(p.Inherits)
	out.Condition = p.Condition.Clone()
	out.Environment = p.Environment.Clone()
	out.Vendor = slices.Clone(p.Vendor)
	if p.Origin != nil {
		origin := *p.Origin
		out.Origin = &origin
	}
}

// Clone returns a deep copy of the preset.
func (p *ConfigurePreset) Clone() *ConfigurePreset {
	out := &ConfigurePreset{}
	*out = *p
	p.CommonPreset.cloneInto(&out.CommonPreset)
	out.Architecture = clonePtr(p.Architecture)
	out.Toolset = clonePtr(p.Toolset)
	if p.CacheVariables != nil {
		out.CacheVariables = maps.Clone(p.CacheVariables)
	}
	out.Warnings = clonePtr(p.Warnings)
	out.Errors = clonePtr(p.Errors)
	if p.Debug != nil {
		debug := *p.Debug
		out.Debug = &debug
	}
	if p.Trace != nil {
		trace := *p.Trace
		trace.Source = slices.Clone(p.Trace.Source)
		out.Trace = &trace
	}
	out.ParentEnvironment = p.ParentEnvironment.Clone()
	return out
}

// Clone returns a deep copy of the preset.
func (p *BuildPreset) Clone() *BuildPreset {
	out := &BuildPreset{}
	*out = *p
	p.CommonPreset.cloneInto(&out.CommonPreset)
	out.InheritConfigureEnvironment = clonePtr(p.InheritConfigureEnvironment)
	out.ParentEnvironment = p.ParentEnvironment.Clone()
	out.Jobs = clonePtr(p.Jobs)
	out.Targets = slices.Clone(p.Targets)
	out.CleanFirst = clonePtr(p.CleanFirst)
	out.Verbose = clonePtr(p.Verbose)
	out.NativeToolOptions = slices.Clone(p.NativeToolOptions)
	return out
}

// Clone returns a deep copy of the preset.
func (p *TestPreset) Clone() *TestPreset {
	out := &TestPreset{}
	*out = *p
	p.CommonPreset.cloneInto(&out.CommonPreset)
	out.InheritConfigureEnvironment = clonePtr(p.InheritConfigureEnvironment)
	out.ParentEnvironment = p.ParentEnvironment.Clone()
	if p.Filter != nil {
		filter := TestFilter{}
		filter.Include = clonePtr(p.Filter.Include)
		filter.Exclude = clonePtr(p.Filter.Exclude)
		out.Filter = &filter
	}
	if p.Output != nil {
		output := *p.Output
		out.Output = &output
	}
	if p.Execution != nil {
		execution := *p.Execution
		execution.Jobs = clonePtr(p.Execution.Jobs)
		execution.Timeout = clonePtr(p.Execution.Timeout)
		execution.Repeat = clonePtr(p.Execution.Repeat)
		out.Execution = &execution
	}
	return out
}

// Clone returns a deep copy of the preset.
func (p *PackagePreset) Clone() *PackagePreset {
	out := &PackagePreset{}
	*out = *p
	p.CommonPreset.cloneInto(&out.CommonPreset)
	out.InheritConfigureEnvironment = clonePtr(p.InheritConfigureEnvironment)
	out.ParentEnvironment = p.ParentEnvironment.Clone()
	out.Generators = slices.Clone(p.Generators)
	out.Configurations = slices.Clone(p.Configurations)
	if p.Variables != nil {
		out.Variables = maps.Clone(p.Variables)
	}
	return out
}

// Clone returns a deep copy of the preset.
func (p *WorkflowPreset) Clone() *WorkflowPreset {
	out := &WorkflowPreset{}
	*out = *p
	p.CommonPreset.cloneInto(&out.CommonPreset)
	out.Steps = slices.Clone(p.Steps)
	return out
}
