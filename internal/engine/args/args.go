// Package args turns expanded presets into command lines for cmake, ctest
// and cpack. Synthesis is sparse: absent or false fields contribute no
// argument. Flag order follows the tools' documented flag groups so that the
// output is stable and diffable.
package args

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.trai.ch/crest/internal/core/domain"
)

// Configure synthesizes the cmake configure invocation for an expanded
// configure preset. sourceDir may be empty when the caller runs cmake from
// the source tree.
func Configure(p *domain.ConfigurePreset, sourceDir string) []string {
	var out []string
	if sourceDir != "" {
		out = append(out, "-S", sourceDir)
	}
	if p.BinaryDir != "" {
		out = append(out, "-B", p.BinaryDir)
	}
	if p.Generator != "" {
		out = append(out, "-G", p.Generator)
	}
	out = append(out, cacheVariableArgs(p.CacheVariables)...)
	if p.ToolchainFile != "" {
		out = append(out, "--toolchain", p.ToolchainFile)
	}
	if p.InstallDir != "" {
		out = append(out, "--install-prefix", p.InstallDir)
	}
	out = append(out, warningArgs(p.Warnings)...)
	out = append(out, errorArgs(p.Errors)...)
	out = append(out, debugArgs(p.Debug)...)
	out = append(out, traceArgs(p.Trace)...)
	return out
}

// cacheVariableArgs renders -D defines in variable-name order, typed entries
// as NAME:TYPE=VALUE.
func cacheVariableArgs(vars map[string]domain.CacheVariable) []string {
	if len(vars) == 0 {
		return nil
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]string, 0, 2*len(names))
	for _, name := range names {
		v := vars[name]
		if v.Type != "" {
			out = append(out, "-D", fmt.Sprintf("%s:%s=%s", name, v.Type, v.CacheValue()))
			continue
		}
		out = append(out, "-D", fmt.Sprintf("%s=%s", name, v.CacheValue()))
	}
	return out
}

func warningArgs(w *domain.WarningOptions) []string {
	if w == nil {
		return nil
	}
	var out []string
	if w.Dev != nil {
		if *w.Dev {
			out = append(out, "-Wdev")
		} else {
			out = append(out, "-Wno-dev")
		}
	}
	if w.Deprecated != nil {
		if *w.Deprecated {
			out = append(out, "-Wdeprecated")
		} else {
			out = append(out, "-Wno-deprecated")
		}
	}
	if w.Uninitialized {
		out = append(out, "--warn-uninitialized")
	}
	if w.UnusedCLI != nil && !*w.UnusedCLI {
		out = append(out, "--no-warn-unused-cli")
	}
	if w.SystemVars {
		out = append(out, "--check-system-vars")
	}
	return out
}

func errorArgs(e *domain.ErrorOptions) []string {
	if e == nil {
		return nil
	}
	var out []string
	if e.Dev != nil {
		if *e.Dev {
			out = append(out, "-Werror=dev")
		} else {
			out = append(out, "-Wno-error=dev")
		}
	}
	if e.Deprecated != nil {
		if *e.Deprecated {
			out = append(out, "-Werror=deprecated")
		} else {
			out = append(out, "-Wno-error=deprecated")
		}
	}
	return out
}

func debugArgs(d *domain.DebugOptions) []string {
	if d == nil {
		return nil
	}
	var out []string
	if d.Output {
		out = append(out, "--debug-output")
	}
	if d.TryCompile {
		out = append(out, "--debug-trycompile")
	}
	if d.Find {
		out = append(out, "--debug-find")
	}
	return out
}

func traceArgs(t *domain.TraceOptions) []string {
	if t == nil {
		return nil
	}
	var out []string
	switch t.Mode {
	case "on":
		out = append(out, "--trace")
	case "expand":
		out = append(out, "--trace-expand")
	}
	if t.Format != "" {
		out = append(out, "--trace-format="+t.Format)
	}
	for _, src := range t.Source {
		out = append(out, "--trace-source="+src)
	}
	if t.Redirect != "" {
		out = append(out, "--trace-redirect="+t.Redirect)
	}
	return out
}

// Build synthesizes the cmake --build invocation for an expanded build
// preset. The binary directory comes from the referenced configure preset.
func Build(p *domain.BuildPreset, cfg *domain.ConfigurePreset) []string {
	var out []string
	if cfg != nil && cfg.BinaryDir != "" {
		out = append(out, "--build", cfg.BinaryDir)
	}
	if p.Configuration != "" {
		out = append(out, "--config", p.Configuration)
	}
	if len(p.Targets) > 0 {
		out = append(out, "--target")
		out = append(out, p.Targets...)
	}
	if p.Jobs != nil {
		out = append(out, "--parallel", strconv.Itoa(*p.Jobs))
	}
	if p.CleanFirst != nil && *p.CleanFirst {
		out = append(out, "--clean-first")
	}
	if p.Verbose != nil && *p.Verbose {
		out = append(out, "--verbose")
	}
	if len(p.NativeToolOptions) > 0 {
		out = append(out, "--")
		out = append(out, p.NativeToolOptions...)
	}
	return out
}

// Test synthesizes the ctest invocation for an expanded test preset.
func Test(p *domain.TestPreset, cfg *domain.ConfigurePreset) []string {
	var out []string
	if cfg != nil && cfg.BinaryDir != "" {
		out = append(out, "--test-dir", cfg.BinaryDir)
	}
	if p.Configuration != "" {
		out = append(out, "-C", p.Configuration)
	}
	if p.Filter != nil {
		if inc := p.Filter.Include; inc != nil {
			if inc.Name != "" {
				out = append(out, "-R", inc.Name)
			}
			if inc.Label != "" {
				out = append(out, "-L", inc.Label)
			}
		}
		if exc := p.Filter.Exclude; exc != nil {
			if exc.Name != "" {
				out = append(out, "-E", exc.Name)
			}
			if exc.Label != "" {
				out = append(out, "-LE", exc.Label)
			}
		}
	}
	out = append(out, testOutputArgs(p.Output)...)
	out = append(out, testExecutionArgs(p.Execution)...)
	return out
}

func testOutputArgs(o *domain.TestOutput) []string {
	if o == nil {
		return nil
	}
	var out []string
	if o.OutputOnFailure {
		out = append(out, "--output-on-failure")
	}
	if o.StopOnFailure {
		out = append(out, "--stop-on-failure")
	}
	if o.Quiet {
		out = append(out, "-Q")
	}
	switch o.Verbosity {
	case "verbose":
		out = append(out, "-V")
	case "extra":
		out = append(out, "-VV")
	}
	if o.OutputLogFile != "" {
		out = append(out, "--output-log", o.OutputLogFile)
	}
	if o.TestOutputTruncation != "" {
		out = append(out, "--test-output-truncation", o.TestOutputTruncation)
	}
	return out
}

func testExecutionArgs(e *domain.TestExecution) []string {
	if e == nil {
		return nil
	}
	var out []string
	if e.Jobs != nil {
		out = append(out, "--parallel", strconv.Itoa(*e.Jobs))
	}
	if e.Repeat != nil {
		out = append(out, "--repeat", fmt.Sprintf("%s:%d", e.Repeat.Mode, e.Repeat.Count))
	}
	if e.Timeout != nil {
		out = append(out, "--timeout", strconv.Itoa(*e.Timeout))
	}
	if e.ScheduleRandom {
		out = append(out, "--schedule-random")
	}
	if e.NoTestsAction != "" && e.NoTestsAction != "default" {
		out = append(out, "--no-tests="+e.NoTestsAction)
	}
	return out
}

// Package synthesizes the cpack invocation for an expanded package preset.
// cpack runs inside the configure preset's binary directory, so the directory
// itself is not part of the argument list.
func Package(p *domain.PackagePreset) []string {
	var out []string
	if len(p.Generators) > 0 {
		out = append(out, "-G", strings.Join(p.Generators, ";"))
	}
	if len(p.Configurations) > 0 {
		out = append(out, "-C", strings.Join(p.Configurations, ";"))
	}
	if len(p.Variables) > 0 {
		names := make([]string, 0, len(p.Variables))
		for name := range p.Variables {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			out = append(out, "-D", fmt.Sprintf("%s=%s", name, p.Variables[name]))
		}
	}
	if p.ConfigFile != "" {
		out = append(out, "--config", p.ConfigFile)
	}
	if p.PackageDirectory != "" {
		out = append(out, "-B", p.PackageDirectory)
	}
	if p.PackageName != "" {
		out = append(out, "-D", "CPACK_PACKAGE_NAME="+p.PackageName)
	}
	if p.PackageVersion != "" {
		out = append(out, "-D", "CPACK_PACKAGE_VERSION="+p.PackageVersion)
	}
	if p.VendorName != "" {
		out = append(out, "-D", "CPACK_PACKAGE_VENDOR="+p.VendorName)
	}
	return out
}
