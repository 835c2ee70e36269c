package presets

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/singleflight"

	"go.trai.ch/crest/internal/core/domain"
	"go.trai.ch/crest/internal/core/ports"
)

// compilerCacheVariables are the cache variables whose value names a compiler
// binary. They drive the auto-mode heuristic.
var compilerCacheVariables = []string{"CMAKE_C_COMPILER", "CMAKE_CXX_COMPILER"}

// devEnvCompilers are compiler binaries that only exist inside a developer
// command prompt.
var devEnvCompilers = map[string]bool{
	"cl":           true,
	"cl.exe":       true,
	"clang-cl":     true,
	"clang-cl.exe": true,
}

// DevEnvResolver computes the parent environment of configure presets: the
// ambient process environment, optionally overlaid with a developer toolchain
// environment. A failed probe degrades to the ambient environment with a
// warning; it never fails the resolution pass.
type DevEnvResolver struct {
	provider ports.ToolchainProvider
	logger   ports.Logger
	mode     domain.DevEnvMode
	ambient  domain.Environment

	// lookPath is swapped out by tests.
	lookPath func(file string) (string, error)

	group singleflight.Group
}

// NewDevEnvResolver returns a resolver over the given toolchain provider.
// The ambient environment is captured once; reloads reuse it.
func NewDevEnvResolver(provider ports.ToolchainProvider, mode domain.DevEnvMode, ambient domain.Environment, logger ports.Logger) *DevEnvResolver {
	return &DevEnvResolver{
		provider: provider,
		logger:   logger,
		mode:     mode,
		ambient:  ambient,
		lookPath: exec.LookPath,
	}
}

// ParentEnvironment returns the environment the preset layers on top of.
func (d *DevEnvResolver) ParentEnvironment(ctx context.Context, p *domain.ConfigurePreset) domain.Environment {
	if !d.wantsDevEnv(p) {
		return d.ambient.Clone()
	}
	overlay, err := d.overlay(ctx, p)
	if err != nil {
		d.logger.Warn(fmt.Sprintf("developer environment unavailable for preset %q, continuing with the ambient environment: %v", p.Name, err))
		return d.ambient.Clone()
	}
	return domain.MergeEnvironment(d.ambient, overlay)
}

func (d *DevEnvResolver) wantsDevEnv(p *domain.ConfigurePreset) bool {
	switch d.mode {
	case domain.DevEnvNever:
		return false
	case domain.DevEnvAlways:
		return true
	}
	for _, name := range compilerCacheVariables {
		v, ok := p.CacheVariables[name]
		if !ok || v.IsBool() {
			continue
		}
		compiler := filepath.Base(v.Value)
		if devEnvCompilers[strings.ToLower(compiler)] && !d.onPath(compiler) {
			return true
		}
	}
	if strings.Contains(p.Generator, "Ninja") && !d.onPath("ninja") {
		return true
	}
	return false
}

func (d *DevEnvResolver) onPath(binary string) bool {
	_, err := d.lookPath(binary)
	return err == nil
}

// overlay probes the toolchain provider for the preset's architecture and
// toolset tuple. Concurrent resolutions of presets sharing a tuple collapse
// into one probe.
func (d *DevEnvResolver) overlay(ctx context.Context, p *domain.ConfigurePreset) (domain.Environment, error) {
	req := ports.ToolchainRequest{HostArchitecture: hostArchitecture()}
	if p.Architecture != nil {
		req.TargetArchitecture = p.Architecture.Value
	}
	if p.Toolset != nil {
		req.ToolsetVersion = p.Toolset.Value
	}
	key := req.HostArchitecture + "\x00" + req.TargetArchitecture + "\x00" + req.ToolsetVersion
	v, err, _ := d.group.Do(key, func() (any, error) {
		return d.provider.Environment(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return v.(domain.Environment), nil
}

func hostArchitecture() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x64"
	case "386":
		return "x86"
	case "arm64":
		return "arm64"
	default:
		return runtime.GOARCH
	}
}
