// Package toolchain discovers installed compiler toolsets and computes the
// developer environment overlay a configure preset needs.
package toolchain

import (
	"context"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"go.trai.ch/crest/internal/core/ports"
	"go.trai.ch/zerr"
)

// Locator enumerates installed toolsets and captures the environment their
// setup script produces. Both operations shell out and are expected to be
// slow; the provider caches results.
type Locator interface {
	// Installations returns installed toolsets, newest version first.
	Installations(ctx context.Context) ([]ports.Toolchain, error)

	// DevEnvironment runs the toolset's environment setup for the given
	// request and returns the resulting variables as KEY=VALUE pairs.
	DevEnvironment(ctx context.Context, inst ports.Toolchain, req ports.ToolchainRequest) ([]string, error)
}

// CommandLocator implements Locator by invoking an external locator binary
// (vswhere-style) that reports installations as JSON, and a per-install
// setup script that prints the resulting environment.
type CommandLocator struct {
	// LocatorPath is the binary that enumerates installations.
	LocatorPath string

	// SetupRunner runs a toolset's environment script and returns the
	// process environment afterwards, one KEY=VALUE pair per line.
	// Overridable for tests.
	SetupRunner func(ctx context.Context, inst ports.Toolchain, req ports.ToolchainRequest) ([]byte, error)
}

// NewCommandLocator creates a locator backed by the given binary.
func NewCommandLocator(locatorPath string) *CommandLocator {
	l := &CommandLocator{LocatorPath: locatorPath}
	l.SetupRunner = l.runSetup
	return l
}

// locatorInstallation mirrors the JSON records the locator binary emits.
type locatorInstallation struct {
	DisplayName         string `json:"displayName"`
	InstallationPath    string `json:"installationPath"`
	InstallationVersion string `json:"installationVersion"`
}

// Installations invokes the locator binary and parses its JSON output.
func (l *CommandLocator) Installations(ctx context.Context) ([]ports.Toolchain, error) {
	//nolint:gosec // the locator path comes from trusted configuration
	cmd := exec.CommandContext(ctx, l.LocatorPath,
		"-products", "*",
		"-format", "json",
		"-utf8",
		"-sort",
	)
	output, err := cmd.Output()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to execute toolchain locator")
	}

	return ParseInstallations(output)
}

// ParseInstallations decodes the locator's JSON output into toolchains,
// sorted newest version first.
func ParseInstallations(data []byte) ([]ports.Toolchain, error) {
	var records []locatorInstallation
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, zerr.Wrap(err, "failed to parse locator output")
	}

	toolchains := make([]ports.Toolchain, 0, len(records))
	for _, rec := range records {
		if rec.InstallationPath == "" {
			continue
		}
		toolchains = append(toolchains, ports.Toolchain{
			Name:    rec.DisplayName,
			Path:    rec.InstallationPath,
			Version: rec.InstallationVersion,
		})
	}

	sort.SliceStable(toolchains, func(i, j int) bool {
		return compareVersions(toolchains[i].Version, toolchains[j].Version) > 0
	})

	return toolchains, nil
}

// DevEnvironment runs the toolset's setup script and parses the captured
// process environment.
func (l *CommandLocator) DevEnvironment(ctx context.Context, inst ports.Toolchain, req ports.ToolchainRequest) ([]string, error) {
	output, err := l.SetupRunner(ctx, inst, req)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to capture toolchain environment")
	}

	return ParseEnvOutput(output), nil
}

// runSetup executes the toolset's environment script for the requested
// architecture tuple and dumps the resulting environment.
func (l *CommandLocator) runSetup(ctx context.Context, inst ports.Toolchain, req ports.ToolchainRequest) ([]byte, error) {
	args := []string{
		"-no_logo",
		"-host_arch=" + req.HostArchitecture,
		"-arch=" + req.TargetArchitecture,
	}
	if req.ToolsetVersion != "" {
		args = append(args, "-vcvars_ver="+req.ToolsetVersion)
	}

	script := devCmdPath(inst.Path)
	//nolint:gosec // the script path is derived from a locator-reported install root
	cmd := exec.CommandContext(ctx, script, args...)
	return cmd.Output()
}

// ParseEnvOutput extracts KEY=VALUE lines from a captured environment dump,
// dropping banner and progress lines the setup script interleaves.
func ParseEnvOutput(output []byte) []string {
	lines := strings.Split(string(output), "\n")
	env := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			continue
		}
		key := line[:eq]
		if strings.ContainsAny(key, " \t") {
			continue
		}
		env = append(env, line)
	}
	sort.Strings(env)
	return env
}

// devCmdPath returns the environment setup script inside an install root.
func devCmdPath(installRoot string) string {
	return filepath.Join(installRoot, "Common7", "Tools", "VsDevCmd.bat")
}

// compareVersions compares dotted version strings numerically per segment.
func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		an, bn := atoiSafe(as[i]), atoiSafe(bs[i])
		if an != bn {
			if an < bn {
				return -1
			}
			return 1
		}
	}
	return len(as) - len(bs)
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
