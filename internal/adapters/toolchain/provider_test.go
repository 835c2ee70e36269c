package toolchain_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/crest/internal/adapters/toolchain"
	"go.trai.ch/crest/internal/core/domain"
	"go.trai.ch/crest/internal/core/ports"
)

// fakeLocator is a scripted Locator for provider tests.
type fakeLocator struct {
	installations []ports.Toolchain
	env           []string
	installErr    error
	envErr        error

	installCalls atomic.Int64
	envCalls     atomic.Int64

	mu       sync.Mutex
	requests []ports.ToolchainRequest
}

func (f *fakeLocator) Installations(_ context.Context) ([]ports.Toolchain, error) {
	f.installCalls.Add(1)
	return f.installations, f.installErr
}

func (f *fakeLocator) DevEnvironment(_ context.Context, _ ports.Toolchain, req ports.ToolchainRequest) ([]string, error) {
	f.envCalls.Add(1)
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.env, f.envErr
}

func twoInstalls() []ports.Toolchain {
	return []ports.Toolchain{
		{Name: "Build Tools 2022", Path: "/opt/bt2022", Version: "17.9.5"},
		{Name: "Build Tools 2019", Path: "/opt/bt2019", Version: "16.11.34"},
	}
}

func TestProviderComputesOverlay(t *testing.T) {
	locator := &fakeLocator{
		installations: twoInstalls(),
		env:           []string{"INCLUDE=/opt/bt2022/include", "PATH=/opt/bt2022/bin"},
	}
	provider := toolchain.NewProvider(locator, t.TempDir())

	env, err := provider.Environment(t.Context(), ports.ToolchainRequest{
		HostArchitecture:   "x64",
		TargetArchitecture: "x64",
	})
	require.NoError(t, err)

	path, ok := env.Lookup("PATH")
	require.True(t, ok)
	assert.Equal(t, "/opt/bt2022/bin", path)
}

func TestProviderFiltersCaptureShellVariables(t *testing.T) {
	locator := &fakeLocator{
		installations: twoInstalls(),
		env: []string{
			"HOME=/home/probe",
			"INCLUDE=/opt/bt2022/include",
			"PROMPT=$P$G",
			"PWD=/tmp/probe",
		},
	}
	provider := toolchain.NewProvider(locator, t.TempDir())

	env, err := provider.Environment(t.Context(), ports.ToolchainRequest{HostArchitecture: "x64", TargetArchitecture: "x64"})
	require.NoError(t, err)

	_, ok := env.Lookup("INCLUDE")
	assert.True(t, ok)
	for _, key := range []string{"HOME", "PROMPT", "PWD"} {
		_, ok := env.Lookup(key)
		assert.False(t, ok, "capture shell variable %s should be dropped", key)
	}
}

func TestProviderSelectsToolsetVersionPrefix(t *testing.T) {
	locator := &fakeLocator{
		installations: twoInstalls(),
		env:           []string{"PATH=/probe/bin"},
	}
	provider := toolchain.NewProvider(locator, t.TempDir())

	_, err := provider.Environment(t.Context(), ports.ToolchainRequest{
		HostArchitecture:   "x64",
		TargetArchitecture: "x64",
		ToolsetVersion:     "16.11",
	})
	require.NoError(t, err)
}

func TestProviderUnknownToolsetVersion(t *testing.T) {
	locator := &fakeLocator{
		installations: twoInstalls(),
		env:           []string{"PATH=/probe/bin"},
	}
	provider := toolchain.NewProvider(locator, t.TempDir())

	_, err := provider.Environment(t.Context(), ports.ToolchainRequest{
		HostArchitecture:   "x64",
		TargetArchitecture: "x64",
		ToolsetVersion:     "14.29",
	})
	require.ErrorIs(t, err, domain.ErrToolchainNotFound)
}

func TestProviderNoInstallations(t *testing.T) {
	locator := &fakeLocator{}
	provider := toolchain.NewProvider(locator, t.TempDir())

	_, err := provider.Environment(t.Context(), ports.ToolchainRequest{HostArchitecture: "x64", TargetArchitecture: "x64"})
	require.ErrorIs(t, err, domain.ErrToolchainNotFound)
}

func TestProviderDiskCacheSkipsProbe(t *testing.T) {
	cacheDir := t.TempDir()
	locator := &fakeLocator{
		installations: twoInstalls(),
		env:           []string{"PATH=/opt/bt2022/bin"},
	}
	req := ports.ToolchainRequest{HostArchitecture: "x64", TargetArchitecture: "arm64"}

	provider := toolchain.NewProvider(locator, cacheDir)
	_, err := provider.Environment(t.Context(), req)
	require.NoError(t, err)
	require.EqualValues(t, 1, locator.envCalls.Load())

	// A fresh provider over the same cache directory must not probe again.
	fresh := toolchain.NewProvider(locator, cacheDir)
	env, err := fresh.Environment(t.Context(), req)
	require.NoError(t, err)
	assert.EqualValues(t, 1, locator.envCalls.Load())

	path, ok := env.Lookup("PATH")
	require.True(t, ok)
	assert.Equal(t, "/opt/bt2022/bin", path)
}

func TestProviderDistinctRequestsCacheSeparately(t *testing.T) {
	cacheDir := t.TempDir()
	locator := &fakeLocator{
		installations: twoInstalls(),
		env:           []string{"PATH=/opt/bt2022/bin"},
	}
	provider := toolchain.NewProvider(locator, cacheDir)

	_, err := provider.Environment(t.Context(), ports.ToolchainRequest{HostArchitecture: "x64", TargetArchitecture: "x64"})
	require.NoError(t, err)
	_, err = provider.Environment(t.Context(), ports.ToolchainRequest{HostArchitecture: "x64", TargetArchitecture: "x86"})
	require.NoError(t, err)

	assert.EqualValues(t, 2, locator.envCalls.Load())
}

func TestProviderCandidates(t *testing.T) {
	locator := &fakeLocator{installations: twoInstalls()}
	provider := toolchain.NewProvider(locator, t.TempDir())

	candidates, err := provider.Candidates(t.Context())
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "Build Tools 2022", candidates[0].Name)
}
