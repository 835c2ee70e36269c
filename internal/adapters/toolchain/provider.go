package toolchain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/crest/internal/core/domain"
	"go.trai.ch/crest/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

var _ ports.ToolchainProvider = (*Provider)(nil)

// excludedEnvVars are setup-script variables that describe the capture shell
// rather than the toolset. They are dropped from the computed overlay so the
// caller's own values survive.
var excludedEnvVars = map[string]bool{
	"PROMPT":     true,
	"PS1":        true,
	"SHLVL":      true,
	"PWD":        true,
	"OLDPWD":     true,
	"CD":         true,
	"_":          true,
	"TERM":       true,
	"HOME":       true,
	"USER":       true,
	"USERNAME":   true,
	"LOGNAME":    true,
	"TMPDIR":     true,
	"TEMP":       true,
	"TMP":        true,
	"ERRORLEVEL": true,
}

// Provider implements ports.ToolchainProvider on top of a Locator, with a
// per-request disk cache keyed by install identity and architecture tuple.
type Provider struct {
	locator  Locator
	cacheDir string

	requestGroup singleflight.Group
}

// NewProvider creates a toolchain provider caching computed environments
// under cacheDir.
func NewProvider(locator Locator, cacheDir string) *Provider {
	return &Provider{
		locator:  locator,
		cacheDir: cacheDir,
	}
}

// Candidates returns installed toolchains in preference order.
func (p *Provider) Candidates(ctx context.Context) ([]ports.Toolchain, error) {
	return p.locator.Installations(ctx)
}

// Environment computes the environment overlay for the requested tuple.
// Results are memoized on disk; concurrent requests for the same tuple
// collapse into one probe.
func (p *Provider) Environment(ctx context.Context, req ports.ToolchainRequest) (domain.Environment, error) {
	key := requestKey(req)

	result, err, _ := p.requestGroup.Do(key, func() (any, error) {
		cachePath := filepath.Join(p.cacheDir, key+".json")
		if cached, err := loadEnvFromCache(cachePath); err == nil {
			return cached, nil
		}

		installations, err := p.locator.Installations(ctx)
		if err != nil {
			return nil, err
		}

		inst, err := selectInstallation(installations, req)
		if err != nil {
			return nil, err
		}

		pairs, err := p.locator.DevEnvironment(ctx, inst, req)
		if err != nil {
			return nil, err
		}

		pairs = filterEnvPairs(pairs)

		if err := saveEnvToCache(cachePath, pairs); err != nil {
			// Cache write failure is not fatal, the overlay is still usable.
			_ = err
		}

		return pairs, nil
	})
	if err != nil {
		return nil, err
	}

	return domain.EnvironmentFromStrings(result.([]string)), nil
}

// selectInstallation picks the first installation whose version satisfies
// the requested toolset version prefix, falling back to the newest install
// when no version is requested.
func selectInstallation(installations []ports.Toolchain, req ports.ToolchainRequest) (ports.Toolchain, error) {
	if len(installations) == 0 {
		return ports.Toolchain{}, domain.With(domain.ErrToolchainNotFound, "host_architecture", req.HostArchitecture)
	}

	if req.ToolsetVersion == "" {
		return installations[0], nil
	}

	for _, inst := range installations {
		if strings.HasPrefix(inst.Version, req.ToolsetVersion) {
			return inst, nil
		}
	}

	err := domain.With(domain.ErrToolchainNotFound, "toolset_version", req.ToolsetVersion)
	return ports.Toolchain{}, err
}

// filterEnvPairs drops capture-shell variables from the overlay.
func filterEnvPairs(pairs []string) []string {
	out := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		key, _, ok := strings.Cut(pair, "=")
		if !ok || excludedEnvVars[strings.ToUpper(key)] {
			continue
		}
		out = append(out, pair)
	}
	return out
}

// requestKey derives a stable cache key for a toolchain request.
func requestKey(req ports.ToolchainRequest) string {
	var digest xxhash.Digest
	_, _ = digest.WriteString(req.HostArchitecture)
	_, _ = digest.WriteString("\x00")
	_, _ = digest.WriteString(req.TargetArchitecture)
	_, _ = digest.WriteString("\x00")
	_, _ = digest.WriteString(req.ToolsetVersion)
	return fmt.Sprintf("%016x", digest.Sum64())
}

// loadEnvFromCache attempts to load a cached environment overlay.
func loadEnvFromCache(path string) ([]string, error) {
	//nolint:gosec // path is constructed from the trusted cache directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrEnvCacheMiss
		}
		return nil, zerr.Wrap(err, "failed to read environment cache")
	}

	var env []string
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal environment cache")
	}

	return env, nil
}

// saveEnvToCache persists an environment overlay via write-to-temp plus
// atomic rename.
func saveEnvToCache(path string, env []string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create cache directory")
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal environment")
	}

	tmpFile, err := os.CreateTemp(dir, "env-cache-*.json")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp cache file")
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, err := os.Stat(tmpName); err == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return zerr.Wrap(err, "failed to write cache file")
	}

	if err := tmpFile.Close(); err != nil {
		return zerr.Wrap(err, "failed to close temp cache file")
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to chmod cache file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return zerr.Wrap(err, "failed to rename temp cache file")
	}

	return nil
}
