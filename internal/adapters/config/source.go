// Package config provides the presets configuration source for crest.
package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/crest/internal/core/domain"
	"go.trai.ch/crest/internal/core/ports"
	"go.trai.ch/zerr"
)

// Source implements ports.ConfigSource by reading CMakePresets.json and
// CMakeUserPresets.json from a workspace folder.
type Source struct {
	Logger ports.Logger
}

// NewSource creates a new Source with the given logger.
func NewSource(logger ports.Logger) *Source {
	return &Source{Logger: logger}
}

var _ ports.ConfigSource = (*Source)(nil)

// Load reads both origins and resolves their include chains. A missing file
// yields a nil graph for that origin; a missing project file with a present
// user file is legal.
func (s *Source) Load(dir string) (*ports.PresetsGraph, *ports.PresetsGraph, error) {
	projectPath := filepath.Join(dir, domain.PresetsFileName)
	userPath := filepath.Join(dir, domain.UserPresetsFileName)

	project, err := s.loadGraph(projectPath, userPath, false)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.loadGraph(userPath, userPath, true)
	if err != nil {
		return nil, nil, err
	}
	return project, user, nil
}

// DiscoverConfigPaths returns every presets file affecting the workspace
// mapped to its modification time in UnixNano.
func (s *Source) DiscoverConfigPaths(dir string) (map[string]int64, error) {
	project, user, err := s.Load(dir)
	if err != nil {
		return nil, err
	}

	mtimes := make(map[string]int64)
	for _, graph := range []*ports.PresetsGraph{project, user} {
		if graph == nil {
			continue
		}
		for _, file := range graph.Files {
			info, err := os.Stat(file.Path)
			if err != nil {
				continue
			}
			mtimes[file.Path] = info.ModTime().UnixNano()
		}
	}
	// The user overlay may not exist yet; watching its path anyway lets a
	// later creation trigger a reload.
	if _, ok := mtimes[filepath.Join(dir, domain.UserPresetsFileName)]; !ok {
		mtimes[filepath.Join(dir, domain.UserPresetsFileName)] = 0
	}
	return mtimes, nil
}

func (s *Source) loadGraph(entryPath, userPath string, user bool) (*ports.PresetsGraph, error) {
	root, err := s.parseFile(entryPath, user)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	graph := &ports.PresetsGraph{Root: root}
	visited := map[string]bool{}
	visiting := map[string]bool{}
	if err := s.collectIncludes(graph, root, userPath, user, visited, visiting); err != nil {
		return nil, err
	}

	graph.Flattened = flatten(graph.Files, root)
	if err := checkDuplicates(graph.Flattened); err != nil {
		return nil, err
	}
	return graph, nil
}

// collectIncludes walks the include chain depth-first. A file already fully
// visited is a diamond and is skipped; a file still on the inclusion path is
// a cycle and is refused.
func (s *Source) collectIncludes(
	graph *ports.PresetsGraph,
	file *ports.PresetsFile,
	userPath string,
	user bool,
	visited, visiting map[string]bool,
) error {
	if visiting[file.Path] {
		return domain.With(domain.ErrIncludeCycle, "path", file.Path)
	}
	if visited[file.Path] {
		return nil
	}
	visiting[file.Path] = true

	graph.Files = append(graph.Files, file)

	for _, include := range file.Includes {
		includePath := include
		if !filepath.IsAbs(includePath) {
			includePath = filepath.Join(filepath.Dir(file.Path), include)
		}
		includePath = filepath.Clean(includePath)

		if !user && includePath == filepath.Clean(userPath) {
			err := domain.With(domain.ErrIncludeOutsideScope, "path", file.Path)
			return domain.With(err, "include", include)
		}

		included, err := s.parseFile(includePath, user)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				err := domain.With(domain.ErrIncludeNotFound, "path", file.Path)
				return domain.With(err, "include", include)
			}
			return err
		}
		if err := s.collectIncludes(graph, included, userPath, user, visited, visiting); err != nil {
			return err
		}
	}

	visiting[file.Path] = false
	visited[file.Path] = true
	return nil
}

func (s *Source) parseFile(path string, user bool) (*ports.PresetsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var raw presetsFileJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	if err := domain.CheckVersion(raw.Version); err != nil {
		return nil, domain.With(err, "path", path)
	}
	if len(raw.Include) > 0 {
		if err := domain.CheckFeature(domain.FeatureInclude, raw.Version); err != nil {
			return nil, domain.With(err, "path", path)
		}
	}
	if len(raw.PackagePresets) > 0 {
		if err := domain.CheckFeature(domain.FeaturePackagePresets, raw.Version); err != nil {
			return nil, domain.With(err, "path", path)
		}
	}
	if len(raw.WorkflowPresets) > 0 {
		if err := domain.CheckFeature(domain.FeatureWorkflowPresets, raw.Version); err != nil {
			return nil, domain.With(err, "path", path)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	file := &ports.PresetsFile{
		Path:             filepath.Clean(abs),
		Version:          raw.Version,
		Includes:         raw.Include,
		ConfigurePresets: raw.ConfigurePresets,
		BuildPresets:     raw.BuildPresets,
		TestPresets:      raw.TestPresets,
		PackagePresets:   raw.PackagePresets,
		WorkflowPresets:  raw.WorkflowPresets,
	}
	tagOrigins(file, user)
	return file, nil
}

func tagOrigins(file *ports.PresetsFile, user bool) {
	origin := &domain.Origin{Path: file.Path, Version: file.Version, User: user}
	for _, p := range file.ConfigurePresets {
		p.Origin = origin
	}
	for _, p := range file.BuildPresets {
		p.Origin = origin
	}
	for _, p := range file.TestPresets {
		p.Origin = origin
	}
	for _, p := range file.PackagePresets {
		p.Origin = origin
	}
	for _, p := range file.WorkflowPresets {
		p.Origin = origin
	}
}

func flatten(files []*ports.PresetsFile, root *ports.PresetsFile) *ports.PresetsFile {
	flat := &ports.PresetsFile{Path: root.Path, Version: root.Version}
	for _, f := range files {
		flat.ConfigurePresets = append(flat.ConfigurePresets, f.ConfigurePresets...)
		flat.BuildPresets = append(flat.BuildPresets, f.BuildPresets...)
		flat.TestPresets = append(flat.TestPresets, f.TestPresets...)
		flat.PackagePresets = append(flat.PackagePresets, f.PackagePresets...)
		flat.WorkflowPresets = append(flat.WorkflowPresets, f.WorkflowPresets...)
	}
	return flat
}

func checkDuplicates(flat *ports.PresetsFile) error {
	check := func(kind domain.PresetKind, names []string) error {
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			if seen[name] {
				err := domain.With(domain.ErrDuplicatePresetName, "kind", string(kind))
				return domain.With(err, "preset", name)
			}
			seen[name] = true
		}
		return nil
	}

	collect := func(n int, name func(int) string) []string {
		names := make([]string, n)
		for i := range names {
			names[i] = name(i)
		}
		return names
	}

	if err := check(domain.KindConfigure, collect(len(flat.ConfigurePresets), func(i int) string { return flat.ConfigurePresets[i].Name })); err != nil {
		return err
	}
	if err := check(domain.KindBuild, collect(len(flat.BuildPresets), func(i int) string { return flat.BuildPresets[i].Name })); err != nil {
		return err
	}
	if err := check(domain.KindTest, collect(len(flat.TestPresets), func(i int) string { return flat.TestPresets[i].Name })); err != nil {
		return err
	}
	if err := check(domain.KindPackage, collect(len(flat.PackagePresets), func(i int) string { return flat.PackagePresets[i].Name })); err != nil {
		return err
	}
	return check(domain.KindWorkflow, collect(len(flat.WorkflowPresets), func(i int) string { return flat.WorkflowPresets[i].Name }))
}
