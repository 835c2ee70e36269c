// Package presets implements the preset resolution pipeline: the layered
// preset store, the inheritance resolver, the macro expansion pass, the
// workflow compatibility checks, and the controller that ties them to the
// configuration source.
package presets

import (
	"sync"

	"go.trai.ch/crest/internal/core/domain"
	"go.trai.ch/crest/internal/core/ports"
)

type expandedKey struct {
	kind domain.PresetKind
	name string
}

// Store keeps the preset layers for one workspace: the two origin files as
// parsed, their include-flattened collections, and a cache of fully resolved
// and expanded presets. The expanded cache is invalidated wholesale on every
// reload; raw layers are replaced, never mutated.
type Store struct {
	mu sync.RWMutex

	rawProject *ports.PresetsFile
	rawUser    *ports.PresetsFile
	project    *ports.PresetsFile
	user       *ports.PresetsFile

	expanded map[expandedKey]domain.Preset
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{expanded: map[expandedKey]domain.Preset{}}
}

// Replace swaps in freshly loaded preset graphs and drops the expanded cache.
// Either graph may be nil when the corresponding file does not exist.
func (s *Store) Replace(project, user *ports.PresetsGraph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawProject, s.project = nil, nil
	s.rawUser, s.user = nil, nil
	if project != nil {
		s.rawProject = project.Root
		s.project = project.Flattened
	}
	if user != nil {
		s.rawUser = user.Root
		s.user = user.Flattened
	}
	s.expanded = map[expandedKey]domain.Preset{}
}

// Version returns the schema version of the project presets file, falling
// back to the user overlay when only that exists.
func (s *Store) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rawProject != nil {
		return s.rawProject.Version
	}
	if s.rawUser != nil {
		return s.rawUser.Version
	}
	return 0
}

// GetExpanded returns the cached resolved-and-expanded preset, if any.
func (s *Store) GetExpanded(kind domain.PresetKind, name string) (domain.Preset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.expanded[expandedKey{kind, name}]
	return p, ok
}

// PutExpanded caches a resolved-and-expanded preset until the next Replace.
func (s *Store) PutExpanded(p domain.Preset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expanded[expandedKey{p.Kind(), p.Common().Name}] = p
}

// layers returns the lookup layers in declaration order: project first, then
// the user overlay. The user layer is omitted when includeUser is false, so
// project-declared presets cannot inherit from user-declared ones.
func (s *Store) layers(includeUser bool) []*ports.PresetsFile {
	out := make([]*ports.PresetsFile, 0, 2)
	if s.project != nil {
		out = append(out, s.project)
	}
	if includeUser && s.user != nil {
		out = append(out, s.user)
	}
	return out
}

// ConfigurePreset looks up a raw configure preset by name.
func (s *Store) ConfigurePreset(name string, includeUser bool) (*domain.ConfigurePreset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, layer := range s.layers(includeUser) {
		for _, p := range layer.ConfigurePresets {
			if p.Name == name {
				return p, true
			}
		}
	}
	return nil, false
}

// BuildPreset looks up a raw build preset by name.
func (s *Store) BuildPreset(name string, includeUser bool) (*domain.BuildPreset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, layer := range s.layers(includeUser) {
		for _, p := range layer.BuildPresets {
			if p.Name == name {
				return p, true
			}
		}
	}
	return nil, false
}

// TestPreset looks up a raw test preset by name.
func (s *Store) TestPreset(name string, includeUser bool) (*domain.TestPreset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, layer := range s.layers(includeUser) {
		for _, p := range layer.TestPresets {
			if p.Name == name {
				return p, true
			}
		}
	}
	return nil, false
}

// PackagePreset looks up a raw package preset by name.
func (s *Store) PackagePreset(name string, includeUser bool) (*domain.PackagePreset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, layer := range s.layers(includeUser) {
		for _, p := range layer.PackagePresets {
			if p.Name == name {
				return p, true
			}
		}
	}
	return nil, false
}

// WorkflowPreset looks up a raw workflow preset by name.
func (s *Store) WorkflowPreset(name string, includeUser bool) (*domain.WorkflowPreset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, layer := range s.layers(includeUser) {
		for _, p := range layer.WorkflowPresets {
			if p.Name == name {
				return p, true
			}
		}
	}
	return nil, false
}

// Raw returns the raw preset of the given kind and name, or nil.
func (s *Store) Raw(kind domain.PresetKind, name string) domain.Preset {
	switch kind {
	case domain.KindConfigure:
		if p, ok := s.ConfigurePreset(name, true); ok {
			return p
		}
	case domain.KindBuild:
		if p, ok := s.BuildPreset(name, true); ok {
			return p
		}
	case domain.KindTest:
		if p, ok := s.TestPreset(name, true); ok {
			return p
		}
	case domain.KindPackage:
		if p, ok := s.PackagePreset(name, true); ok {
			return p
		}
	case domain.KindWorkflow:
		if p, ok := s.WorkflowPreset(name, true); ok {
			return p
		}
	}
	return nil
}

// List returns all raw presets of the given kind in declaration order,
// project layer before the user overlay.
func (s *Store) List(kind domain.PresetKind) []domain.Preset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Preset
	for _, layer := range s.layers(true) {
		switch kind {
		case domain.KindConfigure:
			for _, p := range layer.ConfigurePresets {
				out = append(out, p)
			}
		case domain.KindBuild:
			for _, p := range layer.BuildPresets {
				out = append(out, p)
			}
		case domain.KindTest:
			for _, p := range layer.TestPresets {
				out = append(out, p)
			}
		case domain.KindPackage:
			for _, p := range layer.PackagePresets {
				out = append(out, p)
			}
		case domain.KindWorkflow:
			for _, p := range layer.WorkflowPresets {
				out = append(out, p)
			}
		}
	}
	return out
}
