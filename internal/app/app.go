// Package app implements the application layer for crest.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"go.trai.ch/crest/internal/core/domain"
	"go.trai.ch/crest/internal/core/ports"
	"go.trai.ch/crest/internal/engine/args"
	"go.trai.ch/crest/internal/engine/presets"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	workspace  string
	controller *presets.Controller
	selection  ports.SelectionStore
	watcher    ports.Watcher
	source     ports.ConfigSource
	logger     ports.Logger
}

// New creates a new App instance.
func New(
	workspace string,
	controller *presets.Controller,
	selection ports.SelectionStore,
	watcher ports.Watcher,
	source ports.ConfigSource,
	log ports.Logger,
) *App {
	return &App{
		workspace:  workspace,
		controller: controller,
		selection:  selection,
		watcher:    watcher,
		source:     source,
		logger:     log,
	}
}

// Reload re-reads the presets files and rebuilds the preset layers.
func (a *App) Reload(ctx context.Context) error {
	return a.controller.Reload(ctx)
}

// Diagnostics returns the diagnostics recorded by the latest pass.
func (a *App) Diagnostics() []presets.Diagnostic {
	return a.controller.Diagnostics()
}

// Subscribe returns a channel that ticks after every completed reload.
func (a *App) Subscribe() <-chan struct{} {
	return a.controller.Subscribe()
}

// PresetInfo is one row of a preset listing.
type PresetInfo struct {
	Name        string
	DisplayName string
	Description string
	Selected    bool
}

// ListPresets returns the usable presets of a kind, with the persisted
// selection marked.
func (a *App) ListPresets(ctx context.Context, kindName string) ([]PresetInfo, error) {
	kind, err := domain.ParseKind(kindName)
	if err != nil {
		return nil, err
	}

	selected := ""
	if sel, err := a.selection.Get(a.workspace); err == nil {
		selected = sel.ForKind(kind)
	}

	names := a.controller.ListUsable(ctx, kind)
	infos := make([]PresetInfo, 0, len(names))
	for _, name := range names {
		info := PresetInfo{Name: name, Selected: name == selected}
		if raw := a.controller.Store().Raw(kind, name); raw != nil {
			info.DisplayName = raw.Common().DisplayName
			info.Description = raw.Common().Description
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// ShowPreset resolves and expands one preset.
func (a *App) ShowPreset(ctx context.Context, kindName, name string) (domain.Preset, error) {
	kind, err := domain.ParseKind(kindName)
	if err != nil {
		return nil, err
	}
	return a.controller.ResolveAndExpand(ctx, kind, name)
}

// SynthesizeArgs resolves a preset and returns the command-line arguments
// equivalent to invoking the build tool with it.
func (a *App) SynthesizeArgs(ctx context.Context, kindName, name string) ([]string, error) {
	kind, err := domain.ParseKind(kindName)
	if err != nil {
		return nil, err
	}

	resolved, err := a.controller.ResolveAndExpand(ctx, kind, name)
	if err != nil {
		return nil, err
	}
	// cmake refuses --preset on hidden or condition-disabled presets.
	if !a.controller.Usable(ctx, kind, name) {
		return nil, domain.With(domain.ErrPresetDisabled, "preset", name)
	}

	switch p := resolved.(type) {
	case *domain.ConfigurePreset:
		return args.Configure(p, a.sourceDirOf(p)), nil
	case *domain.BuildPreset:
		cfg, err := a.configureOf(ctx, p.ConfigurePreset)
		if err != nil {
			return nil, err
		}
		return args.Build(p, cfg), nil
	case *domain.TestPreset:
		cfg, err := a.configureOf(ctx, p.ConfigurePreset)
		if err != nil {
			return nil, err
		}
		return args.Test(p, cfg), nil
	case *domain.PackagePreset:
		return args.Package(p), nil
	case *domain.WorkflowPreset:
		return []string{"--workflow", "--preset", p.Name}, nil
	default:
		return nil, domain.With(domain.ErrInvalidPresetKind, "kind", kindName)
	}
}

// Select persists a preset as the workspace's selection for its kind. The
// preset must resolve and be usable; a failed selection leaves the previous
// one in place.
func (a *App) Select(ctx context.Context, kindName, name string) error {
	kind, err := domain.ParseKind(kindName)
	if err != nil {
		return err
	}

	if _, err := a.controller.ResolveAndExpand(ctx, kind, name); err != nil {
		return err
	}
	if !a.controller.Usable(ctx, kind, name) {
		return domain.With(domain.ErrPresetDisabled, "preset", name)
	}

	sel, err := a.selection.Get(a.workspace)
	if err != nil {
		return err
	}
	if sel == nil {
		sel = &domain.Selection{}
	}
	sel.SetForKind(kind, name)

	return a.selection.Put(a.workspace, sel)
}

// Selected returns the persisted selection for a kind, or the empty string.
func (a *App) Selected(kindName string) (string, error) {
	kind, err := domain.ParseKind(kindName)
	if err != nil {
		return "", err
	}
	sel, err := a.selection.Get(a.workspace)
	if err != nil {
		return "", err
	}
	return sel.ForKind(kind), nil
}

// Watch starts the presets file watcher and reloads on every change batch.
// It blocks until the context is cancelled.
func (a *App) Watch(ctx context.Context) error {
	paths, err := a.watchPaths()
	if err != nil {
		return err
	}

	if err := a.watcher.Start(ctx, paths); err != nil {
		return zerr.Wrap(err, "failed to start presets watcher")
	}
	defer func() { _ = a.watcher.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case batch, ok := <-a.watcher.Changes():
			if !ok {
				return nil
			}
			for _, event := range batch {
				a.logger.Debug(fmt.Sprintf("presets file changed: %s", event.Path))
			}
			if err := a.controller.Reload(ctx); err != nil {
				a.logger.Error(err)
			}
		}
	}
}

// watchPaths returns the presets files affecting the workspace, always
// including the two well-known entry files so their creation is observed.
func (a *App) watchPaths() ([]string, error) {
	seen := map[string]struct{}{
		filepath.Join(a.workspace, domain.PresetsFileName):     {},
		filepath.Join(a.workspace, domain.UserPresetsFileName): {},
	}

	discovered, err := a.source.DiscoverConfigPaths(a.workspace)
	if err != nil {
		return nil, err
	}
	for path := range discovered {
		seen[path] = struct{}{}
	}

	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// sourceDirOf returns the source directory arguments are synthesized
// against. The controller expands ${sourceDir} itself; here we only need
// the literal directory for -S.
func (a *App) sourceDirOf(_ *domain.ConfigurePreset) string {
	return a.controller.SourceDir()
}

// configureOf resolves the expanded configure preset a stage preset
// references.
func (a *App) configureOf(ctx context.Context, name string) (*domain.ConfigurePreset, error) {
	resolved, err := a.controller.ResolveAndExpand(ctx, domain.KindConfigure, name)
	if err != nil {
		return nil, err
	}
	cfg, ok := resolved.(*domain.ConfigurePreset)
	if !ok {
		return nil, domain.With(domain.ErrInvalidPresetKind, "preset", name)
	}
	return cfg, nil
}
