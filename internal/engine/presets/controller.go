package presets

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"go.trai.ch/crest/internal/core/domain"
	"go.trai.ch/crest/internal/core/ports"
)

// Diagnostic is one problem found while loading or resolving presets,
// attributed to the file it came from.
type Diagnostic struct {
	Path string
	Err  error
}

// Controller owns the preset store for one workspace and runs the
// load-resolve-expand pipeline over it. Top-level passes are mutually
// exclusive: a pass requested while another is in flight is rejected with
// ErrResolutionInFlight rather than queued.
type Controller struct {
	workspaceFolder string

	source   ports.ConfigSource
	engine   ports.MacroExpander
	devenv   *DevEnvResolver
	logger   ports.Logger
	tracer   ports.Tracer
	expander *Expander

	store    *Store
	resolver *Resolver
	changing atomic.Bool

	mu          sync.Mutex
	diagnostics []Diagnostic

	subMu       sync.Mutex
	subscribers []chan struct{}
}

// NewController wires the pipeline for one workspace folder. sourceDir
// overrides the cmake source directory; empty means the workspace folder.
func NewController(workspaceFolder, sourceDir string, source ports.ConfigSource, engine ports.MacroExpander, devenv *DevEnvResolver, tracer ports.Tracer, logger ports.Logger) *Controller {
	store := NewStore()
	return &Controller{
		workspaceFolder: workspaceFolder,
		source:          source,
		engine:          engine,
		devenv:          devenv,
		logger:          logger,
		tracer:          tracer,
		expander:        NewExpander(engine, workspaceFolder, sourceDir, logger),
		store:           store,
		resolver:        NewResolver(store, devenv, logger),
	}
}

// Store exposes the underlying preset store.
func (c *Controller) Store() *Store { return c.store }

// SourceDir returns the cmake source directory presets expand against.
func (c *Controller) SourceDir() string { return c.expander.sourceDir }

// Diagnostics returns the problems recorded by the most recent reload and
// the resolutions since.
func (c *Controller) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.diagnostics)
}

func (c *Controller) report(path string, err error) {
	c.mu.Lock()
	c.diagnostics = append(c.diagnostics, Diagnostic{Path: path, Err: err})
	c.mu.Unlock()
	c.logger.Warn(fmt.Sprintf("preset diagnostic in %s: %v", path, err))
}

// Subscribe returns a channel that receives a tick after every successful
// reload. The channel is never closed and ticks are dropped when the
// subscriber lags.
func (c *Controller) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	c.subMu.Lock()
	c.subscribers = append(c.subscribers, ch)
	c.subMu.Unlock()
	return ch
}

func (c *Controller) notify() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// begin takes the exclusive pass guard.
func (c *Controller) begin() error {
	if !c.changing.CompareAndSwap(false, true) {
		return domain.ErrResolutionInFlight
	}
	return nil
}

func (c *Controller) end() { c.changing.Store(false) }

// Reload re-reads the preset files and swaps the store layers. On failure
// the previous layers stay in place and the error is recorded as a
// diagnostic. Subscribers are notified only on success.
func (c *Controller) Reload(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	_, span := c.tracer.Start(ctx, "presets.reload")
	defer span.End()

	project, user, err := c.source.Load(c.workspaceFolder)
	if err != nil {
		span.RecordError(err)
		c.mu.Lock()
		c.diagnostics = nil
		c.mu.Unlock()
		c.report(c.workspaceFolder, err)
		return err
	}
	c.store.Replace(project, user)
	c.mu.Lock()
	c.diagnostics = nil
	c.mu.Unlock()
	c.logger.Info(fmt.Sprintf("presets reloaded: %d configure, %d build, %d test, %d package, %d workflow",
		len(c.store.List(domain.KindConfigure)),
		len(c.store.List(domain.KindBuild)),
		len(c.store.List(domain.KindTest)),
		len(c.store.List(domain.KindPackage)),
		len(c.store.List(domain.KindWorkflow))))
	c.notify()
	return nil
}

// ResolveAndExpand resolves one preset's inheritance chain, runs the macro
// expansion pass, validates workflows, and caches the result until the next
// reload. Expansion failures are recorded as diagnostics; the affected
// references expand to the empty string.
func (c *Controller) ResolveAndExpand(ctx context.Context, kind domain.PresetKind, name string) (domain.Preset, error) {
	if p, ok := c.store.GetExpanded(kind, name); ok {
		return p, nil
	}
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	ctx, span := c.tracer.Start(ctx, "presets.resolve")
	defer span.End()

	p, err := c.resolveAndExpand(ctx, newPassContext(), kind, name)
	if err != nil {
		span.RecordError(err)
		path := c.workspaceFolder
		if raw := c.store.Raw(kind, name); raw != nil && raw.Common().Origin != nil {
			path = raw.Common().Origin.Path
		}
		c.report(path, err)
		return nil, err
	}
	c.store.PutExpanded(p)
	return p, nil
}

func (c *Controller) resolveAndExpand(ctx context.Context, pc *passContext, kind domain.PresetKind, name string) (domain.Preset, error) {
	onError := c.expansionHandler(kind, name)
	switch kind {
	case domain.KindConfigure:
		resolved, err := c.resolver.ResolveConfigure(ctx, pc, name)
		if err != nil {
			return nil, err
		}
		return c.expander.ExpandConfigure(resolved, onError), nil
	case domain.KindBuild:
		resolved, err := c.resolver.ResolveBuild(ctx, pc, name)
		if err != nil {
			return nil, err
		}
		cfg, _ := pc.done[expandedKey{domain.KindConfigure, resolved.ConfigurePreset}].(*domain.ConfigurePreset)
		return c.expander.ExpandBuild(resolved, cfg, onError), nil
	case domain.KindTest:
		resolved, err := c.resolver.ResolveTest(ctx, pc, name)
		if err != nil {
			return nil, err
		}
		cfg, _ := pc.done[expandedKey{domain.KindConfigure, resolved.ConfigurePreset}].(*domain.ConfigurePreset)
		return c.expander.ExpandTest(resolved, cfg, onError), nil
	case domain.KindPackage:
		resolved, err := c.resolver.ResolvePackage(ctx, pc, name)
		if err != nil {
			return nil, err
		}
		cfg, _ := pc.done[expandedKey{domain.KindConfigure, resolved.ConfigurePreset}].(*domain.ConfigurePreset)
		return c.expander.ExpandPackage(resolved, cfg, onError), nil
	case domain.KindWorkflow:
		resolved, err := c.resolver.ResolveWorkflow(ctx, pc, name)
		if err != nil {
			return nil, err
		}
		if err := c.resolver.validateWorkflow(ctx, pc, resolved); err != nil {
			return nil, err
		}
		return c.expander.ExpandWorkflow(resolved, onError), nil
	default:
		return nil, domain.With(domain.ErrInvalidPresetKind, "kind", string(kind))
	}
}

func (c *Controller) expansionHandler(kind domain.PresetKind, name string) ports.ExpansionErrorHandler {
	return func(err error, template string) {
		path := c.workspaceFolder
		if raw := c.store.Raw(kind, name); raw != nil && raw.Common().Origin != nil {
			path = raw.Common().Origin.Path
		}
		err = domain.With(err, "preset", name)
		c.report(path, domain.With(err, "template", template))
	}
}

// Usable reports whether a preset is selectable: not hidden, its own
// expanded condition holds, and the conditions of every ancestor hold as
// well. Resolution failures make the preset unusable rather than erroring.
func (c *Controller) Usable(ctx context.Context, kind domain.PresetKind, name string) bool {
	raw := c.store.Raw(kind, name)
	if raw == nil || raw.Common().Hidden {
		return false
	}
	for _, n := range c.withAncestors(kind, name) {
		p, err := c.ResolveAndExpand(ctx, kind, n)
		if err != nil {
			return false
		}
		cond := p.Common().Condition
		if cond == nil {
			continue
		}
		ok, err := cond.Evaluate()
		if err != nil {
			c.report(c.workspaceFolder, domain.With(err, "preset", n))
			return false
		}
		if !ok {
			return false
		}
	}
	return true
}

// withAncestors returns the preset name followed by every transitive
// inheritance ancestor, deduplicated.
func (c *Controller) withAncestors(kind domain.PresetKind, name string) []string {
	var out []string
	seen := map[string]bool{}
	var walk func(n string)
	walk = func(n string) {
		if seen[n] {
			return
		}
		seen[n] = true
		out = append(out, n)
		raw := c.store.Raw(kind, n)
		if raw == nil {
			return
		}
		for _, parent := range raw.Common().Inherits {
			walk(parent)
		}
	}
	walk(name)
	return out
}

// ListUsable returns the names of the selectable presets of a kind in
// declaration order.
func (c *Controller) ListUsable(ctx context.Context, kind domain.PresetKind) []string {
	var out []string
	for _, p := range c.store.List(kind) {
		name := p.Common().Name
		if c.Usable(ctx, kind, name) {
			out = append(out, name)
		}
	}
	return out
}
