// Package expand implements the ${macro} template expansion engine for
// preset string fields.
//
// Three reference forms are recognized: ${name} for context macros,
// $env{NAME} for the preset environment (recursive, so entries may reference
// one another regardless of declaration order), and $penv{NAME} for the
// parent environment (non-recursive). $vendor{...} references are opaque and
// pass through verbatim.
//
// The engine fails closed: every malformed or unresolvable reference is
// reported through the caller's error handler and expands to the empty
// string, so one bad field never aborts a whole resolution pass.
package expand

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/crest/internal/core/domain"
	"go.trai.ch/crest/internal/core/ports"
)

// Engine implements ports.MacroExpander.
type Engine struct{}

// New creates a new expansion engine.
func New() *Engine { return &Engine{} }

var _ ports.MacroExpander = (*Engine)(nil)

// Expand substitutes every macro reference in template using ctx.
func (e *Engine) Expand(template string, ctx *ports.ExpansionContext, onError ports.ExpansionErrorHandler) string {
	s := &expansion{ctx: ctx, onError: onError, template: template}
	return s.expand(template, nil)
}

type expansion struct {
	ctx      *ports.ExpansionContext
	onError  ports.ExpansionErrorHandler
	template string
}

func (s *expansion) fail(err error) {
	if s.onError != nil {
		s.onError(err, s.template)
	}
}

// expand walks the template byte-wise. stack carries the chain of
// environment variables currently being expanded, for cycle detection.
func (s *expansion) expand(template string, stack []string) string {
	var b strings.Builder
	i := 0
	for i < len(template) {
		if template[i] != '$' {
			b.WriteByte(template[i])
			i++
			continue
		}
		rest := template[i:]
		switch {
		case strings.HasPrefix(rest, "${"):
			name, length, ok := s.refName(rest, 2)
			if !ok {
				b.WriteString(rest)
				return b.String()
			}
			b.WriteString(s.macro(name, stack))
			i += length

		case strings.HasPrefix(rest, "$env{"):
			name, length, ok := s.refName(rest, 5)
			if !ok {
				b.WriteString(rest)
				return b.String()
			}
			b.WriteString(s.envRef(name, stack))
			i += length

		case strings.HasPrefix(rest, "$penv{"):
			name, length, ok := s.refName(rest, 6)
			if !ok {
				b.WriteString(rest)
				return b.String()
			}
			b.WriteString(s.parentEnvRef(name))
			i += length

		case strings.HasPrefix(rest, "$vendor{"):
			// Vendor macros are owned by other tools; pass through untouched.
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				s.fail(domain.ErrUnterminatedMacro)
				b.WriteString(rest)
				return b.String()
			}
			b.WriteString(rest[:end+1])
			i += end + 1

		default:
			b.WriteByte('$')
			i++
		}
	}
	return b.String()
}

// refName extracts the name of a reference opened at offset start, returning
// the name, the total reference length, and whether the reference was closed.
func (s *expansion) refName(rest string, start int) (string, int, bool) {
	end := strings.IndexByte(rest[start:], '}')
	if end < 0 {
		s.fail(domain.ErrUnterminatedMacro)
		return "", 0, false
	}
	return rest[start : start+end], start + end + 1, true
}

func (s *expansion) macro(name string, stack []string) string {
	switch name {
	case "dollar":
		return "$"
	case "sourceDir":
		return s.ctx.SourceDir
	case "sourceParentDir":
		return filepath.Dir(s.ctx.SourceDir)
	case "sourceDirName":
		return filepath.Base(s.ctx.SourceDir)
	case "presetName":
		return s.ctx.PresetName
	case "generator":
		return s.ctx.Generator
	case "hostSystemName":
		if s.ctx.HostSystemName != "" {
			return s.ctx.HostSystemName
		}
		return domain.HostSystemName()
	case "fileDir":
		if err := domain.CheckFeature(domain.FeatureFileDirMacro, s.ctx.Version); err != nil {
			s.fail(err)
			return ""
		}
		return s.ctx.FileDir
	case "pathListSep":
		if err := domain.CheckFeature(domain.FeaturePathListSepMacro, s.ctx.Version); err != nil {
			s.fail(err)
			return ""
		}
		if s.ctx.PathListSep != "" {
			return s.ctx.PathListSep
		}
		return string(os.PathListSeparator)
	default:
		s.fail(domain.With(domain.ErrUnknownMacro, "macro", name))
		return ""
	}
}

// envRef resolves $env{name}: the preset environment first, falling back to
// the parent environment. Preset entries may reference other macros and
// other environment entries; a reference chain back into itself is a cycle.
func (s *expansion) envRef(name string, stack []string) string {
	key := "env:" + name
	if slices.Contains(stack, key) {
		s.fail(domain.With(domain.ErrMacroCycle, "variable", name))
		return ""
	}
	if v, present := s.ctx.Env[name]; present {
		if v == nil {
			// Explicitly unset.
			return ""
		}
		return s.expand(*v, append(stack, key))
	}
	return s.parentEnvRef(name)
}

// parentEnvRef resolves $penv{name}. Parent environment values come from the
// process environment and are never themselves templates.
func (s *expansion) parentEnvRef(name string) string {
	if v, ok := s.ctx.ParentEnv.Lookup(name); ok {
		return v
	}
	return ""
}
