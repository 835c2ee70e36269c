package domain

import (
	"maps"
	"sort"
	"strings"
)

// Environment maps variable names to values. A nil value is an explicit
// unset marker: it shadows any value inherited from a lower layer and is
// dropped when the map is flattened for process execution.
type Environment map[string]*string

// EnvValue is a convenience constructor for a set entry.
func EnvValue(s string) *string { return &s }

// MergeEnvironment returns the union of under and over, with over taking
// precedence on conflicting keys. Explicit unset markers in over survive the
// merge so they keep shadowing inherited values through further layering.
func MergeEnvironment(under, over Environment) Environment {
	merged := make(Environment, len(under)+len(over))
	maps.Copy(merged, under)
	maps.Copy(merged, over)
	return merged
}

// Clone returns a shallow copy of the environment. Values are pointers to
// immutable strings, so a shallow copy is sufficient.
func (e Environment) Clone() Environment {
	if e == nil {
		return nil
	}
	return maps.Clone(e)
}

// Lookup returns the value for name. ok is false when the name is absent or
// explicitly unset.
func (e Environment) Lookup(name string) (string, bool) {
	v, present := e[name]
	if !present || v == nil {
		return "", false
	}
	return *v, true
}

// Flatten drops unset markers and returns a plain string map.
func (e Environment) Flatten() map[string]string {
	flat := make(map[string]string, len(e))
	for k, v := range e {
		if v != nil {
			flat[k] = *v
		}
	}
	return flat
}

// Strings renders the environment as sorted KEY=VALUE pairs suitable for
// process execution. Unset markers are dropped.
func (e Environment) Strings() []string {
	pairs := make([]string, 0, len(e))
	for k, v := range e {
		if v != nil {
			pairs = append(pairs, k+"="+*v)
		}
	}
	sort.Strings(pairs)
	return pairs
}

// EnvironmentFromStrings builds an Environment from KEY=VALUE pairs, the
// shape of os.Environ. Malformed entries without '=' are skipped.
func EnvironmentFromStrings(pairs []string) Environment {
	env := make(Environment, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = EnvValue(v)
	}
	return env
}
