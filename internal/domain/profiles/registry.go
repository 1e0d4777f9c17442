// Package profiles holds the closed set of framework profiles the engine
// expands. The set is versioned with the engine: adding, removing or
// renaming anything a profile derives is a new Version.
package profiles

import (
	"fmt"
	"strings"

	"github.com/charmpack/charmpack/internal/domain"
	"github.com/charmpack/charmpack/internal/domain/naming"
)

// Version identifies the built-in profile table.
const Version = "1.0.0"

// Registry looks up immutable profiles by tag.
type Registry struct {
	profiles map[string]domain.FrameworkProfile
}

// NewRegistry builds a registry, rejecting duplicate tags and malformed
// profiles.
func NewRegistry(profiles ...domain.FrameworkProfile) (*Registry, error) {
	r := &Registry{profiles: make(map[string]domain.FrameworkProfile, len(profiles))}
	for _, p := range profiles {
		if _, dup := r.profiles[p.Tag]; dup {
			return nil, fmt.Errorf("duplicate profile tag %q", p.Tag)
		}
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("profile %q: %w", p.Tag, err)
		}
		r.profiles[p.Tag] = clone(p)
	}
	return r, nil
}

// Default returns the registry of built-in profiles.
func Default() *Registry {
	r, err := NewRegistry(builtin()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns a copy of the profile registered under tag.
func (r *Registry) Get(tag string) (domain.FrameworkProfile, error) {
	p, ok := r.profiles[tag]
	if !ok {
		return domain.FrameworkProfile{}, &domain.UnknownProfileError{Tag: tag, Known: r.Tags()}
	}
	return clone(p), nil
}

// Tags returns every registered tag, sorted.
func (r *Registry) Tags() []string {
	return domain.SortedKeys(r.profiles)
}

// Profiles returns copies of every profile, sorted by tag.
func (r *Registry) Profiles() []domain.FrameworkProfile {
	out := make([]domain.FrameworkProfile, 0, len(r.profiles))
	for _, tag := range r.Tags() {
		out = append(out, clone(r.profiles[tag]))
	}
	return out
}

func validate(p domain.FrameworkProfile) error {
	if p.Tag == "" {
		return fmt.Errorf("tag is required")
	}
	if p.Prefix == "" || p.Prefix != strings.ToUpper(p.Prefix) || strings.Contains(p.Prefix, "-") {
		return fmt.Errorf("prefix %q must be upper-case and non-empty", p.Prefix)
	}
	seen := make(map[string]bool)
	for _, o := range p.Options {
		if !naming.ValidOptionName(o.Name) {
			return fmt.Errorf("predefined option %q must be kebab-case", o.Name)
		}
		if seen[o.Name] {
			return fmt.Errorf("predefined option %q declared twice", o.Name)
		}
		seen[o.Name] = true
		if o.Env != "" && !strings.HasPrefix(o.Env, p.Prefix+"_") {
			return fmt.Errorf("predefined option %q env %q is not namespaced by %s_", o.Name, o.Env, p.Prefix)
		}
	}
	keys := make(map[string]bool)
	for _, role := range domain.IntegrationRoles {
		for key, decl := range p.Integrations[role] {
			if keys[key] {
				return fmt.Errorf("integration %q pre-loaded in more than one role", key)
			}
			keys[key] = true
			if decl.Interface == "" {
				return fmt.Errorf("integration %q has no interface", key)
			}
		}
	}
	return nil
}

// clone deep-copies the mutable parts of a profile so callers cannot
// alter the registry.
func clone(p domain.FrameworkProfile) domain.FrameworkProfile {
	out := p
	out.Options = append([]domain.PredefinedOption(nil), p.Options...)
	out.Integrations = make(map[domain.IntegrationRole]map[string]domain.IntegrationDeclaration, len(p.Integrations))
	for role, decls := range p.Integrations {
		m := make(map[string]domain.IntegrationDeclaration, len(decls))
		for k, v := range decls {
			m[k] = v
		}
		out.Integrations[role] = m
	}
	out.RootKeys = make(domain.ExtraFields, len(p.RootKeys))
	for i, f := range p.RootKeys {
		out.RootKeys[i] = domain.Field{Key: f.Key, Value: deepCopy(f.Value)}
	}
	return out
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = deepCopy(inner)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = deepCopy(inner)
		}
		return s
	default:
		return v
	}
}
