// Package conflict detects collisions between user-authored descriptor
// content and what a framework profile injects. Every check reports all of
// its findings; nothing here stops at the first problem.
package conflict

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/charmpack/charmpack/internal/domain"
	"github.com/charmpack/charmpack/internal/domain/services"
)

// Raw checks the user-authored descriptor against the profile before any
// content is injected. Declarations identical to the injected ones are not
// conflicts, so an already-expanded descriptor passes cleanly.
func Raw(d domain.ProjectDescriptor, p domain.FrameworkProfile) []*domain.Conflict {
	var out []*domain.Conflict
	out = append(out, options(d, p)...)
	out = append(out, endpoints(d, p)...)
	out = append(out, rootKeys(d, p)...)
	out = append(out, serviceRoles(d, p)...)
	return out
}

func options(d domain.ProjectDescriptor, p domain.FrameworkProfile) []*domain.Conflict {
	var out []*domain.Conflict
	for _, o := range d.Options {
		pre, ok := p.Option(o.Name)
		if !ok || pre.ConfigOption.Equal(o) {
			continue
		}
		out = append(out, &domain.Conflict{
			Kind:   domain.ConflictOptionRedefined,
			Name:   o.Name,
			Detail: fmt.Sprintf("option is predefined by %s and cannot be redeclared", p.Tag),
		})
	}
	return out
}

func endpoints(d domain.ProjectDescriptor, p domain.FrameworkProfile) []*domain.Conflict {
	var out []*domain.Conflict

	declaredIn := make(map[string][]domain.IntegrationRole)
	for _, role := range domain.IntegrationRoles {
		for key := range d.Endpoints(role) {
			declaredIn[key] = append(declaredIn[key], role)
		}
	}

	for _, key := range domain.SortedKeys(declaredIn) {
		roles := declaredIn[key]
		if len(roles) > 1 {
			out = append(out, &domain.Conflict{
				Kind:    domain.ConflictDuplicateEndpoint,
				Name:    key,
				Detail:  "endpoint name is declared in more than one section",
				Sources: roleNames(roles),
			})
			continue
		}

		role := roles[0]
		preRole, pre, ok := p.Integration(key)
		if !ok {
			continue
		}
		if preRole != role {
			out = append(out, &domain.Conflict{
				Kind:    domain.ConflictIntegrationRedefined,
				Name:    key,
				Detail:  fmt.Sprintf("declared under %s but %s pre-loads it under %s", role, p.Tag, preRole),
				Sources: []string{string(role) + "." + key, string(preRole) + "." + key},
			})
			continue
		}
		if !pre.Immutable {
			continue
		}

		user := d.Endpoints(role)[key]
		var problems []string
		if user.Interface != pre.Interface {
			problems = append(problems, fmt.Sprintf("interface %q differs from pre-loaded %q", user.Interface, pre.Interface))
		}
		if user.Optional != nil && *user.Optional != pre.IsOptional() {
			problems = append(problems, fmt.Sprintf("optional=%t differs from pre-loaded optional=%t", *user.Optional, pre.IsOptional()))
		}
		if len(problems) > 0 {
			out = append(out, &domain.Conflict{
				Kind:   domain.ConflictIntegrationRedefined,
				Name:   key,
				Detail: strings.Join(problems, "; "),
			})
		}
	}
	return out
}

func roleNames(roles []domain.IntegrationRole) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return names
}

func rootKeys(d domain.ProjectDescriptor, p domain.FrameworkProfile) []*domain.Conflict {
	var out []*domain.Conflict
	for _, injected := range p.RootKeys {
		user, ok := d.Extra.Get(injected.Key)
		if !ok {
			continue
		}
		if _, err := MergeValue(injected.Value, user); err != nil {
			out = append(out, &domain.Conflict{
				Kind:   domain.ConflictRootKey,
				Name:   injected.Key,
				Detail: err.Error(),
			})
		}
	}
	return out
}

func serviceRoles(d domain.ProjectDescriptor, p domain.FrameworkProfile) []*domain.Conflict {
	var out []*domain.Conflict
	for _, name := range d.ServiceNames() {
		declared := d.Services[name].Role
		if declared == "" {
			continue
		}
		derived := services.Classify(name, p.WorkerSuffix, p.SchedulerSuffix)
		if declared != derived {
			out = append(out, &domain.Conflict{
				Kind:   domain.ConflictServiceRole,
				Name:   name,
				Detail: fmt.Sprintf("declared role %s but the name classifies as %s", declared, derived),
			})
		}
	}
	return out
}

// Final checks the complete binding set: no two bindings may share an
// environment variable name. One conflict is reported per colliding name.
func Final(bindings []domain.EnvVarBinding) []*domain.Conflict {
	byName := make(map[string][]domain.EnvVarBinding)
	for _, b := range bindings {
		byName[b.Name] = append(byName[b.Name], b)
	}

	var out []*domain.Conflict
	for _, name := range domain.SortedKeys(byName) {
		group := byName[name]
		if len(group) < 2 {
			continue
		}
		sources := make([]string, len(group))
		for i, b := range group {
			sources[i] = b.Describe()
		}
		sort.Strings(sources)
		out = append(out, &domain.Conflict{
			Kind:    domain.ConflictEnvironment,
			Name:    name,
			Detail:  fmt.Sprintf("%d bindings resolve to the same environment variable", len(group)),
			Sources: sources,
		})
	}
	return out
}

// MergeValue combines an injected top-level value with the user's value for
// the same key. Mappings merge key by key, sequences become an ordered
// union with injected items first, scalars must be equal. Either side may
// be a domain.RawValue; the result is always plain.
func MergeValue(injected, user any) (any, error) {
	injected, err := domain.Plain(injected)
	if err != nil {
		return nil, err
	}
	user, err = domain.Plain(user)
	if err != nil {
		return nil, err
	}
	switch inj := injected.(type) {
	case map[string]any:
		u, ok := user.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected a mapping, got %T", user)
		}
		out := make(map[string]any, len(inj)+len(u))
		for k, v := range inj {
			out[k] = v
		}
		for _, k := range domain.SortedKeys(u) {
			existing, ok := out[k]
			if !ok {
				out[k] = u[k]
				continue
			}
			merged, err := MergeValue(existing, u[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = merged
		}
		return out, nil

	case []any:
		u, ok := user.([]any)
		if !ok {
			return nil, fmt.Errorf("expected a sequence, got %T", user)
		}
		out := append([]any(nil), inj...)
		for _, item := range u {
			if !containsValue(out, item) {
				out = append(out, item)
			}
		}
		return out, nil

	default:
		if !reflect.DeepEqual(injected, user) {
			return nil, fmt.Errorf("value %v differs from injected %v", user, injected)
		}
		return injected, nil
	}
}

func containsValue(list []any, v any) bool {
	for _, item := range list {
		if reflect.DeepEqual(item, v) {
			return true
		}
	}
	return false
}
