// Package expand turns a framework-tagged descriptor into the fully
// populated descriptor the packer consumes.
package expand

import (
	"errors"
	"fmt"
	"sort"

	"github.com/charmpack/charmpack/internal/domain"
	"github.com/charmpack/charmpack/internal/domain/catalog"
	"github.com/charmpack/charmpack/internal/domain/conflict"
	"github.com/charmpack/charmpack/internal/domain/naming"
	"github.com/charmpack/charmpack/internal/domain/profiles"
	"github.com/charmpack/charmpack/internal/domain/secrets"
	"github.com/charmpack/charmpack/internal/domain/services"
)

// Expander applies framework profiles to descriptors. It holds no mutable
// state and is safe for concurrent use.
type Expander struct {
	registry *profiles.Registry
	limits   domain.Limits
}

// New creates an Expander over registry, bounding work by limits.
func New(registry *profiles.Registry, limits domain.Limits) *Expander {
	return &Expander{registry: registry, limits: limits}
}

// Expand applies the profile named by tag to d. An empty tag uses the
// extension d declares; a descriptor declaring none is returned without
// injected content. Expansion either fully succeeds or returns every
// problem found, joined; there is no partial output.
func (e *Expander) Expand(d domain.ProjectDescriptor, tag string) (*domain.ExpandedDescriptor, error) {
	if err := e.limits.Check(d); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	tag, err := resolveTag(d, tag)
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return &domain.ExpandedDescriptor{ProjectDescriptor: passthrough(d)}, nil
	}

	profile, err := e.registry.Get(tag)
	if err != nil {
		return nil, err
	}

	conflicts := conflict.Raw(d, profile)

	out := domain.ProjectDescriptor{Extensions: []string{tag}}

	options := mergeOptions(d, profile)
	out.Options = options
	bindings := optionBindings(options, profile)

	for _, role := range domain.IntegrationRoles {
		merged := mergeEndpoints(role, d.Endpoints(role), profile.Integrations[role])
		setEndpoints(&out, role, merged)
		for _, key := range domain.SortedKeys(merged) {
			bindings = append(bindings, catalog.Bindings(profile.Prefix, role, key, merged[key])...)
		}
	}

	out.Services = classifyServices(d, profile)

	refs, secretBindings, secretErrs := secrets.Resolve(profile.Prefix, options)
	bindings = append(bindings, secretBindings...)

	out.Extra = mergeRootKeys(d.Extra, profile.RootKeys)

	conflicts = append(conflicts, conflict.Final(bindings)...)

	errs := secretErrs
	if len(conflicts) > 0 {
		errs = append(errs, &domain.ConflictError{Conflicts: conflicts})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	sort.Slice(bindings, func(i, j int) bool { return bindings[i].Name < bindings[j].Name })

	return &domain.ExpandedDescriptor{
		ProjectDescriptor: out,
		Environment:       bindings,
		Secrets:           refs,
	}, nil
}

func resolveTag(d domain.ProjectDescriptor, requested string) (string, error) {
	var declared string
	if len(d.Extensions) == 1 {
		declared = d.Extensions[0]
	}
	switch {
	case requested == "":
		return declared, nil
	case declared != "" && declared != requested:
		return "", &domain.SchemaError{
			Field:  "extensions",
			Reason: fmt.Sprintf("descriptor declares %q but %q was requested", declared, requested),
		}
	}
	return requested, nil
}

// passthrough copies d for output when no extension applies.
func passthrough(d domain.ProjectDescriptor) domain.ProjectDescriptor {
	out := d
	out.Extensions = append([]string(nil), d.Extensions...)
	out.Options = append([]domain.ConfigOption(nil), d.Options...)
	out.Extra = append(domain.ExtraFields(nil), d.Extra...)
	return out
}

// mergeOptions places the profile's predefined options first, in profile
// order, followed by the user's options in declaration order. A user option
// sharing a predefined name is dropped: it is either identical or already
// reported as a conflict.
func mergeOptions(d domain.ProjectDescriptor, p domain.FrameworkProfile) []domain.ConfigOption {
	out := make([]domain.ConfigOption, 0, len(p.Options)+len(d.Options))
	for _, o := range p.Options {
		out = append(out, o.ConfigOption)
	}
	for _, o := range d.Options {
		if _, predefined := p.Option(o.Name); predefined {
			continue
		}
		out = append(out, o)
	}
	return out
}

func optionBindings(options []domain.ConfigOption, p domain.FrameworkProfile) []domain.EnvVarBinding {
	var out []domain.EnvVarBinding
	for _, o := range options {
		if o.Type == domain.OptionSecret {
			continue
		}
		name := naming.EnvName(p.Prefix, o.Name)
		if pre, ok := p.Option(o.Name); ok && pre.Env != "" {
			name = pre.Env
		}
		out = append(out, domain.EnvVarBinding{Name: name, Source: domain.SourceOption, Option: o.Name})
	}
	return out
}

// mergeEndpoints layers user declarations over pre-loaded ones. For an
// immutable pre-loaded endpoint the user may only extend: a higher limit
// and extra metadata are taken, interface and optionality are not.
func mergeEndpoints(role domain.IntegrationRole, user, preloaded map[string]domain.IntegrationDeclaration) map[string]domain.IntegrationDeclaration {
	out := make(map[string]domain.IntegrationDeclaration, len(user)+len(preloaded))
	for k, v := range preloaded {
		out[k] = normalize(v)
	}
	for k, u := range user {
		pre, ok := preloaded[k]
		if !ok {
			out[k] = normalize(u)
			continue
		}
		merged := pre
		if !pre.Immutable {
			merged.Interface = u.Interface
			if u.Optional != nil {
				merged.Optional = u.Optional
			}
		}
		if u.Limit > 0 {
			merged.Limit = u.Limit
		}
		for _, f := range u.Extra {
			merged.Extra = merged.Extra.Set(f.Key, f.Value)
		}
		out[k] = normalize(merged)
	}
	return out
}

// normalize makes optional and limit explicit so the output is fully
// populated and re-expands to itself.
func normalize(d domain.IntegrationDeclaration) domain.IntegrationDeclaration {
	optional := d.IsOptional()
	d.Optional = &optional
	d.Limit = d.EffectiveLimit()
	d.Immutable = false
	return d
}

func setEndpoints(d *domain.ProjectDescriptor, role domain.IntegrationRole, m map[string]domain.IntegrationDeclaration) {
	if len(m) == 0 {
		return
	}
	switch role {
	case domain.RoleRequires:
		d.Requires = m
	case domain.RoleProvides:
		d.Provides = m
	case domain.RolePeers:
		d.Peers = m
	}
}

func classifyServices(d domain.ProjectDescriptor, p domain.FrameworkProfile) map[string]domain.ServiceDeclaration {
	if len(d.Services) == 0 {
		return nil
	}
	roles := services.ClassifyAll(d.ServiceNames(), p)
	out := make(map[string]domain.ServiceDeclaration, len(d.Services))
	for name, svc := range d.Services {
		svc.Role = roles[name]
		out[name] = svc
	}
	return out
}

// mergeRootKeys keeps the user's keys in their order, merging injected
// values into any the profile also sets, and appends the remaining
// injected keys in profile order.
func mergeRootKeys(user, injected domain.ExtraFields) domain.ExtraFields {
	out := make(domain.ExtraFields, 0, len(user)+len(injected))
	for _, f := range user {
		if inj, ok := injected.Get(f.Key); ok {
			if merged, err := conflict.MergeValue(inj, f.Value); err == nil {
				f.Value = merged
			}
		}
		out = append(out, f)
	}
	for _, f := range injected {
		if _, ok := user.Get(f.Key); !ok {
			out = append(out, f)
		}
	}
	return out
}
