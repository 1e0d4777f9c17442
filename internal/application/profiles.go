package application

import (
	"github.com/charmpack/charmpack/internal/domain"
	"github.com/charmpack/charmpack/internal/domain/catalog"
	"github.com/charmpack/charmpack/internal/domain/naming"
	"github.com/charmpack/charmpack/internal/domain/profiles"
)

// ProfileSummary is the machine-readable view of one extension.
type ProfileSummary struct {
	Tag             string               `json:"tag"`
	Description     string               `json:"description"`
	Prefix          string               `json:"prefix"`
	WorkerSuffix    string               `json:"worker_suffix,omitempty"`
	SchedulerSuffix string               `json:"scheduler_suffix,omitempty"`
	Options         []OptionSummary      `json:"options"`
	Integrations    []IntegrationSummary `json:"integrations"`
	RootKeys        []string             `json:"root_keys,omitempty"`
}

type OptionSummary struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Env         string `json:"env"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

type IntegrationSummary struct {
	Role      string `json:"role"`
	Name      string `json:"name"`
	Interface string `json:"interface"`
	Category  string `json:"category,omitempty"`
	Optional  bool   `json:"optional"`
	Immutable bool   `json:"immutable"`
	Limit     int    `json:"limit"`
}

// SummarizeProfile flattens p, deriving the variable name of every
// predefined option.
func SummarizeProfile(p domain.FrameworkProfile) ProfileSummary {
	s := ProfileSummary{
		Tag:             p.Tag,
		Description:     p.Description,
		Prefix:          p.Prefix,
		WorkerSuffix:    p.WorkerSuffix,
		SchedulerSuffix: p.SchedulerSuffix,
		Options:         make([]OptionSummary, 0, len(p.Options)),
		Integrations:    []IntegrationSummary{},
		RootKeys:        p.RootKeys.Keys(),
	}
	for _, o := range p.Options {
		env := o.Env
		if env == "" {
			env = naming.EnvName(p.Prefix, o.Name)
		}
		s.Options = append(s.Options, OptionSummary{
			Name:        o.Name,
			Type:        string(o.Type),
			Env:         env,
			Default:     o.DefaultValue(),
			Description: o.Description,
		})
	}
	for _, role := range domain.IntegrationRoles {
		decls := p.Integrations[role]
		for _, key := range domain.SortedKeys(decls) {
			d := decls[key]
			var category string
			if entry, ok := catalog.Lookup(d.Interface); ok {
				category = string(entry.Category)
			}
			s.Integrations = append(s.Integrations, IntegrationSummary{
				Role:      string(role),
				Name:      key,
				Interface: d.Interface,
				Category:  category,
				Optional:  d.IsOptional(),
				Immutable: d.Immutable,
				Limit:     d.EffectiveLimit(),
			})
		}
	}
	return s
}

// Profiles summarizes every registered extension in tag order.
func (s *ExpandService) Profiles() []ProfileSummary {
	all := s.registry.Profiles()
	out := make([]ProfileSummary, 0, len(all))
	for _, p := range all {
		out = append(out, SummarizeProfile(p))
	}
	return out
}

// Profile summarizes the extension registered under tag.
func (s *ExpandService) Profile(tag string) (ProfileSummary, error) {
	p, err := s.registry.Get(tag)
	if err != nil {
		return ProfileSummary{}, err
	}
	return SummarizeProfile(p), nil
}

// InterfaceSummary describes one integration interface the engine derives
// environment variables for.
type InterfaceSummary struct {
	Interface string   `json:"interface"`
	Category  string   `json:"category"`
	Variables []string `json:"variables"`
}

// CatalogSummary is everything charmpack knows how to expand: the
// registered extensions and the integration interfaces they can bind.
type CatalogSummary struct {
	ProfilesVersion string             `json:"profiles_version"`
	Extensions      []ProfileSummary   `json:"extensions"`
	Interfaces      []InterfaceSummary `json:"interfaces"`
}

// SummarizeInterfaces lists the interface catalog in name order. Variables
// holds the suffix appended to an endpoint's variable name for each field.
func SummarizeInterfaces() []InterfaceSummary {
	names := catalog.Interfaces()
	out := make([]InterfaceSummary, 0, len(names))
	for _, name := range names {
		entry, _ := catalog.Lookup(name)
		vars := make([]string, 0, len(entry.Variables))
		for _, v := range entry.Variables {
			vars = append(vars, v.Suffix)
		}
		out = append(out, InterfaceSummary{
			Interface: entry.Interface,
			Category:  string(entry.Category),
			Variables: vars,
		})
	}
	return out
}

// Catalog summarizes every extension and every known interface.
func (s *ExpandService) Catalog() CatalogSummary {
	return CatalogSummary{
		ProfilesVersion: profiles.Version,
		Extensions:      s.Profiles(),
		Interfaces:      SummarizeInterfaces(),
	}
}
