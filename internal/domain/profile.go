package domain

// PredefinedOption is a config option a profile injects with fixed
// semantics. Env, when set, pins the environment variable name instead of
// deriving it from the option name.
type PredefinedOption struct {
	ConfigOption
	Env string
}

// FrameworkProfile carries everything the engine needs to expand one
// framework extension. Profiles are read-only once registered.
type FrameworkProfile struct {
	Tag         string
	Description string
	// Prefix namespaces every environment variable the profile derives.
	Prefix  string
	Options []PredefinedOption
	// Integrations are pre-loaded endpoints, keyed by role then endpoint name.
	Integrations map[IntegrationRole]map[string]IntegrationDeclaration
	// Services whose name ends in WorkerSuffix run on every unit; those
	// ending in SchedulerSuffix run on exactly one.
	WorkerSuffix    string
	SchedulerSuffix string
	// RootKeys are top-level keys injected into the descriptor.
	RootKeys ExtraFields
}

// Option returns the predefined option named name.
func (p FrameworkProfile) Option(name string) (PredefinedOption, bool) {
	for _, o := range p.Options {
		if o.Name == name {
			return o, true
		}
	}
	return PredefinedOption{}, false
}

// Integration finds a pre-loaded endpoint by key in any role.
func (p FrameworkProfile) Integration(key string) (IntegrationRole, IntegrationDeclaration, bool) {
	for _, role := range IntegrationRoles {
		if decl, ok := p.Integrations[role][key]; ok {
			return role, decl, true
		}
	}
	return "", IntegrationDeclaration{}, false
}

// Limits bounds the work a single expansion may do.
type Limits struct {
	MaxOptions      int `yaml:"max_options"      json:"max_options,omitempty"`
	MaxIntegrations int `yaml:"max_integrations" json:"max_integrations,omitempty"`
	MaxServices     int `yaml:"max_services"     json:"max_services,omitempty"`
}

// Hard ceilings that configuration cannot raise limits past.
const (
	CeilingOptions      = 5000
	CeilingIntegrations = 1000
	CeilingServices     = 500
)

// DefaultLimits returns the limits used when nothing is configured.
func DefaultLimits() Limits {
	return Limits{
		MaxOptions:      1000,
		MaxIntegrations: 200,
		MaxServices:     100,
	}
}

// Check returns an *OversizeError for the first exceeded limit.
func (l Limits) Check(d ProjectDescriptor) error {
	switch {
	case len(d.Options) > l.MaxOptions:
		return &OversizeError{What: "options", Limit: l.MaxOptions, Actual: len(d.Options)}
	case d.IntegrationCount() > l.MaxIntegrations:
		return &OversizeError{What: "integrations", Limit: l.MaxIntegrations, Actual: d.IntegrationCount()}
	case len(d.Services) > l.MaxServices:
		return &OversizeError{What: "services", Limit: l.MaxServices, Actual: len(d.Services)}
	}
	return nil
}
