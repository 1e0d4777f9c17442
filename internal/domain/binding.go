package domain

import "fmt"

// BindingSource identifies what produced an environment variable.
type BindingSource string

const (
	SourceOption      BindingSource = "option"
	SourceIntegration BindingSource = "integration"
	SourceSecret      BindingSource = "secret"
)

// EnvVarBinding is a resolved environment variable and where it comes from.
type EnvVarBinding struct {
	Name        string          `json:"name"`
	Source      BindingSource   `json:"source"`
	Option      string          `json:"option,omitempty"`
	Role        IntegrationRole `json:"role,omitempty"`
	Integration string          `json:"integration,omitempty"`
	Field       string          `json:"field,omitempty"`
	SecretKey   string          `json:"secret_key,omitempty"`
}

// Describe renders the binding's origin for error messages.
func (b EnvVarBinding) Describe() string {
	switch b.Source {
	case SourceIntegration:
		return fmt.Sprintf("%s.%s (%s)", b.Role, b.Integration, b.Field)
	case SourceSecret:
		return fmt.Sprintf("secret option %q key %q", b.Option, b.SecretKey)
	default:
		return fmt.Sprintf("option %q", b.Option)
	}
}

// SecretReference is the contract a secret-typed option establishes: the
// referenced secret must hold Key, surfaced to the workload as Binding.
type SecretReference struct {
	Option string `json:"option"`
	// Reference is the option's default "secret:<id>" value, if any.
	Reference   string `json:"reference,omitempty"`
	Key         string `json:"key"`
	Placeholder string `json:"placeholder"`
	Binding     string `json:"binding"`
}

// ExpandedDescriptor is the fully populated descriptor produced by expansion.
type ExpandedDescriptor struct {
	ProjectDescriptor
	// Environment is sorted by Name.
	Environment []EnvVarBinding `json:"environment,omitempty"`
	// Secrets follows option declaration order, then key order.
	Secrets []SecretReference `json:"secrets,omitempty"`
}

// Binding returns the binding named name.
func (e *ExpandedDescriptor) Binding(name string) (EnvVarBinding, bool) {
	for _, b := range e.Environment {
		if b.Name == name {
			return b, true
		}
	}
	return EnvVarBinding{}, false
}
