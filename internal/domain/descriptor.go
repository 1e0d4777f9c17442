package domain

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/charmpack/charmpack/internal/domain/naming"
)

// OptionType is the declared type of a config option.
type OptionType string

const (
	OptionString  OptionType = "string"
	OptionInt     OptionType = "int"
	OptionFloat   OptionType = "float"
	OptionBoolean OptionType = "boolean"
	OptionSecret  OptionType = "secret"
)

// ValidOptionTypes enumerates all recognized option types.
var ValidOptionTypes = []OptionType{
	OptionString, OptionInt, OptionFloat, OptionBoolean, OptionSecret,
}

// DefaultSecretKey is the secret content key assumed when a secret option
// does not list its keys.
const DefaultSecretKey = "value"

// ConfigOption is a single entry under config.options.
type ConfigOption struct {
	Name        string     `json:"name"`
	Type        OptionType `json:"type"`
	Default     any        `json:"default,omitempty"`
	Description string     `json:"description,omitempty"`
	// Keys lists the content keys a secret option's secret must carry.
	Keys []string `json:"keys,omitempty"`
}

// SecretKeys returns the content keys for a secret option, falling back
// to DefaultSecretKey.
func (o ConfigOption) SecretKeys() []string {
	if len(o.Keys) == 0 {
		return []string{DefaultSecretKey}
	}
	return o.Keys
}

// DefaultValue returns the default in plain Go form, decoding a RawValue.
func (o ConfigOption) DefaultValue() any {
	v, err := Plain(o.Default)
	if err != nil {
		return o.Default
	}
	return v
}

// Equal reports whether two options are declared identically.
func (o ConfigOption) Equal(other ConfigOption) bool {
	return o.Name == other.Name &&
		o.Type == other.Type &&
		o.Description == other.Description &&
		reflect.DeepEqual(o.DefaultValue(), other.DefaultValue()) &&
		reflect.DeepEqual(o.Keys, other.Keys)
}

// IntegrationRole is the section an integration endpoint is declared in.
type IntegrationRole string

const (
	RoleRequires IntegrationRole = "requires"
	RoleProvides IntegrationRole = "provides"
	RolePeers    IntegrationRole = "peers"
)

// IntegrationRoles lists the roles in output order.
var IntegrationRoles = []IntegrationRole{RoleRequires, RoleProvides, RolePeers}

// IntegrationDeclaration describes one integration endpoint.
type IntegrationDeclaration struct {
	Interface string `json:"interface"`
	// Optional is nil when the author did not say.
	Optional *bool `json:"optional,omitempty"`
	// Limit is the cardinality limit; 0 means unspecified (treated as 1).
	Limit int `json:"limit,omitempty"`
	// Immutable marks profile-injected endpoints whose interface and
	// optionality cannot be redefined.
	Immutable bool        `json:"-"`
	Extra     ExtraFields `json:"-"`
}

// IsOptional resolves the optional flag, defaulting to false.
func (d IntegrationDeclaration) IsOptional() bool {
	return d.Optional != nil && *d.Optional
}

// EffectiveLimit resolves the cardinality limit, defaulting to 1.
func (d IntegrationDeclaration) EffectiveLimit() int {
	if d.Limit <= 0 {
		return 1
	}
	return d.Limit
}

// ServiceRole classifies a workload service.
type ServiceRole string

const (
	RolePrimary   ServiceRole = "primary"
	RoleWorker    ServiceRole = "worker"
	RoleScheduler ServiceRole = "scheduler"
)

// ServiceDeclaration is one entry under services.
type ServiceDeclaration struct {
	Command string      `json:"command,omitempty"`
	Role    ServiceRole `json:"role,omitempty"`
}

// ProjectDescriptor is the user-authored project definition. It is treated
// as immutable once parsed.
type ProjectDescriptor struct {
	Extensions []string                          `json:"extensions,omitempty"`
	Options    []ConfigOption                    `json:"options,omitempty"`
	Requires   map[string]IntegrationDeclaration `json:"requires,omitempty"`
	Provides   map[string]IntegrationDeclaration `json:"provides,omitempty"`
	Peers      map[string]IntegrationDeclaration `json:"peers,omitempty"`
	Services   map[string]ServiceDeclaration     `json:"services,omitempty"`
	// Extra holds every other top-level key, in input order.
	Extra ExtraFields `json:"-"`
}

// Endpoints returns the declarations for role.
func (d ProjectDescriptor) Endpoints(role IntegrationRole) map[string]IntegrationDeclaration {
	switch role {
	case RoleRequires:
		return d.Requires
	case RoleProvides:
		return d.Provides
	case RolePeers:
		return d.Peers
	}
	return nil
}

// Option returns the declared option named name.
func (d ProjectDescriptor) Option(name string) (ConfigOption, bool) {
	for _, o := range d.Options {
		if o.Name == name {
			return o, true
		}
	}
	return ConfigOption{}, false
}

// IntegrationCount is the total number of declared endpoints.
func (d ProjectDescriptor) IntegrationCount() int {
	return len(d.Requires) + len(d.Provides) + len(d.Peers)
}

// ServiceNames returns the declared service names, sorted.
func (d ProjectDescriptor) ServiceNames() []string {
	return SortedKeys(d.Services)
}

// Validate checks the descriptor's shape. Every problem is reported, joined
// into a single error of *SchemaError values.
func (d ProjectDescriptor) Validate() error {
	var errs []error

	if len(d.Extensions) > 1 {
		errs = append(errs, &SchemaError{Field: "extensions", Reason: fmt.Sprintf("at most one extension is supported (got %d)", len(d.Extensions))})
	}
	for _, ext := range d.Extensions {
		if ext == "" {
			errs = append(errs, &SchemaError{Field: "extensions", Reason: "extension tag must not be empty"})
		}
	}

	seen := make(map[string]bool, len(d.Options))
	for _, o := range d.Options {
		field := "config.options." + o.Name
		if !naming.ValidOptionName(o.Name) {
			reason := fmt.Sprintf("option name %q must be kebab-case", o.Name)
			if s := naming.Suggest(o.Name); s != "" {
				reason += fmt.Sprintf(" (did you mean %q?)", s)
			}
			errs = append(errs, &SchemaError{Field: field, Reason: reason})
		}
		if seen[o.Name] {
			errs = append(errs, &SchemaError{Field: field, Reason: "option declared more than once"})
		}
		seen[o.Name] = true

		if !isValidOptionType(o.Type) {
			errs = append(errs, &SchemaError{Field: field + ".type", Reason: fmt.Sprintf("unknown type %q (valid: string, int, float, boolean, secret)", o.Type)})
			continue
		}
		if def := o.DefaultValue(); def != nil && !defaultMatchesType(o.Type, def) {
			errs = append(errs, &SchemaError{Field: field + ".default", Reason: fmt.Sprintf("default %v is not a valid %s", def, o.Type)})
		}
		if len(o.Keys) > 0 && o.Type != OptionSecret {
			errs = append(errs, &SchemaError{Field: field + ".keys", Reason: "keys are only allowed on secret options"})
		}
		for _, k := range o.Keys {
			if !naming.ValidOptionName(k) {
				errs = append(errs, &SchemaError{Field: field + ".keys", Reason: fmt.Sprintf("secret key %q must be kebab-case", k)})
			}
		}
	}

	for _, role := range IntegrationRoles {
		for _, key := range SortedKeys(d.Endpoints(role)) {
			decl := d.Endpoints(role)[key]
			field := string(role) + "." + key
			if !naming.ValidOptionName(key) {
				errs = append(errs, &SchemaError{Field: field, Reason: fmt.Sprintf("endpoint name %q must be kebab-case", key)})
			}
			if decl.Interface == "" {
				errs = append(errs, &SchemaError{Field: field + ".interface", Reason: "interface is required"})
			}
			if decl.Limit < 0 {
				errs = append(errs, &SchemaError{Field: field + ".limit", Reason: fmt.Sprintf("limit must be >= 1 (got %d)", decl.Limit)})
			}
		}
	}

	for _, name := range d.ServiceNames() {
		svc := d.Services[name]
		if !naming.ValidOptionName(name) {
			errs = append(errs, &SchemaError{Field: "services." + name, Reason: fmt.Sprintf("service name %q must be kebab-case", name)})
		}
		switch svc.Role {
		case "", RolePrimary, RoleWorker, RoleScheduler:
		default:
			errs = append(errs, &SchemaError{Field: "services." + name + ".role", Reason: fmt.Sprintf("unknown role %q (valid: primary, worker, scheduler)", svc.Role)})
		}
	}

	return errors.Join(errs...)
}

func isValidOptionType(t OptionType) bool {
	for _, v := range ValidOptionTypes {
		if t == v {
			return true
		}
	}
	return false
}

func defaultMatchesType(t OptionType, v any) bool {
	switch t {
	case OptionString, OptionSecret:
		_, ok := v.(string)
		return ok
	case OptionInt:
		switch v.(type) {
		case int, int64, uint64:
			return true
		}
	case OptionFloat:
		switch v.(type) {
		case float64, int, int64:
			return true
		}
	case OptionBoolean:
		_, ok := v.(bool)
		return ok
	}
	return false
}

// RawValue is a value kept exactly as it was authored. Adapters that read
// descriptors store one wherever the engine only carries content through,
// so writing it back reproduces the original text.
type RawValue interface {
	Plain() (any, error)
}

// Plain returns v in plain Go form (maps, slices and scalars), decoding it
// first when it is a RawValue.
func Plain(v any) (any, error) {
	if r, ok := v.(RawValue); ok {
		return r.Plain()
	}
	return v, nil
}

// Field is one pass-through key/value pair.
type Field struct {
	Key   string
	Value any
}

// ExtraFields is an ordered bag of keys the engine does not interpret.
type ExtraFields []Field

// Get returns the value stored under key.
func (f ExtraFields) Get(key string) (any, bool) {
	for _, kv := range f {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return nil, false
}

// Set returns a copy of f with key set to value, appending new keys.
func (f ExtraFields) Set(key string, value any) ExtraFields {
	out := make(ExtraFields, len(f), len(f)+1)
	copy(out, f)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Field{Key: key, Value: value})
}

// Keys returns the keys in order.
func (f ExtraFields) Keys() []string {
	keys := make([]string, len(f))
	for i, kv := range f {
		keys[i] = kv.Key
	}
	return keys
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
