package descriptor

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/charmpack/charmpack/internal/domain"
	"gopkg.in/yaml.v3"
)

// Top-level keys the codec interprets. Everything else is pass-through.
const (
	keyExtensions  = "extensions"
	keyConfig      = "config"
	keyOptions     = "options"
	keyServices    = "services"
	keyEnvironment = "environment"
	keySecrets     = "secrets"
)

// YAMLCodec implements domain.DescriptorCodec with gopkg.in/yaml.v3. Key
// order of the top-level document, of options and of integration metadata
// is preserved through a decode/encode round trip, and pass-through values
// and option defaults are written back exactly as authored.
//
// environment and secrets are reserved: the engine recomputes both on every
// expansion, so authored content under them is discarded. A value that is
// not the shape the engine writes (a mapping of mappings, a sequence of
// mappings) is reported as a schema error rather than dropped silently.
type YAMLCodec struct{}

// New creates a YAMLCodec.
func New() *YAMLCodec { return &YAMLCodec{} }

type optionBody struct {
	Type        domain.OptionType `yaml:"type"`
	Default     yaml.Node         `yaml:"default"`
	Description string            `yaml:"description"`
	Keys        []string          `yaml:"keys"`
}

// Decode parses a descriptor document. Shape problems are reported as
// *domain.SchemaError values.
func (c *YAMLCodec) Decode(data []byte) (domain.ProjectDescriptor, error) {
	var d domain.ProjectDescriptor

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return d, &domain.SchemaError{Reason: err.Error()}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return d, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return d, &domain.SchemaError{Reason: "top level must be a mapping"}
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, root.Content[i+1]
		var err error
		switch key {
		case keyExtensions:
			err = decodeInto(value, &d.Extensions, keyExtensions)
		case keyConfig:
			d.Options, err = decodeOptions(value)
		case string(domain.RoleRequires):
			d.Requires, err = decodeEndpoints(value, key)
		case string(domain.RoleProvides):
			d.Provides, err = decodeEndpoints(value, key)
		case string(domain.RolePeers):
			d.Peers, err = decodeEndpoints(value, key)
		case keyServices:
			err = decodeInto(value, &d.Services, keyServices)
		case keyEnvironment:
			err = checkReserved(value, key, yaml.MappingNode, "a mapping of environment bindings")
		case keySecrets:
			err = checkReserved(value, key, yaml.SequenceNode, "a list of secret references")
		default:
			var v any
			v, err = rawValue(value, key)
			d.Extra = append(d.Extra, domain.Field{Key: key, Value: v})
		}
		if err != nil {
			return domain.ProjectDescriptor{}, err
		}
	}
	return d, nil
}

func decodeInto(n *yaml.Node, target any, field string) error {
	if err := n.Decode(target); err != nil {
		return &domain.SchemaError{Field: field, Reason: err.Error()}
	}
	return nil
}

// checkReserved accepts an engine-owned key only in the shape the engine
// writes it: a collection of kind whose entries are mappings.
func checkReserved(n *yaml.Node, field string, kind yaml.Kind, shape string) error {
	if isNull(n) {
		return nil
	}
	if n.Kind != kind {
		return &domain.SchemaError{Field: field, Reason: "reserved for expansion output; must be " + shape}
	}
	step := 1
	if kind == yaml.MappingNode {
		step = 2
	}
	for i := step - 1; i < len(n.Content); i += step {
		if n.Content[i].Kind != yaml.MappingNode {
			return &domain.SchemaError{Field: field, Reason: "reserved for expansion output; must be " + shape}
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

// rawNode carries an authored value through expansion untouched.
type rawNode struct {
	node *yaml.Node
}

func (r rawNode) Plain() (any, error) {
	var v any
	if err := r.node.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// rawValue validates n and keeps it as authored. Values holding aliases
// are decoded instead, since the anchor they point at may not be written.
func rawValue(n *yaml.Node, field string) (any, error) {
	var v any
	if err := decodeInto(n, &v, field); err != nil {
		return nil, err
	}
	if hasAlias(n) {
		return v, nil
	}
	return rawNode{node: n}, nil
}

func hasAlias(n *yaml.Node) bool {
	if n.Kind == yaml.AliasNode {
		return true
	}
	for _, c := range n.Content {
		if hasAlias(c) {
			return true
		}
	}
	return false
}

func decodeOptions(n *yaml.Node) ([]domain.ConfigOption, error) {
	if n.Kind != yaml.MappingNode {
		return nil, &domain.SchemaError{Field: keyConfig, Reason: "must be a mapping"}
	}
	var options []domain.ConfigOption
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value != keyOptions {
			return nil, &domain.SchemaError{
				Field:  keyConfig + "." + n.Content[i].Value,
				Reason: "unsupported key (only options is allowed)",
			}
		}
		body := n.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return nil, &domain.SchemaError{Field: "config.options", Reason: "must be a mapping"}
		}
		for j := 0; j+1 < len(body.Content); j += 2 {
			name := body.Content[j].Value
			var o optionBody
			if err := decodeInto(body.Content[j+1], &o, "config.options."+name); err != nil {
				return nil, err
			}
			var def any
			if o.Default.Kind != 0 && !isNull(&o.Default) {
				v, err := rawValue(&o.Default, "config.options."+name+".default")
				if err != nil {
					return nil, err
				}
				def = v
			}
			options = append(options, domain.ConfigOption{
				Name:        name,
				Type:        o.Type,
				Default:     def,
				Description: o.Description,
				Keys:        o.Keys,
			})
		}
	}
	return options, nil
}

func decodeEndpoints(n *yaml.Node, role string) (map[string]domain.IntegrationDeclaration, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, &domain.SchemaError{Field: role, Reason: "must be a mapping"}
	}
	out := make(map[string]domain.IntegrationDeclaration, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, body := n.Content[i].Value, n.Content[i+1]
		field := role + "." + key
		var decl domain.IntegrationDeclaration
		switch {
		case isNull(body):
		case body.Kind != yaml.MappingNode:
			return nil, &domain.SchemaError{Field: field, Reason: "must be a mapping"}
		default:
			for j := 0; j+1 < len(body.Content); j += 2 {
				k, v := body.Content[j].Value, body.Content[j+1]
				var err error
				switch k {
				case "interface":
					err = decodeInto(v, &decl.Interface, field+".interface")
				case "optional":
					var b bool
					err = decodeInto(v, &b, field+".optional")
					decl.Optional = &b
				case "limit":
					err = decodeInto(v, &decl.Limit, field+".limit")
				default:
					var extra any
					extra, err = rawValue(v, field+"."+k)
					decl.Extra = append(decl.Extra, domain.Field{Key: k, Value: extra})
				}
				if err != nil {
					return nil, err
				}
			}
		}
		out[key] = decl
	}
	return out, nil
}

// Encode renders an expanded descriptor. Pass-through keys come first in
// their recorded order, followed by the keys the engine owns.
func (c *YAMLCodec) Encode(e *domain.ExpandedDescriptor, format domain.OutputFormat) ([]byte, error) {
	root, err := buildDocument(e)
	if err != nil {
		return nil, err
	}

	switch format {
	case domain.FormatJSON:
		var buf bytes.Buffer
		if err := writeJSON(&buf, root); err != nil {
			return nil, err
		}
		var out bytes.Buffer
		if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
			return nil, fmt.Errorf("formatting json: %w", err)
		}
		out.WriteByte('\n')
		return out.Bytes(), nil
	case domain.FormatYAML, "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(root); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func buildDocument(e *domain.ExpandedDescriptor) (*yaml.Node, error) {
	m := newMapping()

	for _, f := range e.Extra {
		if err := m.add(f.Key, f.Value); err != nil {
			return nil, err
		}
	}
	if len(e.Extensions) > 0 {
		if err := m.add(keyExtensions, e.Extensions); err != nil {
			return nil, err
		}
	}

	if len(e.Options) > 0 {
		options := newMapping()
		for _, o := range e.Options {
			body := newMapping()
			if err := body.add("type", string(o.Type)); err != nil {
				return nil, err
			}
			if o.Default != nil {
				if err := body.add("default", o.Default); err != nil {
					return nil, err
				}
			}
			if o.Description != "" {
				if err := body.add("description", o.Description); err != nil {
					return nil, err
				}
			}
			if len(o.Keys) > 0 {
				if err := body.add("keys", o.Keys); err != nil {
					return nil, err
				}
			}
			options.addNode(o.Name, body.Node)
		}
		config := newMapping()
		config.addNode(keyOptions, options.Node)
		m.addNode(keyConfig, config.Node)
	}

	for _, role := range domain.IntegrationRoles {
		endpoints := e.Endpoints(role)
		if len(endpoints) == 0 {
			continue
		}
		section := newMapping()
		for _, key := range domain.SortedKeys(endpoints) {
			decl := endpoints[key]
			body := newMapping()
			if err := body.add("interface", decl.Interface); err != nil {
				return nil, err
			}
			if err := body.add("optional", decl.IsOptional()); err != nil {
				return nil, err
			}
			if err := body.add("limit", decl.EffectiveLimit()); err != nil {
				return nil, err
			}
			for _, f := range decl.Extra {
				if err := body.add(f.Key, f.Value); err != nil {
					return nil, err
				}
			}
			section.addNode(key, body.Node)
		}
		m.addNode(string(role), section.Node)
	}

	if len(e.Services) > 0 {
		services := newMapping()
		for _, name := range e.ServiceNames() {
			svc := e.Services[name]
			body := newMapping()
			if svc.Command != "" {
				if err := body.add("command", svc.Command); err != nil {
					return nil, err
				}
			}
			if err := body.add("role", string(svc.Role)); err != nil {
				return nil, err
			}
			services.addNode(name, body.Node)
		}
		m.addNode(keyServices, services.Node)
	}

	if len(e.Environment) > 0 {
		env := newMapping()
		for _, b := range e.Environment {
			body := newMapping()
			fields := []struct{ k, v string }{
				{"source", string(b.Source)},
				{"option", b.Option},
				{"role", string(b.Role)},
				{"integration", b.Integration},
				{"field", b.Field},
				{"secret-key", b.SecretKey},
			}
			for _, f := range fields {
				if f.v == "" {
					continue
				}
				if err := body.add(f.k, f.v); err != nil {
					return nil, err
				}
			}
			env.addNode(b.Name, body.Node)
		}
		m.addNode(keyEnvironment, env.Node)
	}

	if len(e.Secrets) > 0 {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, s := range e.Secrets {
			body := newMapping()
			fields := []struct{ k, v string }{
				{"option", s.Option},
				{"reference", s.Reference},
				{"key", s.Key},
				{"placeholder", s.Placeholder},
				{"binding", s.Binding},
			}
			for _, f := range fields {
				if f.v == "" {
					continue
				}
				if err := body.add(f.k, f.v); err != nil {
					return nil, err
				}
			}
			seq.Content = append(seq.Content, body.Node)
		}
		m.addNode(keySecrets, seq)
	}

	return m.Node, nil
}

// mapping builds an ordered yaml mapping node.
type mapping struct {
	*yaml.Node
}

func newMapping() mapping {
	return mapping{&yaml.Node{Kind: yaml.MappingNode}}
}

func (m mapping) addNode(key string, value *yaml.Node) {
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
}

func (m mapping) add(key string, value any) error {
	if r, ok := value.(rawNode); ok {
		m.addNode(key, r.node)
		return nil
	}
	var n yaml.Node
	if err := n.Encode(value); err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	m.addNode(key, &n)
	return nil
}

// writeJSON renders n as compact JSON, keeping mapping order.
func writeJSON(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		return writeJSON(buf, n.Content[0])
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(n.Content[i].Value)
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, item := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case yaml.AliasNode:
		return writeJSON(buf, n.Alias)
	default:
		if lit, ok := jsonLiteral(n); ok {
			buf.WriteString(lit)
			return nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		buf.Write(b)
	}
	return nil
}

// jsonLiteral renders scalars whose authored text JSON can carry as is:
// numbers keep their digits and timestamps stay strings.
func jsonLiteral(n *yaml.Node) (string, bool) {
	switch n.ShortTag() {
	case "!!int", "!!float":
		if json.Valid([]byte(n.Value)) {
			return n.Value, true
		}
	case "!!timestamp":
		b, err := json.Marshal(n.Value)
		if err == nil {
			return string(b), true
		}
	}
	return "", false
}
