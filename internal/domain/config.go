package domain

import "fmt"

// OutputFormat selects how expanded descriptors are encoded.
type OutputFormat string

const (
	FormatYAML OutputFormat = "yaml"
	FormatJSON OutputFormat = "json"
)

// ValidFormats enumerates all recognized output formats.
var ValidFormats = []OutputFormat{FormatYAML, FormatJSON}

// EngineConfig holds project-level configuration loaded from .charmpack.yaml.
type EngineConfig struct {
	// Descriptor is the descriptor file name relative to the project directory.
	Descriptor   string       `yaml:"descriptor"     json:"descriptor,omitempty"`
	Format       OutputFormat `yaml:"format"         json:"format,omitempty"`
	Limits       Limits       `yaml:"limits"         json:"limits,omitempty"`
	ExcludePaths []string     `yaml:"exclude_paths"  json:"exclude_paths,omitempty"`
}

// DefaultDescriptorFile is the descriptor read when none is configured.
const DefaultDescriptorFile = "charmcraft.yaml"

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() EngineConfig {
	return EngineConfig{
		Descriptor: DefaultDescriptorFile,
		Format:     FormatYAML,
		Limits:     DefaultLimits(),
	}
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c EngineConfig) Validate() error {
	// 1. format must be known or empty
	if c.Format != "" {
		valid := false
		for _, f := range ValidFormats {
			if c.Format == f {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown format %q (valid: yaml, json)", c.Format)
		}
	}

	// 2. limits must be non-negative and below the hard ceilings
	limits := []struct {
		name    string
		value   int
		ceiling int
	}{
		{"max_options", c.Limits.MaxOptions, CeilingOptions},
		{"max_integrations", c.Limits.MaxIntegrations, CeilingIntegrations},
		{"max_services", c.Limits.MaxServices, CeilingServices},
	}
	for _, l := range limits {
		if l.value < 0 {
			return fmt.Errorf("limits.%s must not be negative (got %d)", l.name, l.value)
		}
		if l.value > l.ceiling {
			return fmt.Errorf("limits.%s = %d exceeds the ceiling of %d", l.name, l.value, l.ceiling)
		}
	}

	// 3. exclude paths must not be empty strings
	for i, p := range c.ExcludePaths {
		if p == "" {
			return fmt.Errorf("exclude_paths[%d] must not be empty", i)
		}
	}

	return nil
}

// Merge overlays explicit (non-zero) values of override on c.
func (c EngineConfig) Merge(override EngineConfig) EngineConfig {
	result := c
	if override.Descriptor != "" {
		result.Descriptor = override.Descriptor
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Limits.MaxOptions > 0 {
		result.Limits.MaxOptions = override.Limits.MaxOptions
	}
	if override.Limits.MaxIntegrations > 0 {
		result.Limits.MaxIntegrations = override.Limits.MaxIntegrations
	}
	if override.Limits.MaxServices > 0 {
		result.Limits.MaxServices = override.Limits.MaxServices
	}
	if len(override.ExcludePaths) > 0 {
		result.ExcludePaths = override.ExcludePaths
	}
	return result
}
