package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmpack/charmpack/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the project-level engine configuration file.
const FileName = ".charmpack.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .charmpack.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .charmpack.yaml from projectPath and overlays it on the
// defaults. A missing file yields DefaultConfig.
func (l *YAMLLoader) Load(projectPath string) (domain.EngineConfig, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.EngineConfig{}, err
	}

	var cfg domain.EngineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.EngineConfig{}, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	// Validate the raw input so typos are not hidden by defaults.
	if err := cfg.Validate(); err != nil {
		return domain.EngineConfig{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}

	return domain.DefaultConfig().Merge(cfg), nil
}
