package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Settings are process-wide knobs read from CHARMPACK_* environment
// variables.
type Settings struct {
	LogLevel   string `envconfig:"LOG_LEVEL" default:"warn"`
	LogDev     bool   `envconfig:"LOG_DEV" default:"false"`
	Descriptor string `envconfig:"DESCRIPTOR"`
}

// LoadSettings reads Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := envconfig.Process("charmpack", &s); err != nil {
		return Settings{}, fmt.Errorf("reading CHARMPACK_* environment: %w", err)
	}
	return s, nil
}
