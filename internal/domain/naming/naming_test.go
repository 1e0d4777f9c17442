package naming_test

import (
	"testing"

	"github.com/charmpack/charmpack/internal/domain/naming"
	"github.com/stretchr/testify/assert"
)

func TestEnvName(t *testing.T) {
	tests := []struct {
		prefix, name, want string
	}{
		{"APP", "token", "APP_TOKEN"},
		{"FLASK", "config-option-name", "FLASK_CONFIG_OPTION_NAME"},
		{"DJANGO", "a", "DJANGO_A"},
		{"APP", "port-8080", "APP_PORT_8080"},
		{"", "metrics-path", "METRICS_PATH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, naming.EnvName(tt.prefix, tt.name))
		})
	}
}

func TestEnvName_InjectiveOverKebabNames(t *testing.T) {
	names := []string{"a", "a-b", "ab", "a-b-c", "ab-c", "a-bc", "abc"}
	seen := make(map[string]string)
	for _, n := range names {
		assert.True(t, naming.ValidOptionName(n), n)
		env := naming.EnvName("APP", n)
		if prev, ok := seen[env]; ok {
			t.Fatalf("%q and %q both map to %s", prev, n, env)
		}
		seen[env] = n
	}
}

func TestValidOptionName(t *testing.T) {
	valid := []string{"token", "config-option-name", "webserver-workers", "port-8080", "a1"}
	invalid := []string{"", "Token", "config_option", "-lead", "trail-", "double--dash", "1abc", "configOption", "dot.name"}

	for _, n := range valid {
		assert.True(t, naming.ValidOptionName(n), "expected %q to be valid", n)
	}
	for _, n := range invalid {
		assert.False(t, naming.ValidOptionName(n), "expected %q to be invalid", n)
	}
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, "config-option-name", naming.Suggest("configOptionName"))
	assert.Equal(t, "config-option-name", naming.Suggest("config_option_name"))
	assert.Equal(t, "http-port", naming.Suggest("HTTPPort"))
	assert.Equal(t, "", naming.Suggest("already-fine"))
	assert.Equal(t, "", naming.Suggest("___"))
}
