package descriptor_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charmpack/charmpack/internal/adapters/outbound/descriptor"
	"github.com/charmpack/charmpack/internal/domain"
	"github.com/charmpack/charmpack/internal/domain/expand"
	"github.com/charmpack/charmpack/internal/domain/profiles"
)

const flaskCharm = `name: hello-flask
summary: A tiny flask app.
type: charm
base: ubuntu@22.04
extensions:
  - flask-framework
config:
  options:
    token:
      type: string
      description: API token.
    greeting:
      type: string
      default: hello
    api-credentials:
      type: secret
      default: secret:cs4ekmfmp25c77u6j5gg
      keys: [client-id, client-secret]
requires:
  cache:
    interface: redis
    description: Session cache.
  logging:
    interface: loki_push_api
    limit: 3
services:
  web:
    command: gunicorn app:app
  email-worker:
    command: celery -A app worker
environment:
  STALE_VALUE:
    source: option
`

func TestDecode(t *testing.T) {
	d, err := descriptor.New().Decode([]byte(flaskCharm))
	require.NoError(t, err)

	assert.Equal(t, []string{"flask-framework"}, d.Extensions)
	assert.Equal(t, []string{"name", "summary", "type", "base"}, d.Extra.Keys())

	require.Len(t, d.Options, 3)
	assert.Equal(t, "token", d.Options[0].Name)
	assert.Equal(t, "greeting", d.Options[1].Name)
	assert.Equal(t, "hello", d.Options[1].DefaultValue())
	assert.Equal(t, []string{"client-id", "client-secret"}, d.Options[2].Keys)

	cache := d.Requires["cache"]
	assert.Equal(t, "redis", cache.Interface)
	assert.Nil(t, cache.Optional)
	assert.Equal(t, []string{"description"}, cache.Extra.Keys())
	desc, err := domain.Plain(cache.Extra[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "Session cache.", desc)
	assert.Equal(t, 3, d.Requires["logging"].Limit)

	assert.Equal(t, "celery -A app worker", d.Services["email-worker"].Command)
}

func TestDecode_SchemaErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"not a mapping", "- a\n- b\n", ""},
		{"bad extensions", "extensions: {a: b}\n", "extensions"},
		{"unknown config key", "config:\n  settings: {}\n", "config.settings"},
		{"option body not a mapping", "config:\n  options:\n    token: yes\n", "config.options.token"},
		{"endpoint not a mapping", "requires:\n  db: postgresql_client\n", "requires.db"},
		{"bad limit", "provides:\n  api:\n    interface: http\n    limit: many\n", "provides.api.limit"},
		{"malformed yaml", "config: [\n", ""},
		{"environment not a mapping", "environment: [A, B]\n", "environment"},
		{"environment entry not a mapping", "environment:\n  APP_PORT: 8080\n", "environment"},
		{"secrets not a list", "secrets: {token: secret:abc}\n", "secrets"},
		{"secrets entry not a mapping", "secrets: [secret:abc]\n", "secrets"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := descriptor.New().Decode([]byte(tt.input))
			var se *domain.SchemaError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, tt.field, se.Field)
		})
	}
}

func TestDecode_ReservedKeysAccepted(t *testing.T) {
	input := "name: demo\nenvironment:\nsecrets:\n  - option: token\n    binding: APP_TOKEN\n"
	d, err := descriptor.New().Decode([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, d.Extra.Keys())
}

func TestDecode_Empty(t *testing.T) {
	d, err := descriptor.New().Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, d.Extensions)
}

func expandBytes(t *testing.T, data []byte, format domain.OutputFormat) []byte {
	t.Helper()
	codec := descriptor.New()
	d, err := codec.Decode(data)
	require.NoError(t, err)
	out, err := expand.New(profiles.Default(), domain.DefaultLimits()).Expand(d, "")
	require.NoError(t, err)
	encoded, err := codec.Encode(out, format)
	require.NoError(t, err)
	return encoded
}

func TestRoundTrip_Idempotent(t *testing.T) {
	once := expandBytes(t, []byte(flaskCharm), domain.FormatYAML)
	twice := expandBytes(t, once, domain.FormatYAML)
	assert.Equal(t, string(once), string(twice))
}

func TestEncode_Deterministic(t *testing.T) {
	first := expandBytes(t, []byte(flaskCharm), domain.FormatYAML)
	for i := 0; i < 10; i++ {
		assert.Equal(t, string(first), string(expandBytes(t, []byte(flaskCharm), domain.FormatYAML)))
	}
}

func TestEncode_YAMLShape(t *testing.T) {
	out := string(expandBytes(t, []byte(flaskCharm), domain.FormatYAML))

	assert.Contains(t, out, "name: hello-flask\n")
	assert.Contains(t, out, "extensions:\n  - flask-framework\n")
	assert.Contains(t, out, "    flask-debug:\n      type: boolean\n")
	assert.Contains(t, out, "  cache:\n    interface: redis\n    optional: false\n    limit: 1\n    description: Session cache.\n")
	assert.Contains(t, out, "  FLASK_CACHE_DB_HOSTNAME:\n")
	assert.Contains(t, out, "  FLASK_TOKEN:\n    source: option\n    option: token\n")
	assert.Contains(t, out, "binding: FLASK_API_CREDENTIALS_CLIENT_SECRET\n")
	assert.Contains(t, out, "role: worker\n")
	assert.NotContains(t, out, "STALE_VALUE")
}

func TestEncode_JSON(t *testing.T) {
	out := expandBytes(t, []byte(flaskCharm), domain.FormatJSON)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "hello-flask", doc["name"])
	assert.Equal(t, []any{"flask-framework"}, doc["extensions"])

	env := doc["environment"].(map[string]any)
	assert.Contains(t, env, "FLASK_DEBUG")

	requires := doc["requires"].(map[string]any)
	logging := requires["logging"].(map[string]any)
	assert.Equal(t, float64(3), logging["limit"])
	assert.Equal(t, true, logging["optional"])
}

func TestEncode_UnknownFormat(t *testing.T) {
	_, err := descriptor.New().Encode(&domain.ExpandedDescriptor{}, "toml")
	assert.ErrorContains(t, err, "unknown format")
}

const datedCharm = `name: dated
created: 2024-01-01
version: 1.10
flags: {beta: true}
notes: |
  first line
  second line
extensions:
  - go-framework
config:
  options:
    ratio:
      type: float
      default: 2.0
requires:
  cache:
    interface: redis
    since: 2024-01-01
    weight: 0.50
`

func TestEncode_PassthroughVerbatim(t *testing.T) {
	out := string(expandBytes(t, []byte(datedCharm), domain.FormatYAML))

	assert.Contains(t, out, "created: 2024-01-01\n")
	assert.Contains(t, out, "version: 1.10\n")
	assert.Contains(t, out, "flags: {beta: true}\n")
	assert.Contains(t, out, "notes: |\n  first line\n  second line\n")
	assert.Contains(t, out, "      type: float\n      default: 2.0\n")
	assert.Contains(t, out, "    since: 2024-01-01\n    weight: 0.50\n")

	twice := string(expandBytes(t, []byte(out), domain.FormatYAML))
	assert.Equal(t, out, twice)
}

func TestEncode_JSONKeepsAuthoredScalars(t *testing.T) {
	out := string(expandBytes(t, []byte(datedCharm), domain.FormatJSON))

	assert.Contains(t, out, `"created": "2024-01-01"`)
	assert.Contains(t, out, `"version": 1.10`)
	assert.Contains(t, out, `"default": 2.0`)
	assert.Contains(t, out, `"since": "2024-01-01"`)
}

func TestDecode_PassthroughPlainValues(t *testing.T) {
	d, err := descriptor.New().Decode([]byte(datedCharm))
	require.NoError(t, err)

	v, _ := d.Extra.Get("version")
	plain, err := domain.Plain(v)
	require.NoError(t, err)
	assert.Equal(t, 1.1, plain)

	require.Len(t, d.Options, 1)
	assert.Equal(t, 2.0, d.Options[0].DefaultValue())
	assert.NoError(t, d.Validate())
}

func TestDecode_AliasedValueStillExpands(t *testing.T) {
	input := "name: demo\nbase: &b ubuntu@22.04\nbuild-base: *b\nextensions: [go-framework]\n"
	out := string(expandBytes(t, []byte(input), domain.FormatYAML))
	assert.Contains(t, out, "base: &b ubuntu@22.04\n")
	assert.Contains(t, out, "build-base: ubuntu@22.04\n")
}

func TestEncode_MergesAuthoredRootKeys(t *testing.T) {
	input := "name: demo\nassumes:\n  - juju >= 3.4\nextensions: [go-framework]\n"
	out := string(expandBytes(t, []byte(input), domain.FormatYAML))
	assert.Contains(t, out, "assumes:\n  - k8s-api\n  - juju >= 3.4\n")
}
