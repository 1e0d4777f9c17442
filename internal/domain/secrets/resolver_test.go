package secrets_test

import (
	"errors"
	"testing"

	"github.com/charmpack/charmpack/internal/domain"
	"github.com/charmpack/charmpack/internal/domain/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validID = "cs4ekmfmp25c77u6j5gg"

func TestValidateReference(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"bare id", "secret:" + validID, false},
		{"model qualified", "secret://6f2a3c1e-8d4b-4c2a-9e7f-1b2c3d4e5f60/" + validID, false},
		{"missing scheme", validID, true},
		{"wrong scheme", "vault:" + validID, true},
		{"short id", "secret:abc", true},
		{"uppercase id", "secret:CS4EKMFMP25C77U6J5GG", true},
		{"bad model uuid", "secret://not-a-uuid/" + validID, true},
		{"missing id after model", "secret://6f2a3c1e-8d4b-4c2a-9e7f-1b2c3d4e5f60", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := secrets.ValidateReference(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBindingName(t *testing.T) {
	assert.Equal(t, "APP_APP_SECRET_KEY_ID_VALUE", secrets.BindingName("APP", "app-secret-key-id", "value"))
	assert.Equal(t, "FLASK_API_TOKEN_CLIENT_SECRET", secrets.BindingName("FLASK", "api-token", "client-secret"))
}

func TestResolve_DefaultKey(t *testing.T) {
	opts := []domain.ConfigOption{
		{Name: "app-secret-key-id", Type: domain.OptionSecret},
		{Name: "plain", Type: domain.OptionString},
	}

	refs, bindings, errs := secrets.Resolve("APP", opts)
	require.Empty(t, errs)
	require.Len(t, refs, 1)
	require.Len(t, bindings, 1)

	assert.Equal(t, "APP_APP_SECRET_KEY_ID_VALUE", bindings[0].Name)
	assert.Equal(t, domain.SourceSecret, bindings[0].Source)
	assert.Equal(t, "value", bindings[0].SecretKey)
	assert.Equal(t, "$(app-secret-key-id:value)", refs[0].Placeholder)
	assert.Empty(t, refs[0].Reference)
}

func TestResolve_MultipleKeysAndReference(t *testing.T) {
	opts := []domain.ConfigOption{
		{Name: "smtp-login", Type: domain.OptionSecret, Default: "secret:" + validID, Keys: []string{"username", "password"}},
	}

	refs, bindings, errs := secrets.Resolve("DJANGO", opts)
	require.Empty(t, errs)
	require.Len(t, refs, 2)
	assert.Equal(t, "DJANGO_SMTP_LOGIN_USERNAME", bindings[0].Name)
	assert.Equal(t, "DJANGO_SMTP_LOGIN_PASSWORD", bindings[1].Name)
	assert.Equal(t, "secret:"+validID, refs[1].Reference)
}

func TestResolve_InvalidDefaultsAllReported(t *testing.T) {
	opts := []domain.ConfigOption{
		{Name: "first", Type: domain.OptionSecret, Default: "hunter2"},
		{Name: "second", Type: domain.OptionSecret, Default: "secret:nope"},
		{Name: "third", Type: domain.OptionSecret, Default: "secret:" + validID},
	}

	refs, _, errs := secrets.Resolve("APP", opts)
	require.Len(t, errs, 2)
	assert.Len(t, refs, 1)

	var ire *domain.InvalidSecretReferenceError
	require.True(t, errors.As(errs[0], &ire))
	assert.Equal(t, "first", ire.Option)
	assert.Equal(t, "hunter2", ire.Value)
	require.True(t, errors.As(errs[1], &ire))
	assert.Equal(t, "second", ire.Option)
}
