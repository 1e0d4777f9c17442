package catalog_test

import (
	"testing"

	"github.com/charmpack/charmpack/internal/domain"
	"github.com/charmpack/charmpack/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_RelationalDatabase(t *testing.T) {
	entry, ok := catalog.Lookup("postgresql_client")
	require.True(t, ok)
	assert.Equal(t, catalog.CategoryDatabase, entry.Category)

	var suffixes []string
	for _, v := range entry.Variables {
		suffixes = append(suffixes, v.Suffix)
	}
	assert.ElementsMatch(t, []string{
		"_DB_CONNECT_STRING", "_DB_HOSTNAME", "_DB_PORT",
		"_DB_USERNAME", "_DB_PASSWORD", "_DB_NAME",
	}, suffixes)
}

func TestLookup_Unknown(t *testing.T) {
	_, ok := catalog.Lookup("my_custom_interface")
	assert.False(t, ok)
}

func TestBindings_RequiresPostgres(t *testing.T) {
	decl := domain.IntegrationDeclaration{Interface: "postgresql_client"}
	bindings := catalog.Bindings("FLASK", domain.RoleRequires, "postgresql", decl)
	require.Len(t, bindings, 6)

	assert.Equal(t, "FLASK_POSTGRESQL_DB_CONNECT_STRING", bindings[0].Name)
	for _, b := range bindings {
		assert.Equal(t, domain.SourceIntegration, b.Source)
		assert.Equal(t, domain.RoleRequires, b.Role)
		assert.Equal(t, "postgresql", b.Integration)
		assert.NotEmpty(t, b.Field)
	}
}

func TestBindings_HyphenatedKey(t *testing.T) {
	decl := domain.IntegrationDeclaration{Interface: "redis"}
	bindings := catalog.Bindings("APP", domain.RoleRequires, "session-cache", decl)
	require.NotEmpty(t, bindings)
	assert.Equal(t, "APP_SESSION_CACHE_DB_CONNECT_STRING", bindings[0].Name)
}

func TestBindings_UnknownInterfacePassesThrough(t *testing.T) {
	decl := domain.IntegrationDeclaration{Interface: "my_custom_interface"}
	assert.Empty(t, catalog.Bindings("APP", domain.RoleRequires, "custom", decl))
}

func TestBindings_OnlyRequiresMaterialise(t *testing.T) {
	decl := domain.IntegrationDeclaration{Interface: "postgresql_client"}
	assert.Empty(t, catalog.Bindings("APP", domain.RoleProvides, "db", decl))
	assert.Empty(t, catalog.Bindings("APP", domain.RolePeers, "db", decl))
}

func TestBindings_ObservabilityHasNoVariables(t *testing.T) {
	decl := domain.IntegrationDeclaration{Interface: "loki_push_api"}
	assert.Empty(t, catalog.Bindings("APP", domain.RoleRequires, "logging", decl))
}

func TestInterfaces_Sorted(t *testing.T) {
	names := catalog.Interfaces()
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, "s3")
}
