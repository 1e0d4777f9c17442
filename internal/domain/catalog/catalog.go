// Package catalog is the fixed table of integration interfaces the engine
// knows how to surface to a workload as environment variables.
package catalog

import (
	"sort"

	"github.com/charmpack/charmpack/internal/domain"
	"github.com/charmpack/charmpack/internal/domain/naming"
)

// Category groups interfaces by the capability they provide.
type Category string

const (
	CategoryDatabase      Category = "database"
	CategoryCache         Category = "cache"
	CategoryQueue         Category = "queue"
	CategoryIdentity      Category = "identity"
	CategoryStorage       Category = "storage"
	CategoryMail          Category = "mail"
	CategoryObservability Category = "observability"
	CategoryNetwork       Category = "network"
)

// Variable is one derived environment variable: Suffix is appended to the
// endpoint's name, Field names the datum it carries.
type Variable struct {
	Suffix string
	Field  string
}

// Entry describes one known interface.
type Entry struct {
	Interface string
	Category  Category
	Variables []Variable
}

var dbVariables = []Variable{
	{"_DB_CONNECT_STRING", "connect-string"},
	{"_DB_HOSTNAME", "hostname"},
	{"_DB_PORT", "port"},
	{"_DB_USERNAME", "username"},
	{"_DB_PASSWORD", "password"},
	{"_DB_NAME", "name"},
}

var entries = map[string]Entry{
	"postgresql_client": {Interface: "postgresql_client", Category: CategoryDatabase, Variables: dbVariables},
	"mysql_client":      {Interface: "mysql_client", Category: CategoryDatabase, Variables: dbVariables},
	"mongodb_client":    {Interface: "mongodb_client", Category: CategoryDatabase, Variables: dbVariables},
	"redis": {Interface: "redis", Category: CategoryCache, Variables: []Variable{
		{"_DB_CONNECT_STRING", "connect-string"},
		{"_DB_HOSTNAME", "hostname"},
		{"_DB_PORT", "port"},
		{"_DB_PASSWORD", "password"},
	}},
	"rabbitmq": {Interface: "rabbitmq", Category: CategoryQueue, Variables: []Variable{
		{"_CONNECT_STRING", "connect-string"},
		{"_HOSTNAME", "hostname"},
		{"_PORT", "port"},
		{"_USERNAME", "username"},
		{"_PASSWORD", "password"},
		{"_VHOST", "vhost"},
	}},
	"s3": {Interface: "s3", Category: CategoryStorage, Variables: []Variable{
		{"_ACCESS_KEY", "access-key"},
		{"_SECRET_KEY", "secret-key"},
		{"_REGION", "region"},
		{"_BUCKET", "bucket"},
		{"_ENDPOINT", "endpoint"},
		{"_PATH", "path"},
		{"_URI_STYLE", "uri-style"},
	}},
	"saml": {Interface: "saml", Category: CategoryIdentity, Variables: []Variable{
		{"_ENTITY_ID", "entity-id"},
		{"_METADATA_URL", "metadata-url"},
		{"_SINGLE_SIGN_ON_REDIRECT_URL", "single-sign-on-redirect-url"},
		{"_SIGNING_CERTIFICATE", "signing-certificate"},
	}},
	"oauth": {Interface: "oauth", Category: CategoryIdentity, Variables: []Variable{
		{"_CLIENT_ID", "client-id"},
		{"_CLIENT_SECRET", "client-secret"},
		{"_ISSUER_URL", "issuer-url"},
		{"_AUTHORIZE_URL", "authorize-url"},
		{"_TOKEN_URL", "token-url"},
		{"_USERINFO_URL", "userinfo-url"},
		{"_JWKS_URL", "jwks-url"},
		{"_SCOPE", "scope"},
	}},
	"smtp": {Interface: "smtp", Category: CategoryMail, Variables: []Variable{
		{"_HOST", "host"},
		{"_PORT", "port"},
		{"_USER", "user"},
		{"_PASSWORD", "password"},
		{"_DOMAIN", "domain"},
		{"_AUTH_TYPE", "auth-type"},
		{"_TRANSPORT_SECURITY", "transport-security"},
	}},
	"loki_push_api":     {Interface: "loki_push_api", Category: CategoryObservability},
	"prometheus_scrape": {Interface: "prometheus_scrape", Category: CategoryObservability},
	"grafana_dashboard": {Interface: "grafana_dashboard", Category: CategoryObservability},
	"tracing":           {Interface: "tracing", Category: CategoryObservability},
	"ingress":           {Interface: "ingress", Category: CategoryNetwork},
}

// Lookup returns the catalog entry for an interface identifier.
func Lookup(iface string) (Entry, bool) {
	e, ok := entries[iface]
	return e, ok
}

// Interfaces returns every known interface identifier, sorted.
func Interfaces() []string {
	names := make([]string, 0, len(entries))
	for k := range entries {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Bindings derives the environment variables a required endpoint exposes.
// Unknown interfaces, and endpoints in roles other than requires, yield
// none: the engine does not invent bindings it cannot vouch for.
func Bindings(prefix string, role domain.IntegrationRole, key string, decl domain.IntegrationDeclaration) []domain.EnvVarBinding {
	if role != domain.RoleRequires {
		return nil
	}
	entry, ok := Lookup(decl.Interface)
	if !ok {
		return nil
	}
	base := naming.EnvName(prefix, key)
	out := make([]domain.EnvVarBinding, 0, len(entry.Variables))
	for _, v := range entry.Variables {
		out = append(out, domain.EnvVarBinding{
			Name:        base + v.Suffix,
			Source:      domain.SourceIntegration,
			Role:        role,
			Integration: key,
			Field:       v.Field,
		})
	}
	return out
}
