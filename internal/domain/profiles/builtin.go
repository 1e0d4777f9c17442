package profiles

import "github.com/charmpack/charmpack/internal/domain"

func optional(b bool) *bool { return &b }

func opt(name string, t domain.OptionType, def any, desc string) domain.ConfigOption {
	return domain.ConfigOption{Name: name, Type: t, Default: def, Description: desc}
}

// observability is the set of endpoints every framework profile pre-loads.
func observability() map[domain.IntegrationRole]map[string]domain.IntegrationDeclaration {
	return map[domain.IntegrationRole]map[string]domain.IntegrationDeclaration{
		domain.RoleRequires: {
			"logging": {Interface: "loki_push_api", Optional: optional(true), Immutable: true},
			"tracing": {Interface: "tracing", Optional: optional(true), Immutable: true},
			"ingress": {Interface: "ingress", Optional: optional(true)},
		},
		domain.RoleProvides: {
			"metrics-endpoint":  {Interface: "prometheus_scrape", Immutable: true},
			"grafana-dashboard": {Interface: "grafana_dashboard", Immutable: true},
		},
	}
}

func withPeers(m map[domain.IntegrationRole]map[string]domain.IntegrationDeclaration) map[domain.IntegrationRole]map[string]domain.IntegrationDeclaration {
	m[domain.RolePeers] = map[string]domain.IntegrationDeclaration{
		"secret-storage": {Interface: "secret-storage", Immutable: true},
	}
	return m
}

// workload returns the root keys describing the OCI workload container.
func workload(name string) domain.ExtraFields {
	return domain.ExtraFields{
		{Key: "assumes", Value: []any{"k8s-api"}},
		{Key: "containers", Value: map[string]any{
			name: map[string]any{"resource": name + "-image"},
		}},
		{Key: "resources", Value: map[string]any{
			name + "-image": map[string]any{
				"type":        "oci-image",
				"description": name + " application image.",
			},
		}},
	}
}

func webserverOptions() []domain.PredefinedOption {
	return []domain.PredefinedOption{
		{ConfigOption: opt("webserver-keepalive", domain.OptionInt, nil, "Time in seconds to wait for requests on a keep-alive connection.")},
		{ConfigOption: opt("webserver-threads", domain.OptionInt, nil, "Number of threads per worker process.")},
		{ConfigOption: opt("webserver-timeout", domain.OptionInt, nil, "Seconds a silent worker may run before it is restarted.")},
		{ConfigOption: opt("webserver-workers", domain.OptionInt, nil, "Number of web server worker processes.")},
	}
}

// appOptions are the options shared by the APP_-prefixed frameworks.
func appOptions(port int, metricsPath string) []domain.PredefinedOption {
	return []domain.PredefinedOption{
		{ConfigOption: opt("app-port", domain.OptionInt, port, "Port the application listens on."), Env: "APP_PORT"},
		{ConfigOption: opt("metrics-port", domain.OptionInt, port, "Port where the prometheus metrics are scraped."), Env: "APP_METRICS_PORT"},
		{ConfigOption: opt("metrics-path", domain.OptionString, metricsPath, "Path where the prometheus metrics are scraped."), Env: "APP_METRICS_PATH"},
		{ConfigOption: opt("app-secret-key", domain.OptionString, nil, "Long secret used for session signing; generated when unset."), Env: "APP_SECRET_KEY"},
	}
}

func builtin() []domain.FrameworkProfile {
	flaskOptions := []domain.PredefinedOption{
		{ConfigOption: opt("flask-application-root", domain.OptionString, nil, "Path in which the application is mounted."), Env: "FLASK_APPLICATION_ROOT"},
		{ConfigOption: opt("flask-debug", domain.OptionBoolean, nil, "Whether Flask debug mode is enabled."), Env: "FLASK_DEBUG"},
		{ConfigOption: opt("flask-env", domain.OptionString, nil, "What environment the Flask app is running in."), Env: "FLASK_ENV"},
		{ConfigOption: opt("flask-permanent-session-lifetime", domain.OptionInt, nil, "Lifetime of a permanent session in seconds."), Env: "FLASK_PERMANENT_SESSION_LIFETIME"},
		{ConfigOption: opt("flask-preferred-url-scheme", domain.OptionString, "HTTPS", "Scheme used to generate external URLs."), Env: "FLASK_PREFERRED_URL_SCHEME"},
		{ConfigOption: opt("flask-secret-key", domain.OptionString, nil, "Secret key used for session signing; generated when unset."), Env: "FLASK_SECRET_KEY"},
		{ConfigOption: opt("flask-session-cookie-secure", domain.OptionBoolean, nil, "Send the session cookie only over HTTPS."), Env: "FLASK_SESSION_COOKIE_SECURE"},
	}

	djangoOptions := []domain.PredefinedOption{
		{ConfigOption: opt("django-debug", domain.OptionBoolean, false, "Whether Django debug mode is enabled."), Env: "DJANGO_DEBUG"},
		{ConfigOption: opt("django-secret-key", domain.OptionString, nil, "Secret key used for cryptographic signing; generated when unset."), Env: "DJANGO_SECRET_KEY"},
		{ConfigOption: opt("django-allowed-hosts", domain.OptionString, nil, "Comma-separated host names the site can serve."), Env: "DJANGO_ALLOWED_HOSTS"},
	}

	djangoIntegrations := withPeers(observability())
	djangoIntegrations[domain.RoleRequires]["postgresql"] = domain.IntegrationDeclaration{
		Interface: "postgresql_client", Optional: optional(false), Immutable: true,
	}

	return []domain.FrameworkProfile{
		{
			Tag:             "flask-framework",
			Description:     "Flask WSGI application served by gunicorn",
			Prefix:          "FLASK",
			Options:         append(flaskOptions, webserverOptions()...),
			Integrations:    withPeers(observability()),
			WorkerSuffix:    "-worker",
			SchedulerSuffix: "-scheduler",
			RootKeys:        workload("flask-app"),
		},
		{
			Tag:             "django-framework",
			Description:     "Django application served by gunicorn, backed by PostgreSQL",
			Prefix:          "DJANGO",
			Options:         append(djangoOptions, webserverOptions()...),
			Integrations:    djangoIntegrations,
			WorkerSuffix:    "-worker",
			SchedulerSuffix: "-scheduler",
			RootKeys:        workload("django-app"),
		},
		{
			Tag:         "fastapi-framework",
			Description: "FastAPI ASGI application served by uvicorn",
			Prefix:      "APP",
			Options: append(appOptions(8080, "/metrics"),
				domain.PredefinedOption{ConfigOption: opt("webserver-workers", domain.OptionInt, 1, "Number of uvicorn worker processes.")}),
			Integrations:    observability(),
			WorkerSuffix:    "-worker",
			SchedulerSuffix: "-scheduler",
			RootKeys:        workload("app"),
		},
		{
			Tag:             "go-framework",
			Description:     "Go HTTP service",
			Prefix:          "APP",
			Options:         appOptions(8080, "/metrics"),
			Integrations:    observability(),
			WorkerSuffix:    "-worker",
			SchedulerSuffix: "-scheduler",
			RootKeys:        workload("app"),
		},
		{
			Tag:         "spring-boot-framework",
			Description: "Spring Boot application on the JVM",
			Prefix:      "APP",
			Options: append(appOptions(8080, "/actuator/prometheus"),
				domain.PredefinedOption{ConfigOption: opt("app-profiles", domain.OptionString, nil, "Comma-separated active Spring profiles."), Env: "APP_PROFILES"}),
			Integrations:    observability(),
			WorkerSuffix:    "-worker",
			SchedulerSuffix: "-scheduler",
			RootKeys:        workload("app"),
		},
		{
			Tag:             "expressjs-framework",
			Description:     "Express.js application on Node",
			Prefix:          "APP",
			Options:         appOptions(8080, "/metrics"),
			Integrations:    observability(),
			WorkerSuffix:    "-worker",
			SchedulerSuffix: "-scheduler",
			RootKeys:        workload("app"),
		},
	}
}
