package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/charmpack/charmpack/internal/application"
)

const extensionsURI = "charmpack://extensions"

// registerResources registers all charmpack MCP resources on the given server.
func registerResources(s *server.MCPServer, svc *application.ExpandService) {
	s.AddResource(
		mcplib.NewResource(
			extensionsURI,
			"Extensions",
			mcplib.WithResourceDescription("Every framework extension charmpack can expand, and the integration interfaces it derives environment variables for"),
			mcplib.WithMIMEType("application/json"),
		),
		handleExtensionsResource(svc),
	)

	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			extensionsURI+"/{tag}",
			"Extension",
			mcplib.WithTemplateDescription("Options, environment variables and integrations one extension injects"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleExtensionResource(svc),
	)
}

func handleExtensionsResource(svc *application.ExpandService) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		return jsonContents(extensionsURI, svc.Catalog())
	}
}

func handleExtensionResource(svc *application.ExpandService) server.ResourceTemplateHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		tag := templateArg(request.Params.Arguments, "tag")
		if tag == "" {
			return nil, fmt.Errorf("extension tag is required")
		}
		summary, err := svc.Profile(tag)
		if err != nil {
			return nil, err
		}
		return jsonContents(request.Params.URI, summary)
	}
}

// templateArg reads a matched URI template variable, which arrives as a
// string or a single-element list depending on how it was populated.
func templateArg(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
