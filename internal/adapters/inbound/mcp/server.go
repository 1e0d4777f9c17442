package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/charmpack/charmpack/internal/application"
)

// NewServer creates an MCP server exposing charmpack's expansion tools and
// extension resources. projectPath is the project used when a tool call
// names none.
func NewServer(svc *application.ExpandService, projectPath, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"charmpack",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, svc, projectPath)
	registerResources(s, svc)

	return s
}
