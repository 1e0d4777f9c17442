package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/charmpack/charmpack/internal/application"
	"github.com/charmpack/charmpack/internal/domain"
)

// registerTools registers all charmpack MCP tools on the given server.
func registerTools(s *server.MCPServer, svc *application.ExpandService, projectPath string) {
	s.AddTool(
		mcplib.NewTool("charmpack_expand",
			mcplib.WithDescription("Expand the framework extension of a charm descriptor and return the expanded descriptor. Pass content to expand a descriptor that is not on disk."),
			mcplib.WithString("project_path", mcplib.Description("Project directory (defaults to the server's project)")),
			mcplib.WithString("content", mcplib.Description("Descriptor YAML to expand instead of reading charmcraft.yaml")),
			mcplib.WithString("extension", mcplib.Description("Expected extension tag")),
			mcplib.WithString("format", mcplib.Description("Output format: yaml or json (default: yaml)")),
		),
		handleExpand(svc, projectPath),
	)

	s.AddTool(
		mcplib.NewTool("charmpack_validate",
			mcplib.WithDescription("Validate one or more descriptors and return every problem found as JSON"),
			mcplib.WithString("paths", mcplib.Description("Comma-separated descriptor files or project directories (defaults to the server's project)")),
			mcplib.WithBoolean("recursive", mcplib.Description("Search directories for descriptors")),
		),
		handleValidate(svc, projectPath),
	)

	s.AddTool(
		mcplib.NewTool("charmpack_list_extensions",
			mcplib.WithDescription("List the framework extensions and what each injects: options with their environment variables, and integrations"),
			mcplib.WithString("tag", mcplib.Description("Return only this extension")),
		),
		handleListExtensions(svc),
	)
}

func handleExpand(svc *application.ExpandService, projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		opts := application.ExpandOptions{
			Extension: stringArg(args, "extension"),
			Format:    domain.OutputFormat(stringArg(args, "format")),
		}

		var (
			result *application.ExpandResult
			err    error
		)
		if content := stringArg(args, "content"); content != "" {
			result, err = svc.ExpandDocument([]byte(content), opts)
		} else {
			path := stringArg(args, "project_path")
			if path == "" {
				path = projectPath
			}
			result, err = svc.ExpandProject(path, opts)
		}
		if err != nil {
			return problemsResult(err), nil
		}
		return textResult(string(result.Output)), nil
	}
}

func handleValidate(svc *application.ExpandService, projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		paths := splitCSV(stringArg(args, "paths"))
		if len(paths) == 0 {
			paths = []string{projectPath}
		}
		recursive, _ := args["recursive"].(bool)

		results, err := svc.ValidateAll(ctx, paths, application.ValidateOptions{Recursive: recursive})
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}
		return jsonResult(results)
	}
}

func handleListExtensions(svc *application.ExpandService) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		if tag := stringArg(request.GetArguments(), "tag"); tag != "" {
			summary, err := svc.Profile(tag)
			if err != nil {
				return errorResult(err.Error()), nil
			}
			return jsonResult(summary)
		}
		return jsonResult(svc.Profiles())
	}
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

func splitCSV(s string) []string {
	var result []string
	for _, p := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// problemsResult lists every problem in err, one per line.
func problemsResult(err error) *mcplib.CallToolResult {
	problems := domain.Problems(err)
	lines := make([]string, 0, len(problems))
	for _, p := range problems {
		lines = append(lines, "- "+p.Error())
	}
	return errorResult(fmt.Sprintf("expansion failed with %d problem(s):\n%s", len(problems), strings.Join(lines, "\n")))
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return textResult(string(data)), nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
