// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes documentation generation as MCP tools over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	openapitodocx "github.com/iliakrupin/openapi-to-docx"
)

const serverInstructions = `openapi-to-docx MCP server: turns OpenAPI 3.x specifications into structured documentation.

Tools:
- generate_markdown: render the full markdown documentation for a spec, optionally limited to the first N endpoints
- inspect_spec: quick structural summary (title, version, endpoint count, tags) without generating anything

Specs are provided by file path or inline content; JSON and YAML are both accepted.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "openapi-to-docx", Version: openapitodocx.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_markdown",
		Description: "Generate markdown documentation from an OpenAPI 3.x specification. Returns numbered endpoint sections with interface requirement tables, parameter tables, and JSON examples. Use max_endpoints to limit output size on large specs.",
	}, handleGenerateMarkdown)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "inspect_spec",
		Description: "Inspect an OpenAPI 3.x specification without generating documentation. Returns the title, version, OAS version, endpoint count, and tag list.",
	}, handleInspectSpec)
}

func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
