// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes refinline capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/refinline"
)

const serverInstructions = `refinline MCP server: inlines $ref references across JSON, YAML, TOML, GraphQL and XML documents, locates references, and renders templates against resolved documents.

Configuration: All defaults are configurable via REFINLINE_* environment variables set in your MCP client config.

Key settings:
- REFINLINE_CACHE_ENABLED (default: true): share loaded and resolved documents across calls
- REFINLINE_MAX_DEPTH (default: 100): maximum nested $ref hops
- REFINLINE_HTTP_TIMEOUT (default: 30s): timeout for remote documents
- REFINLINE_MAX_INLINE_SIZE (default: 10MiB): maximum inline content and document size
- REFINLINE_MAX_OUTPUT (default: 1MiB): returned documents longer than this are truncated
- REFINLINE_ALLOW_PRIVATE_IPS (default: false): allow url inputs on private networks

Caching: Documents are cached per session. If any cached local file changes on disk, the whole cache is dropped.`

// logger receives resolver and loader diagnostics. slog's default handler
// writes to stderr, which keeps the stdio transport clean.
var logger refinline.Logger = refinline.NewSlogAdapter(slog.Default())

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "refinline", Version: refinline.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve",
		Description: "Resolve every $ref in a document and return a single self-contained document. Referenced objects are merged in place and stamped with x-fromRef (the original $ref) and x-refName (the last path segment). External references are followed relative to the referencing document. Inline content can only reference itself. Output is json (default) or yaml; long output is truncated to REFINLINE_MAX_OUTPUT bytes, so use output to write large results to a file.",
	}, handleResolve)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "locate_ref",
		Description: "Interpret a $ref string as written inside a base document without loading anything. Returns the target document, the in-document path, whether the reference is nested (same document), and the name stamped as x-refName.",
	}, handleLocateRef)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "render",
		Description: "Resolve a document and execute a Go text/template against it. Templates can use pascal, camel, snake, kebab, title, upper, lower, trim, join, default, hasKey, keys, refName, fromRef and toJSON. Set go_format to run the output through goimports.",
	}, handleRender)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// truncate cuts s to at most limit bytes.
func truncate(s string, limit int) (string, bool) {
	if limit <= 0 || len(s) <= limit {
		return s, false
	}
	return s[:limit], true
}
