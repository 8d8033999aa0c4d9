package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/refinline/internal/cliutil"
)

type resolveInput struct {
	Doc    docInput `json:"doc"              jsonschema:"The document to resolve"`
	Format string   `json:"format,omitempty" jsonschema:"Output format: json (default) or yaml"`
	Output string   `json:"output,omitempty" jsonschema:"Write the resolved document to this file instead of returning it"`
}

type resolveOutput struct {
	Source    string `json:"source"`
	Format    string `json:"format"`
	Size      int    `json:"size"`
	Document  string `json:"document,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
	Written   string `json:"written,omitempty"`
}

func handleResolve(ctx context.Context, _ *mcp.CallToolRequest, input resolveInput) (*mcp.CallToolResult, resolveOutput, error) {
	format := input.Format
	if format == "" {
		format = cliutil.FormatJSON
	}
	if err := cliutil.ValidateOutputFormat(format); err != nil {
		return errResult(err), resolveOutput{}, nil
	}

	value, err := input.Doc.resolve(ctx)
	if err != nil {
		return errResult(err), resolveOutput{}, nil
	}

	data, err := cliutil.Marshal(value, format)
	if err != nil {
		return errResult(err), resolveOutput{}, nil
	}

	output := resolveOutput{
		Source: input.Doc.source(),
		Format: format,
		Size:   len(data),
	}

	if input.Output != "" {
		if err := cliutil.WriteOutput(input.Output, data, cliutil.OwnerReadWrite); err != nil {
			return errResult(fmt.Errorf("writing output: %w", err)), resolveOutput{}, nil
		}
		output.Written = input.Output
		return nil, output, nil
	}

	output.Document, output.Truncated = truncate(string(data), cfg.MaxOutputSize)
	return nil, output, nil
}
