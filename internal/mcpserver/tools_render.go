package mcpserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/refinline/render"
)

type renderInput struct {
	Doc      docInput `json:"doc"                 jsonschema:"The document to resolve and render"`
	Template string   `json:"template"            jsonschema:"Go text/template source; the resolved document is its data"`
	GoFormat bool     `json:"go_format,omitempty" jsonschema:"Format the output as Go source and fix its imports"`
}

type renderOutput struct {
	Source    string `json:"source"`
	Output    string `json:"output"`
	Truncated bool   `json:"truncated,omitempty"`
}

func handleRender(ctx context.Context, _ *mcp.CallToolRequest, input renderInput) (*mcp.CallToolResult, renderOutput, error) {
	if input.Template == "" {
		return errResult(errors.New("template is required")), renderOutput{}, nil
	}

	r, err := render.New("render", render.WithGoFormat(input.GoFormat), render.WithLogger(logger))
	if err != nil {
		return errResult(err), renderOutput{}, nil
	}
	if err := r.Parse(input.Template); err != nil {
		return errResult(err), renderOutput{}, nil
	}

	value, err := input.Doc.resolve(ctx)
	if err != nil {
		return errResult(err), renderOutput{}, nil
	}

	out, err := r.Render(value)
	if err != nil {
		return errResult(err), renderOutput{}, nil
	}

	output := renderOutput{Source: input.Doc.source()}
	output.Output, output.Truncated = truncate(string(out), cfg.MaxOutputSize)
	return nil, output, nil
}
