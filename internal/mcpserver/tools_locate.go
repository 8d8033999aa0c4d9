package mcpserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/refinline/document"
	"github.com/erraggy/refinline/resolver"
)

type locateInput struct {
	Ref  string `json:"ref"            jsonschema:"The $ref string, e.g. common.yaml#/components/schemas/Pet"`
	Base string `json:"base,omitempty" jsonschema:"Path or URL of the document containing the $ref. Empty means an inline document"`
}

type locateOutput struct {
	Document string `json:"document"`
	Kind     string `json:"kind"`
	Path     string `json:"path,omitempty"`
	HasPath  bool   `json:"has_path"`
	Nested   bool   `json:"nested"`
	Name     string `json:"name,omitempty"`
}

func handleLocateRef(_ context.Context, _ *mcp.CallToolRequest, input locateInput) (*mcp.CallToolResult, locateOutput, error) {
	if input.Ref == "" {
		return errResult(errors.New("ref is required")), locateOutput{}, nil
	}

	target, err := resolver.Locate(document.Parse(input.Base), input.Ref)
	if err != nil {
		return errResult(err), locateOutput{}, nil
	}

	return nil, locateOutput{
		Document: target.Document.String(),
		Kind:     target.Document.Kind().String(),
		Path:     target.Path,
		HasPath:  target.HasPath,
		Nested:   target.Nested,
		Name:     target.Name,
	}, nil
}
