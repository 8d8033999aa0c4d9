// Package refinline inlines $ref references across JSON, YAML, TOML, GraphQL
// and XML documents, producing a single self-contained document.
//
// # Overview
//
// The library consists of these packages:
//
//   - document: identities of documents (file paths, URLs, inline) and how
//     relative references relate to them
//   - loader: fetch and decode documents from disk or HTTP into generic values
//   - resolver: walk a document graph and replace every $ref with its target
//   - render: execute Go templates against resolved documents
//   - referrors: typed errors shared by all packages
//
// This root package holds build metadata and the [Logger] interface used by
// every other package.
//
// # Installation
//
//	go get github.com/erraggy/refinline
//
// # Quick Start
//
// Resolve a document and everything it references:
//
//	import (
//		"github.com/erraggy/refinline/document"
//		"github.com/erraggy/refinline/resolver"
//	)
//
//	r, err := resolver.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	doc, err := r.Resolve(ctx, document.Local("api.yaml"), resolver.NewStore(), resolver.NewStore())
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Each referencing object is replaced by the referenced object merged with the
// referencing object's own keys, and stamped with x-fromRef (the original
// $ref string) and x-refName (the last path segment):
//
//	# api.yaml                      # resolved
//	pet:                            pet:
//	  $ref: common.yaml#/Pet          type: object
//	                                  x-fromRef: common.yaml#/Pet
//	                                  x-refName: Pet
//
// Resolve a document that only references itself, without any I/O:
//
//	doc, err := resolver.ResolveStandalone(map[string]any{
//		"a": map[string]any{"$ref": "#/b"},
//		"b": map[string]any{"x": 1},
//	})
//
// # Logging
//
// Packages log through [Logger], which defaults to [NopLogger]. Wrap a
// *slog.Logger with [NewSlogAdapter] to see diagnostics:
//
//	r, err := resolver.New(resolver.WithLogger(refinline.NewSlogAdapter(slog.Default())))
//
// # Command Line
//
// The refinline command in cmd/refinline exposes resolve, locate and render
// subcommands, and an MCP server (refinline mcp) for AI assistants.
package refinline
