// Package resolver inlines $ref references across a graph of JSON documents.
//
// An object containing a "$ref" key is replaced by the object the reference
// points at, merged over the object's own keys, and stamped with provenance:
// "x-fromRef" holds the verbatim $ref string and "x-refName" the last segment
// of its path. The result is a single value with no $ref left in it.
//
// # Quick Start
//
//	r, err := resolver.New(resolver.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//	original, resolved := resolver.NewStore(), resolver.NewStore()
//	value, err := r.Resolve(ctx, document.Parse("specs/api.yaml"), original, resolved)
//
// For a document already in memory that only references itself:
//
//	value, err := resolver.ResolveStandalone(doc)
//
// # Reference Syntax
//
// A $ref is "<document>#<path>". The document part is related to the
// document containing the $ref (see document.Identity.RelateFrom); when it is
// empty the reference is nested in the same document. The path is a list of
// object keys separated by '/'. Array indices and JSON Pointer escapes are not
// interpreted. See [Locate].
//
// # Stores
//
// Resolution reads and fills two caller-owned [Store] values: one holding
// documents as loaded and one holding fully resolved documents. Sharing stores
// between calls avoids loading or resolving any document twice; passing fresh
// stores isolates runs from each other. Stores are safe for concurrent use and
// collapse concurrent first requests for a document into one load.
//
// Values in either store, and values returned by Resolve, are shared and must
// be treated as read-only.
//
// # Failure Modes
//
// Every error aborts the resolution it occurs in and nothing is cached for
// it. Errors raised while following a $ref are wrapped in a
// *referrors.ReferenceError carrying the $ref string and its document.
// Reference cycles fail with *referrors.CycleError, and chains of more than
// [MaxRefDepth] nested hops fail with *referrors.ResourceLimitError.
//
// [Resolver.ResolveAll] resolves many documents on a bounded worker pool and
// reports each failure separately, so one broken source never stops the rest.
package resolver
