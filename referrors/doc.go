// Package referrors provides structured error types for refinline.
//
// Import path: github.com/erraggy/refinline/referrors
//
// Every failure raised while loading documents or substituting $ref nodes is
// one of the types below. Each type matches a sentinel through errors.Is, and
// the concrete details are available through errors.As:
//
//	resolved, err := r.Resolve(ctx, id, original, resolvedStore)
//	var keyErr *referrors.KeyNotFoundError
//	if errors.As(err, &keyErr) {
//	    fmt.Printf("missing key %q in %s\n", keyErr.Key, keyErr.Context)
//	}
//	if errors.Is(err, referrors.ErrCyclicReference) {
//	    // the document graph loops back on itself
//	}
//
// # Error Types
//
//   - [LoadError]: the loader could not read or fetch a document
//   - [DecodeError]: every candidate format failed to decode a document
//   - [RefTypeError]: a $ref value was not a string
//   - [TargetTypeError]: a $ref pointed at something other than an object
//   - [KeyNotFoundError]: an in-document path named a key that does not exist
//   - [NotAnObjectError]: an in-document path stepped into a non-object
//   - [FragmentError]: a $ref string contained more than one '#'
//   - [RebaseError]: a relative reference could not be resolved against a URL
//   - [PathJoinError]: a relative reference could not be joined onto its base
//   - [CycleError]: a $ref re-entered a (document, path) pair still being resolved
//   - [ResourceLimitError]: a configured limit was exceeded
//   - [ReferenceError]: context wrapper naming the $ref being substituted
//
// # Error Chaining
//
// Errors raised inside the substitution of a $ref are wrapped in a
// [ReferenceError] carrying the verbatim $ref string and the document that
// contained it. Wrappers nest, so a failure deep in a chain of references
// reads as the full path of references that led to it.
package referrors
