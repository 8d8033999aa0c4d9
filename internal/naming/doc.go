// Package naming provides shared case conversion utilities for refinline.
//
// The render package exposes these functions to templates as pascal, camel,
// snake and kebab, so generated identifiers follow the same word boundaries
// everywhere. Words are split at separators, at lower-to-upper transitions
// and where an acronym ends, so "HTTPServer_config" yields HTTP, Server and
// config.
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
