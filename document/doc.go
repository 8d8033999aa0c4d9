// Package document identifies the documents that $ref strings point at.
//
// An [Identity] is one of three things: a Remote URL, a Local file path, or
// Inline (no backing document). Identities are normalized on construction
// and compare with ==, so they serve directly as cache keys.
//
// # Path Algebra
//
// [Identity.RelateFrom] resolves a reference written inside one document to
// the absolute identity it denotes:
//
//	base := document.Parse("specs/v1/api.yaml")
//	target, _ := document.Parse("../common/types.yaml").RelateFrom(base)
//	// target is specs/common/types.yaml
//
//	base = document.Parse("https://example.com/v1/api.yaml")
//	target, _ = document.Parse("pet.json").RelateFrom(base)
//	// target is https://example.com/v1/pet.json
//
// Dot segments are collapsed textually, never by touching the file system,
// and '/' is the only separator kept internally: Windows separators are
// converted on input.
//
// # Format Hints
//
// [DetectFormat] maps a suffix to a [Format], and [Format.Fallbacks] gives the
// ordered list of decoders a loader should try.
package document
