// Package render executes text/template templates against resolved
// documents, the last stage of a code-generation pipeline built on the
// resolver.
//
// Templates see the resolved value as their data and can use these
// functions in addition to the text/template builtins:
//
//	pascal, camel, snake, kebab, title   identifier casing
//	upper, lower, trim, join              string helpers
//	default, hasKey, keys                 object helpers (keys in source order)
//	refName, fromRef                      provenance of a resolved $ref
//	toJSON                                compact JSON of any value
//
// With [WithGoFormat] the output is formatted and its imports fixed with
// golang.org/x/tools/imports.
//
//	r, err := render.New("models", render.WithGoFormat(true))
//	if err != nil {
//		return err
//	}
//	if err := r.ParseFile("models.go.tmpl"); err != nil {
//		return err
//	}
//	out, err := r.Render(resolved)
package render
