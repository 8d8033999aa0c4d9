// Package loader turns document identities into generic JSON values.
//
// The [Loader] interface is the boundary between the resolver and the
// outside world: the resolver never reads bytes itself. [Standard] is the
// implementation shipped with refinline. It reads Local identities from disk,
// fetches http and https URLs, reads file:// URLs, and decodes the bytes
// according to the identity's format hint.
//
// # Formats
//
// JSON, YAML, TOML, GraphQL SDL and XML are supported. The suffix of the
// path or URL picks the first decoder to try; remote documents without a
// telling suffix fall back to their Content-Type. After the hinted format,
// JSON and YAML are tried in turn (YAML first when the hint was YAML). When
// every attempt fails the error is a *referrors.DecodeError listing each
// decoder's failure.
//
//	l, err := loader.New(loader.WithBaseDir("specs"), loader.WithTimeout(10*time.Second))
//	value, err := l.Load(ctx, document.Parse("api.yaml"))
//
// All decoded values use the generic JSON model: *jsonvalue.Object, []any,
// string, float64, bool and nil. Objects keep the key order of the source
// document, which the resolver and the JSON and YAML encoders preserve. YAML
// merge keys contribute their keys where the merge key appears. XML
// attributes precede child elements.
package loader
