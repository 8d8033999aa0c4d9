package document

import (
	"path"
	"strings"
)

// Format is a document serialization format.
type Format string

const (
	// FormatUnknown means the suffix gave no hint.
	FormatUnknown Format = "unknown"
	// FormatJSON is JSON.
	FormatJSON Format = "json"
	// FormatYAML is YAML.
	FormatYAML Format = "yaml"
	// FormatTOML is TOML.
	FormatTOML Format = "toml"
	// FormatGraphQL is GraphQL schema definition language.
	FormatGraphQL Format = "graphql"
	// FormatXML is XML.
	FormatXML Format = "xml"
)

// DetectFormat returns the format hinted by the suffix of a file path or URL
// path. Query strings must be stripped by the caller.
func DetectFormat(p string) Format {
	switch strings.ToLower(path.Ext(p)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".graphql", ".gql":
		return FormatGraphQL
	case ".xml":
		return FormatXML
	default:
		return FormatUnknown
	}
}

// Fallbacks returns the ordered list of formats to try when decoding a
// document hinted as f. The hinted format comes first; JSON and YAML follow
// as fallbacks, with YAML ahead of JSON only when the hint was YAML.
func (f Format) Fallbacks() []Format {
	switch f {
	case FormatYAML:
		return []Format{FormatYAML, FormatJSON}
	case FormatJSON, FormatUnknown, "":
		return []Format{FormatJSON, FormatYAML}
	default:
		return []Format{f, FormatJSON, FormatYAML}
	}
}

// ParseFormat maps a format name to a Format. Unrecognized names map to
// FormatUnknown.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "yaml", "yml":
		return FormatYAML
	case "toml":
		return FormatTOML
	case "graphql", "gql":
		return FormatGraphQL
	case "xml":
		return FormatXML
	default:
		return FormatUnknown
	}
}
