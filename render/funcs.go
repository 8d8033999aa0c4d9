package render

import (
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/erraggy/refinline/internal/jsonvalue"
	"github.com/erraggy/refinline/internal/naming"
)

// Provenance keys stamped by the resolver.
const (
	fromRefKey = "x-fromRef"
	refNameKey = "x-refName"
)

// Funcs returns the function map available to every template.
func Funcs() template.FuncMap {
	titleCaser := cases.Title(language.English)

	return template.FuncMap{
		"pascal":  naming.ToPascalCase,
		"camel":   naming.ToCamelCase,
		"snake":   naming.ToSnakeCase,
		"kebab":   naming.ToKebabCase,
		"title":   titleCaser.String,
		"upper":   strings.ToUpper,
		"lower":   strings.ToLower,
		"trim":    strings.TrimSpace,
		"join":    join,
		"default": defaultValue,
		"hasKey":  hasKey,
		"keys":    keys,
		"refName": func(v any) string { return stringField(v, refNameKey) },
		"fromRef": func(v any) string { return stringField(v, fromRefKey) },
		"toJSON":  jsonvalue.Compact,
	}
}

// join accepts either a list or individual strings after the separator.
func join(sep string, parts ...any) string {
	var out []string
	for _, p := range parts {
		switch t := p.(type) {
		case []string:
			out = append(out, t...)
		case []any:
			for _, item := range t {
				out = append(out, fmt.Sprint(item))
			}
		default:
			out = append(out, fmt.Sprint(t))
		}
	}
	return strings.Join(out, sep)
}

// defaultValue returns v unless it is empty, in which case it returns def.
// Usage: {{ .description | default "none" }}
func defaultValue(def, v any) any {
	switch t := v.(type) {
	case nil:
		return def
	case string:
		if t == "" {
			return def
		}
	case map[string]any:
		if len(t) == 0 {
			return def
		}
	case *jsonvalue.Object:
		if t.Len() == 0 {
			return def
		}
	case []any:
		if len(t) == 0 {
			return def
		}
	}
	return v
}

func hasKey(v any, key string) bool {
	_, ok := jsonvalue.Get(v, key)
	return ok
}

// keys returns the keys of an object, or nil for anything else. Inside
// Render, objects list their keys in source order; elsewhere a plain map
// lists them lexically.
func keys(v any) []string {
	return jsonvalue.Keys(v)
}

func stringField(v any, key string) string {
	raw, _ := jsonvalue.Get(v, key)
	s, _ := raw.(string)
	return s
}
