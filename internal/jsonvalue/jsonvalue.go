// Package jsonvalue provides helpers for the generic JSON value model used
// throughout refinline: objects (*Object or map[string]any), []any, string,
// float64, bool and nil.
package jsonvalue

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	json "github.com/goccy/go-json"
)

// Copy recursively deep copies a generic JSON value. Values of types outside
// the JSON model are returned as-is.
func Copy(v any) any {
	switch t := v.(type) {
	case *Object:
		cp := NewObject(t.Len())
		for _, k := range t.keys {
			cp.Set(k, Copy(t.values[k]))
		}
		return cp
	case map[string]any:
		cp := make(map[string]any, len(t))
		for k, item := range t {
			cp[k] = Copy(item)
		}
		return cp
	case []any:
		cp := make([]any, len(t))
		for i, item := range t {
			cp[i] = Copy(item)
		}
		return cp
	default:
		return v
	}
}

// Normalize converts the output of a YAML, TOML or XML decoder into the
// generic JSON model. Non-string map keys are formatted with fmt, integers
// become float64, and timestamps become RFC 3339 strings. NaN and infinities
// have no JSON encoding and become their fmt strings.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil, string, bool:
		return t
	case float64:
		return normalizeFloat(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	case int:
		return float64(t)
	case int8:
		return float64(t)
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint8:
		return float64(t)
	case uint16:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return normalizeFloat(float64(t))
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func normalizeFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprint(f)
	}
	return f
}

// SortedKeys returns the keys of an object in lexical order.
func SortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

// Compact returns the compact JSON encoding of v, or a %v rendering if v
// cannot be encoded.
func Compact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// ContainsKey reports whether any object anywhere in v has the given key.
func ContainsKey(v any, key string) bool {
	switch t := v.(type) {
	case *Object:
		if _, ok := t.values[key]; ok {
			return true
		}
		for _, item := range t.values {
			if ContainsKey(item, key) {
				return true
			}
		}
	case map[string]any:
		if _, ok := t[key]; ok {
			return true
		}
		for _, item := range t {
			if ContainsKey(item, key) {
				return true
			}
		}
	case []any:
		for _, item := range t {
			if ContainsKey(item, key) {
				return true
			}
		}
	}
	return false
}
