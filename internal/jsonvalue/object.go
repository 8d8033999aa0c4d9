package jsonvalue

import (
	"bytes"
	"slices"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
)

// Object is a JSON object that keeps its keys in insertion order. Decoders
// build Objects in source key order and the JSON and YAML encoders write them
// back in the same order. Setting a key that already exists keeps its
// position.
//
// The zero value is not usable; create Objects with NewObject.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty Object with room for n keys.
func NewObject(n int) *Object {
	return &Object{
		keys:   make([]string, 0, n),
		values: make(map[string]any, n),
	}
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns a copy of the keys in order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return slices.Clone(o.keys)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Set stores value under key, appending key if it is new.
func (o *Object) Set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Delete removes key.
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
}

// MarshalJSON writes the object with its keys in order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML returns a mapping node with the keys in order.
func (o *Object) MarshalYAML() (any, error) {
	if o == nil {
		return nil, nil
	}
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range o.keys {
		var key, value yaml.Node
		if err := key.Encode(k); err != nil {
			return nil, err
		}
		if err := value.Encode(o.values[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &key, &value)
	}
	return node, nil
}

// IsObject reports whether v is a JSON object, either an *Object or a
// map[string]any.
func IsObject(v any) bool {
	switch v.(type) {
	case *Object, map[string]any:
		return true
	}
	return false
}

// Keys returns the keys of an object: insertion order for an *Object, lexical
// order for a map[string]any. It returns nil for anything else.
func Keys(v any) []string {
	switch t := v.(type) {
	case *Object:
		return t.Keys()
	case map[string]any:
		return SortedKeys(t)
	}
	return nil
}

// Get returns the value stored under key in an object.
func Get(v any, key string) (any, bool) {
	switch t := v.(type) {
	case *Object:
		return t.Get(key)
	case map[string]any:
		item, ok := t[key]
		return item, ok
	}
	return nil, false
}

// Set stores value under key in an object. It does nothing if v is not an
// object.
func Set(v any, key string, value any) {
	switch t := v.(type) {
	case *Object:
		t.Set(key, value)
	case map[string]any:
		t[key] = value
	}
}

// Delete removes key from an object.
func Delete(v any, key string) {
	switch t := v.(type) {
	case *Object:
		t.Delete(key)
	case map[string]any:
		delete(t, key)
	}
}

// Plain converts every *Object in v into a map[string]any, dropping key
// order. Text templates need this form to address fields by name.
func Plain(v any) any {
	switch t := v.(type) {
	case *Object:
		out := make(map[string]any, t.Len())
		for _, k := range t.keys {
			out[k] = Plain(t.values[k])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Plain(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Plain(item)
		}
		return out
	default:
		return v
	}
}

// Ordered converts every map[string]any in v into an *Object with its keys
// in lexical order.
func Ordered(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := NewObject(len(t))
		for _, k := range SortedKeys(t) {
			out.Set(k, Ordered(t[k]))
		}
		return out
	case *Object:
		out := NewObject(t.Len())
		for _, k := range t.keys {
			out.Set(k, Ordered(t.values[k]))
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Ordered(item)
		}
		return out
	default:
		return v
	}
}
