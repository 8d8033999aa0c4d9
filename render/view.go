package render

import (
	"reflect"
	"slices"
	"text/template"

	"github.com/erraggy/refinline/internal/jsonvalue"
)

// view is the form a document takes inside a template. Objects become plain
// maps so templates can address fields by name, and the key order of each
// one is kept aside for the keys function.
type view struct {
	order map[uintptr][]string
}

// newView converts data and returns it with the view that remembers its key
// order. The order is keyed by map identity, so it is only valid while the
// returned value is alive.
func newView(data any) (any, *view) {
	v := &view{order: make(map[uintptr][]string)}
	return v.convert(data), v
}

func (v *view) convert(x any) any {
	switch t := x.(type) {
	case *jsonvalue.Object:
		keys := t.Keys()
		m := make(map[string]any, len(keys))
		for _, k := range keys {
			item, _ := t.Get(k)
			m[k] = v.convert(item)
		}
		v.order[reflect.ValueOf(m).Pointer()] = keys
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, item := range t {
			m[k] = v.convert(item)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = v.convert(item)
		}
		return out
	default:
		return x
	}
}

// keys returns the keys of an object in source order. Objects without a
// recorded order list their keys lexically.
func (v *view) keys(x any) []string {
	m, ok := x.(map[string]any)
	if !ok {
		return jsonvalue.Keys(x)
	}
	if order, ok := v.order[reflect.ValueOf(m).Pointer()]; ok {
		return slices.Clone(order)
	}
	return jsonvalue.SortedKeys(m)
}

// toJSON encodes x compactly, writing objects in source order.
func (v *view) toJSON(x any) string {
	return jsonvalue.Compact(v.restore(x))
}

// restore turns converted maps back into ordered objects.
func (v *view) restore(x any) any {
	switch t := x.(type) {
	case map[string]any:
		keys := v.keys(t)
		obj := jsonvalue.NewObject(len(keys))
		for _, k := range keys {
			obj.Set(k, v.restore(t[k]))
		}
		return obj
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = v.restore(item)
		}
		return out
	default:
		return x
	}
}

// funcs returns the functions bound to this view, leaving out any the
// caller replaced.
func (v *view) funcs(custom map[string]bool) template.FuncMap {
	out := template.FuncMap{}
	if !custom["keys"] {
		out["keys"] = v.keys
	}
	if !custom["toJSON"] {
		out["toJSON"] = v.toJSON
	}
	return out
}
