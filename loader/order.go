package loader

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2/unstable"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/refinline/internal/jsonvalue"
)

// readJSON builds the ordered value of one JSON document from its token
// stream. data must already be known to be valid JSON.
func readJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	return readJSONValue(dec)
}

func readJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := jsonvalue.NewObject(0)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v is not a string", keyTok)
			}
			value, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			value, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected %q", rune(delim))
	}
}

// orderYAML pairs a normalized YAML value with the node tree it was decoded
// from and returns the value with every object in node order. Keys the
// nodes do not account for, such as those pulled in by a merge key, follow
// in lexical order.
func orderYAML(n *yaml.Node, v any) any {
	n = yamlTarget(n)
	switch t := v.(type) {
	case map[string]any:
		obj := jsonvalue.NewObject(len(t))
		if n != nil && n.Kind == yaml.MappingNode {
			addYAMLMapping(obj, n, t)
		}
		for _, k := range jsonvalue.SortedKeys(t) {
			if _, done := obj.Get(k); !done {
				obj.Set(k, jsonvalue.Ordered(t[k]))
			}
		}
		return obj
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			var child *yaml.Node
			if n != nil && n.Kind == yaml.SequenceNode && i < len(n.Content) {
				child = n.Content[i]
			}
			out[i] = orderYAML(child, item)
		}
		return out
	default:
		return v
	}
}

// addYAMLMapping sets the keys of mapping node n into obj in node order,
// taking values from t. Merged mappings contribute their keys where the
// merge key appears.
func addYAMLMapping(obj *jsonvalue.Object, n *yaml.Node, t map[string]any) {
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if key.Tag == "!!merge" || (key.Value == "<<" && key.Style == 0) {
			for _, m := range yamlMergeSources(value) {
				addYAMLMapping(obj, m, t)
			}
			continue
		}
		item, ok := t[key.Value]
		if !ok {
			continue
		}
		if _, done := obj.Get(key.Value); done {
			continue
		}
		obj.Set(key.Value, orderYAML(value, item))
	}
}

func yamlMergeSources(n *yaml.Node) []*yaml.Node {
	n = yamlTarget(n)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{n}
	case yaml.SequenceNode:
		var out []*yaml.Node
		for _, item := range n.Content {
			if m := yamlTarget(item); m != nil && m.Kind == yaml.MappingNode {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// yamlTarget skips document and alias nodes.
func yamlTarget(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

// keyOrder records, per object path, the keys in the order they were first
// seen. Array indices are not part of a path, so all elements of an array
// share one order.
type keyOrder struct {
	keys map[string][]string
	seen map[string]struct{}
}

func newKeyOrder() *keyOrder {
	return &keyOrder{keys: map[string][]string{}, seen: map[string]struct{}{}}
}

func (o *keyOrder) add(path []string, key string) {
	p := strings.Join(path, "\x00")
	id := p + "\x01" + key
	if _, ok := o.seen[id]; ok {
		return
	}
	o.seen[id] = struct{}{}
	o.keys[p] = append(o.keys[p], key)
}

// apply returns v with every object in recorded order. Unrecorded keys
// follow in lexical order.
func (o *keyOrder) apply(v any, path []string) any {
	switch t := v.(type) {
	case map[string]any:
		obj := jsonvalue.NewObject(len(t))
		for _, k := range o.keys[strings.Join(path, "\x00")] {
			if item, ok := t[k]; ok {
				obj.Set(k, o.apply(item, childPath(path, k)))
			}
		}
		for _, k := range jsonvalue.SortedKeys(t) {
			if _, done := obj.Get(k); !done {
				obj.Set(k, o.apply(t[k], childPath(path, k)))
			}
		}
		return obj
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = o.apply(item, path)
		}
		return out
	default:
		return v
	}
}

func childPath(path []string, key string) []string {
	return append(path[:len(path):len(path)], key)
}

// tomlKeyOrder records the key order of a TOML document from its
// expression stream: table headers, dotted keys and inline tables.
func tomlKeyOrder(data []byte) (*keyOrder, error) {
	order := newKeyOrder()
	var p unstable.Parser
	p.Reset(data)

	var table []string
	for p.NextExpression() {
		e := p.Expression()
		switch e.Kind {
		case unstable.Table, unstable.ArrayTable:
			table = order.addTOMLKey(nil, e.Key())
		case unstable.KeyValue:
			order.addTOMLKeyValue(table, e)
		}
	}
	return order, p.Error()
}

// addTOMLKey records every part of a dotted key below base and returns the
// full path.
func (o *keyOrder) addTOMLKey(base []string, it unstable.Iterator) []string {
	path := slices.Clone(base)
	for it.Next() {
		k := string(it.Node().Data)
		o.add(path, k)
		path = append(path, k)
	}
	return path
}

func (o *keyOrder) addTOMLKeyValue(base []string, kv *unstable.Node) {
	path := o.addTOMLKey(base, kv.Key())
	o.addTOMLValue(path, kv.Value())
}

func (o *keyOrder) addTOMLValue(path []string, v *unstable.Node) {
	switch v.Kind {
	case unstable.InlineTable:
		it := v.Children()
		for it.Next() {
			o.addTOMLKeyValue(path, it.Node())
		}
	case unstable.Array:
		it := v.Children()
		for it.Next() {
			o.addTOMLValue(path, it.Node())
		}
	}
}

// xmlAttrPrefix is how mxj names attribute keys in a plain map.
const xmlAttrPrefix = "-"

// xmlKeyOrder records the element order of a document decoded by
// mxj.NewMapXmlSeq. Attributes come first, then child elements in document
// order, then the element text.
func xmlKeyOrder(seq map[string]any) *keyOrder {
	order := newKeyOrder()
	order.addXMLElement(nil, seq)
	return order
}

// xmlEntry is a key and the decoding sequence number it was seen at.
type xmlEntry struct {
	key string
	seq int
}

func sortEntries(list []xmlEntry) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].seq != list[j].seq {
			return list[i].seq < list[j].seq
		}
		return list[i].key < list[j].key
	})
}

func (o *keyOrder) addXMLElement(path []string, elem map[string]any) {
	if attrs, ok := elem["#attr"].(map[string]any); ok {
		list := make([]xmlEntry, 0, len(attrs))
		for k, a := range attrs {
			list = append(list, xmlEntry{xmlAttrPrefix + k, xmlSeq(a)})
		}
		sortEntries(list)
		for _, e := range list {
			o.add(path, e.key)
		}
	}

	children := make([]xmlEntry, 0, len(elem))
	for k, v := range elem {
		if strings.HasPrefix(k, "#") {
			continue
		}
		children = append(children, xmlEntry{k, xmlSeq(v)})
		child := childPath(path, k)
		switch t := v.(type) {
		case map[string]any:
			o.addXMLElement(child, t)
		case []any:
			for _, item := range t {
				if m, ok := item.(map[string]any); ok {
					o.addXMLElement(child, m)
				}
			}
		}
	}
	sortEntries(children)
	for _, e := range children {
		o.add(path, e.key)
	}

	if _, ok := elem["#text"]; ok {
		o.add(path, "#text")
	}
}

// xmlSeq returns the decoding sequence number of an element, or of the first
// element of a repeated one.
func xmlSeq(v any) int {
	switch t := v.(type) {
	case map[string]any:
		if n, ok := t["#seq"].(int); ok {
			return n
		}
	case []any:
		if len(t) > 0 {
			return xmlSeq(t[0])
		}
	}
	return math.MaxInt
}
