package loader

import (
	"bytes"
	"errors"

	"github.com/clbanning/mxj/v2"
	json "github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/refinline/document"
	"github.com/erraggy/refinline/internal/jsonvalue"
	"github.com/erraggy/refinline/referrors"
)

// decoder converts raw bytes into a generic JSON value.
type decoder func(data []byte) (any, error)

var decoders = map[document.Format]decoder{
	document.FormatJSON:    decodeJSON,
	document.FormatYAML:    decodeYAML,
	document.FormatTOML:    decodeTOML,
	document.FormatGraphQL: decodeGraphQL,
	document.FormatXML:     decodeXML,
}

var errEmpty = errors.New("empty document")

// Decode converts data into a generic JSON value. Objects are
// *jsonvalue.Object with their keys in source order. The formats in
// hint.Fallbacks() are tried in order and the first success wins. When every
// format fails, the returned *referrors.DecodeError lists each attempt.
func Decode(data []byte, hint document.Format) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &referrors.DecodeError{
			Attempts: []referrors.DecodeAttempt{{Format: string(hint), Err: errEmpty}},
		}
	}

	var attempts []referrors.DecodeAttempt
	for _, format := range hint.Fallbacks() {
		dec, ok := decoders[format]
		if !ok {
			continue
		}
		value, err := dec(data)
		if err == nil {
			return value, nil
		}
		attempts = append(attempts, referrors.DecodeAttempt{Format: string(format), Err: err})
	}
	return nil, &referrors.DecodeError{Attempts: attempts}
}

func decodeJSON(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	ordered, err := readJSON(data)
	if err != nil {
		return jsonvalue.Ordered(v), nil
	}
	return ordered, nil
}

func decodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return jsonvalue.Ordered(jsonvalue.Normalize(v)), nil
	}
	return orderYAML(&node, jsonvalue.Normalize(v)), nil
}

func decodeTOML(data []byte) (any, error) {
	var v map[string]any
	if err := toml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	order, err := tomlKeyOrder(data)
	if err != nil {
		return jsonvalue.Ordered(jsonvalue.Normalize(v)), nil
	}
	return order.apply(jsonvalue.Normalize(v), nil), nil
}

func decodeXML(data []byte) (any, error) {
	m, err := mxj.NewMapXml(data)
	if err != nil {
		return nil, err
	}
	v := jsonvalue.Normalize(map[string]any(m))
	seq, err := mxj.NewMapXmlSeq(data)
	if err != nil {
		return jsonvalue.Ordered(v), nil
	}
	return xmlKeyOrder(map[string]any(seq)).apply(v, nil), nil
}
