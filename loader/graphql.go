package loader

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/erraggy/refinline/internal/jsonvalue"
)

// decodeGraphQL parses GraphQL schema definition language into an object of
// the form:
//
//	{
//	  "types": {"Pet": {"kind": "OBJECT", "fields": {"name": {"type": "String!"}}}},
//	  "directives": {"auth": {"locations": ["FIELD_DEFINITION"]}}
//	}
//
// Type extensions are folded into the type they extend.
func decodeGraphQL(data []byte) (any, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: "schema.graphql", Input: string(data)})
	if err != nil {
		return nil, err
	}

	types := jsonvalue.NewObject(len(doc.Definitions))
	for _, def := range doc.Definitions {
		types.Set(def.Name, graphQLDefinition(def))
	}
	for _, ext := range doc.Extensions {
		existing, ok := types.Get(ext.Name)
		if !ok {
			types.Set(ext.Name, graphQLDefinition(ext))
			continue
		}
		mergeGraphQLDefinition(existing.(*jsonvalue.Object), graphQLDefinition(ext))
	}

	directives := jsonvalue.NewObject(len(doc.Directives))
	for _, dir := range doc.Directives {
		directives.Set(dir.Name, graphQLDirective(dir))
	}

	out := jsonvalue.NewObject(2)
	out.Set("types", types)
	out.Set("directives", directives)
	return out, nil
}

func graphQLDefinition(def *ast.Definition) *jsonvalue.Object {
	out := jsonvalue.NewObject(6)
	out.Set("kind", string(def.Kind))
	if def.Description != "" {
		out.Set("description", def.Description)
	}
	if len(def.Interfaces) > 0 {
		out.Set("interfaces", stringsToAny(def.Interfaces))
	}
	if len(def.Types) > 0 {
		out.Set("possibleTypes", stringsToAny(def.Types))
	}
	if len(def.Fields) > 0 {
		fields := jsonvalue.NewObject(len(def.Fields))
		for _, f := range def.Fields {
			fields.Set(f.Name, graphQLField(f))
		}
		out.Set("fields", fields)
	}
	if len(def.EnumValues) > 0 {
		values := make([]any, 0, len(def.EnumValues))
		for _, v := range def.EnumValues {
			values = append(values, v.Name)
		}
		out.Set("enumValues", values)
	}
	return out
}

func graphQLField(f *ast.FieldDefinition) *jsonvalue.Object {
	out := jsonvalue.NewObject(4)
	if f.Type != nil {
		out.Set("type", f.Type.String())
	}
	if f.Description != "" {
		out.Set("description", f.Description)
	}
	if f.DefaultValue != nil {
		out.Set("default", f.DefaultValue.String())
	}
	if len(f.Arguments) > 0 {
		out.Set("args", graphQLArguments(f.Arguments))
	}
	return out
}

func graphQLArguments(args ast.ArgumentDefinitionList) *jsonvalue.Object {
	out := jsonvalue.NewObject(len(args))
	for _, a := range args {
		arg := jsonvalue.NewObject(3)
		if a.Type != nil {
			arg.Set("type", a.Type.String())
		}
		if a.Description != "" {
			arg.Set("description", a.Description)
		}
		if a.DefaultValue != nil {
			arg.Set("default", a.DefaultValue.String())
		}
		out.Set(a.Name, arg)
	}
	return out
}

func graphQLDirective(dir *ast.DirectiveDefinition) *jsonvalue.Object {
	locations := make([]any, 0, len(dir.Locations))
	for _, loc := range dir.Locations {
		locations = append(locations, string(loc))
	}
	out := jsonvalue.NewObject(4)
	if dir.Description != "" {
		out.Set("description", dir.Description)
	}
	out.Set("locations", locations)
	out.Set("repeatable", dir.IsRepeatable)
	if len(dir.Arguments) > 0 {
		out.Set("args", graphQLArguments(dir.Arguments))
	}
	return out
}

// mergeGraphQLDefinition folds an extension into the definition it extends.
// Extension fields follow the original fields.
func mergeGraphQLDefinition(dst, ext *jsonvalue.Object) {
	if fields, ok := ext.Get("fields"); ok {
		existing, _ := dst.Get("fields")
		merged, _ := existing.(*jsonvalue.Object)
		if merged == nil {
			merged = jsonvalue.NewObject(fields.(*jsonvalue.Object).Len())
		}
		add := fields.(*jsonvalue.Object)
		for _, k := range add.Keys() {
			v, _ := add.Get(k)
			merged.Set(k, v)
		}
		dst.Set("fields", merged)
	}
	for _, key := range []string{"interfaces", "possibleTypes", "enumValues"} {
		raw, _ := ext.Get(key)
		if add, ok := raw.([]any); ok {
			existing, _ := dst.Get(key)
			have, _ := existing.([]any)
			dst.Set(key, append(have, add...))
		}
	}
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
