// Package schema derives Anthropic tool input schemas from Go input structs.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// reflector inlines nested types so list inputs such as []Todo carry their
// item schema instead of a dangling $ref.
var reflector = &jsonschema.Reflector{
	DoNotReference: true,
	ExpandedStruct: true,
}

// Generate reflects T into a tool input schema. The json and jsonschema
// struct tags drive names, descriptions, enums and required fields.
//
// Input types are fixed at compile time, so a type that cannot be reflected
// is a programming error and panics.
func Generate[T any]() anthropic.ToolInputSchemaParam {
	root, err := Document[T]()
	if err != nil {
		var zero T
		panic(fmt.Sprintf("schema: %T: %v", zero, err))
	}

	param := anthropic.ToolInputSchemaParam{}
	if props, ok := root["properties"].(map[string]any); ok {
		param.Properties = props
	}
	if req, ok := root["required"].([]any); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				param.Required = append(param.Required, s)
			}
		}
	}
	return param
}

// Document returns the cleaned JSON Schema of T as a generic document.
func Document[T any]() (map[string]any, error) {
	var zero T
	data, err := json.Marshal(reflector.Reflect(&zero))
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return clean(doc), nil
}

// clean drops document metadata and collapses nullable anyOf unions into
// their non-null branch, recursing into properties and items.
func clean(node map[string]any) map[string]any {
	delete(node, "$schema")
	delete(node, "$id")

	if alts, ok := node["anyOf"].([]any); ok {
		for _, alt := range alts {
			m, ok := alt.(map[string]any)
			if !ok || m["type"] == nil || m["type"] == "null" {
				continue
			}
			delete(node, "anyOf")
			for k, v := range clean(m) {
				if _, set := node[k]; !set {
					node[k] = v
				}
			}
			break
		}
	}

	if props, ok := node["properties"].(map[string]any); ok {
		for name, p := range props {
			if m, ok := p.(map[string]any); ok {
				props[name] = clean(m)
			}
		}
	}
	if items, ok := node["items"].(map[string]any); ok {
		node["items"] = clean(items)
	}
	return node
}
