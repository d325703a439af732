package builtin

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/crznodes/crz"
	"github.com/crznodes/crz/yaml"
)

// InputSchema derives a JSON schema for the literal inputs a graph file may
// give a node. Unknown input names are rejected.
func InputSchema(desc *crz.Descriptor) map[string]any {
	properties := make(map[string]any, len(desc.Inputs))
	for _, in := range desc.Inputs {
		prop := map[string]any{
			"description": fmt.Sprintf("%s %s input", in.Section, in.Type),
		}
		// Hidden widget values are written by the front end and accepted as is.
		if in.Section == crz.Hidden {
			properties[in.Name] = prop
			continue
		}
		switch in.Type {
		case crz.Boolean:
			prop["type"] = "boolean"
		case crz.Int:
			prop["type"] = "integer"
		case crz.Float:
			prop["type"] = "number"
		case crz.String:
			prop["type"] = "string"
		}
		if in.Min != nil {
			prop["minimum"] = *in.Min
		}
		if in.Max != nil {
			prop["maximum"] = *in.Max
		}
		if len(in.Choices) > 0 && !in.FreeChoice {
			enum := make([]any, len(in.Choices))
			for i, c := range in.Choices {
				enum[i] = c
			}
			prop["enum"] = enum
		}
		if in.HasDefault() {
			prop["default"] = in.Default
		}
		properties[in.Name] = prop
	}

	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
}

// ValidateNodeInputs validates the literal inputs of a node definition
// against the node's input schema. Links are checked at run time instead.
func ValidateNodeInputs(meta *NodeMetadata, inputs map[string]any) error {
	if len(meta.InputSchema) == 0 {
		return nil
	}

	literals := make(map[string]any, len(inputs))
	for name, v := range inputs {
		if _, isLink := yaml.ParseLink(v); isLink {
			// Keep the name so unknown inputs are still rejected.
			literals[name] = nil
			continue
		}
		literals[name] = yaml.Unescape(v)
	}

	schema := relaxLinked(meta.InputSchema, inputs)
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(literals),
	)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("input validation failed: %s", strings.Join(msgs, "; "))
	}

	return nil
}

// relaxLinked returns a copy of schema where linked inputs accept anything.
func relaxLinked(schema map[string]any, inputs map[string]any) map[string]any {
	props, _ := schema["properties"].(map[string]any)
	relaxed := make(map[string]any, len(props))
	for name, p := range props {
		relaxed[name] = p
		if _, isLink := yaml.ParseLink(inputs[name]); isLink {
			relaxed[name] = map[string]any{}
		}
	}

	out := make(map[string]any, len(schema))
	for k, v := range schema {
		out[k] = v
	}
	out["properties"] = relaxed
	return out
}

// ValidateAllNodeInputs validates literal inputs for several node types.
func ValidateAllNodeInputs(registry *Registry, inputs map[string]map[string]any) error {
	for nodeType, in := range inputs {
		builder, exists := registry.Get(nodeType)
		if !exists {
			return fmt.Errorf("%w: %s", yaml.ErrUnknownNodeType, nodeType)
		}

		meta := builder.Metadata()
		if err := ValidateNodeInputs(&meta, in); err != nil {
			return fmt.Errorf("node '%s' input validation failed: %w", nodeType, err)
		}
	}

	return nil
}
