package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	goyaml "github.com/goccy/go-yaml"
	"github.com/ohler55/ojg/oj"

	"github.com/crznodes/crz"
	"github.com/crznodes/crz/builtin"
	"github.com/crznodes/crz/coerce"
	"github.com/crznodes/crz/imageio"
)

// expandPath expands ~ to home directory.
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// writeStructured writes v as JSON or YAML. v must already be made of
// maps, slices and scalars.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case jsonFormat:
		_, err := fmt.Fprintln(w, oj.JSON(v, &oj.Options{Indent: 2, Sort: true}))
		return err
	case yamlFormat:
		data, err := goyaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported structured format %q", format)
	}
}

// describe renders a node value for display. Image tensors are summarized
// by shape.
func describe(v any) string {
	switch val := v.(type) {
	case *imageio.Tensor:
		s := val.Shape()
		return fmt.Sprintf("IMAGE[%d %d %d %d]", s[0], s[1], s[2], s[3])
	case crz.Blocked:
		return val.String()
	default:
		return coerce.Repr(v)
	}
}

// plain converts a node value into something JSON and YAML can carry.
func plain(v any) any {
	switch val := v.(type) {
	case nil, bool, string, int, int64, uint64, float64:
		return val
	case float32:
		return float64(val)
	default:
		return describe(v)
	}
}

func inputMap(in crz.InputSpec) map[string]any {
	m := map[string]any{
		"name":    in.Name,
		"type":    string(in.Type),
		"section": in.Section.String(),
	}
	if in.Default != nil {
		m["default"] = plain(in.Default)
	}
	if in.Min != nil {
		m["min"] = *in.Min
	}
	if in.Max != nil {
		m["max"] = *in.Max
	}
	if in.Step != 0 {
		m["step"] = in.Step
	}
	if in.Lazy {
		m["lazy"] = true
	}
	if len(in.Choices) > 0 {
		choices := make([]any, len(in.Choices))
		for i, c := range in.Choices {
			choices[i] = c
		}
		m["choices"] = choices
	}
	return m
}

// metadataMap flattens node metadata for structured output. detail adds
// the inputs, outputs, schema and examples.
func metadataMap(meta builtin.NodeMetadata, detail bool) map[string]any {
	m := map[string]any{
		"type":        meta.Type,
		"displayName": meta.DisplayName,
		"category":    meta.Category,
		"description": meta.Description,
	}
	if meta.Since != "" {
		m["since"] = meta.Since
	}
	if !detail || meta.Descriptor == nil {
		return m
	}

	inputs := make([]any, 0, len(meta.Descriptor.Inputs))
	for _, in := range meta.Descriptor.Inputs {
		inputs = append(inputs, inputMap(in))
	}
	outputs := make([]any, 0, len(meta.Descriptor.Outputs))
	for _, out := range meta.Descriptor.Outputs {
		outputs = append(outputs, map[string]any{"name": out.Name, "type": string(out.Type)})
	}
	m["inputs"] = inputs
	m["outputs"] = outputs
	m["outputNode"] = meta.Descriptor.OutputNode
	if meta.InputSchema != nil {
		m["inputSchema"] = meta.InputSchema
	}
	if len(meta.Examples) > 0 {
		examples := make([]any, 0, len(meta.Examples))
		for _, ex := range meta.Examples {
			e := map[string]any{"name": ex.Name, "output": plain(ex.Output)}
			if ex.Description != "" {
				e["description"] = ex.Description
			}
			if len(ex.Inputs) > 0 {
				e["inputs"] = ex.Inputs
			}
			examples = append(examples, e)
		}
		m["examples"] = examples
	}
	return m
}
