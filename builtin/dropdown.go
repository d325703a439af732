package builtin

import (
	"context"
	"fmt"

	"github.com/ohler55/ojg/oj"

	"github.com/crznodes/crz"
	"github.com/crznodes/crz/coerce"
	"github.com/crznodes/crz/yaml"
)

// mapOptionCount is how many option_N inputs a map dropdown offers.
const mapOptionCount = 10

// DropdownBuilder builds free-choice dropdown nodes.
type DropdownBuilder struct{}

var dropdown = &crz.Descriptor{
	Name:        "CRZDropdown",
	DisplayName: "CRZ Dropdown",
	Category:    Category,
	Description: "Outputs the selected dropdown entry; any value is accepted",
	Inputs: []crz.InputSpec{
		{Name: "value", Type: crz.Any, Default: "", Choices: []string{""}, FreeChoice: true},
	},
	Outputs: []crz.OutputSpec{{Name: "value", Type: crz.Any}},
}

// Metadata returns the node metadata.
func (b *DropdownBuilder) Metadata() NodeMetadata {
	return metadata(dropdown,
		Example{Name: "Selection", Inputs: map[string]any{"value": "medium"}, Output: "medium"},
	)
}

// Build creates a dropdown node from a definition.
func (b *DropdownBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, dropdown, behavior{
		run: func(ctx context.Context, c *call) (crz.Outputs, error) {
			return crz.Outputs{c.input("value")}, nil
		},
		fallback: func(*call) crz.Outputs { return crz.Outputs{""} },
	}), nil
}

// CustomDropdownBuilder builds dropdowns whose entries are edited on the
// canvas.
type CustomDropdownBuilder struct{}

var customDropdown = &crz.Descriptor{
	Name:        "CRZCustomDropdown",
	DisplayName: "CRZ Custom Dropdown",
	Category:    Category,
	Description: "Outputs the selected custom entry; whole numbers become integers",
	Inputs: []crz.InputSpec{
		{Name: "dropdown", Type: crz.Float, Section: crz.Hidden, Default: 0.0},
		{Name: "dropdown_options", Type: crz.String, Section: crz.Hidden, Default: "[]"},
	},
	Outputs:    []crz.OutputSpec{{Name: "value", Type: crz.Any}},
	OutputNode: true,
}

// Metadata returns the node metadata.
func (b *CustomDropdownBuilder) Metadata() NodeMetadata {
	return metadata(customDropdown,
		Example{Name: "Whole number", Inputs: map[string]any{"dropdown": 2.0}, Output: 2},
		Example{Name: "Fraction", Inputs: map[string]any{"dropdown": 2.5}, Output: 2.5},
		Example{Name: "Text", Inputs: map[string]any{"dropdown": "large", "dropdown_options": `["small","large"]`}, Output: "large"},
	)
}

// Build creates a custom dropdown node from a definition.
func (b *CustomDropdownBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, customDropdown, behavior{
		run: func(ctx context.Context, c *call) (crz.Outputs, error) {
			return crz.Outputs{coerce.Smart(c.input("dropdown"))}, nil
		},
		fallback: func(*call) crz.Outputs { return crz.Outputs{0} },
	}), nil
}

// MapDropdownBuilder builds nodes that map a dropdown selection onto one of
// several connected values.
type MapDropdownBuilder struct{}

var mapDropdown = &crz.Descriptor{
	Name:        "CRZMapDropdown",
	DisplayName: "CRZ Map Custom Dropdown",
	Category:    Category,
	Description: "Outputs option_N, where N is the position of the selection in dropdown_options",
	Inputs:      mapDropdownInputs(),
	Outputs:     []crz.OutputSpec{{Name: "output", Type: crz.Any}},
}

func mapDropdownInputs() []crz.InputSpec {
	inputs := []crz.InputSpec{
		{Name: "custom_dropdown", Type: crz.Any},
		{Name: "dropdown_options", Type: crz.String, Section: crz.Optional, Default: "[]"},
	}
	for i := 0; i < mapOptionCount; i++ {
		inputs = append(inputs, crz.InputSpec{Name: optionName(i), Type: crz.Any, Section: crz.Optional})
	}
	return inputs
}

func optionName(i int) string {
	return fmt.Sprintf("option_%d", i)
}

// Metadata returns the node metadata.
func (b *MapDropdownBuilder) Metadata() NodeMetadata {
	return metadata(mapDropdown,
		Example{
			Name:   "Found",
			Inputs: map[string]any{"custom_dropdown": "b", "dropdown_options": `["a","b"]`, "option_0": "first", "option_1": "second"},
			Output: "second",
		},
		Example{
			Name:        "Not found",
			Description: "An unknown selection maps to option_0",
			Inputs:      map[string]any{"custom_dropdown": "z", "dropdown_options": `["a","b"]`, "option_0": "first"},
			Output:      "first",
		},
		Example{
			Name:        "Missing option",
			Description: "A selection without a connected option yields nothing",
			Inputs:      map[string]any{"custom_dropdown": "b", "dropdown_options": `["a","b"]`, "option_0": "first"},
			Output:      nil,
		},
	)
}

// Build creates a map dropdown node from a definition.
func (b *MapDropdownBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, mapDropdown, behavior{
		run: func(ctx context.Context, c *call) (crz.Outputs, error) {
			selected := selection(c.input("custom_dropdown"))
			options := parseOptions(c.input("dropdown_options"))

			index := 0
			for i, opt := range options {
				if s, ok := opt.(string); ok && s == selected {
					index = i
					break
				}
			}
			c.host.Log().Debug(ctx, "map dropdown", "node", c.node, "selected", selected, "options", len(options), "index", index)

			if index >= mapOptionCount {
				return crz.Outputs{nil}, nil
			}
			return crz.Outputs{c.input(optionName(index))}, nil
		},
		fallback: func(*call) crz.Outputs { return crz.Outputs{nil} },
	}), nil
}

// selection renders the selected dropdown value as text.
func selection(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return coerce.Repr(v)
}

// parseOptions decodes a JSON list of dropdown entries. Anything that is
// not a JSON list yields no options.
func parseOptions(v any) []any {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	parsed, err := oj.ParseString(s)
	if err != nil {
		return nil
	}
	list, _ := parsed.([]any)
	return list
}
