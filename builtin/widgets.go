package builtin

import (
	"context"

	"github.com/crznodes/crz"
	"github.com/crznodes/crz/coerce"
	"github.com/crznodes/crz/yaml"
)

// Slider bounds shared by the float widgets.
const (
	sliderMax    = 1000000.0
	sliderStep   = 0.01
	intSliderMax = 4294967296.0
)

// BooleanToggleBuilder builds boolean toggle nodes.
type BooleanToggleBuilder struct{}

var booleanToggle = &crz.Descriptor{
	Name:        "CRZBooleanToggle",
	DisplayName: "CRZ Boolean Toggle",
	Category:    Category,
	Description: "Outputs the toggle's boolean value",
	Inputs: []crz.InputSpec{
		{Name: "value", Type: crz.Boolean, Default: false},
	},
	Outputs: []crz.OutputSpec{{Name: "value", Type: crz.Boolean}},
}

// Metadata returns the node metadata.
func (b *BooleanToggleBuilder) Metadata() NodeMetadata {
	return metadata(booleanToggle,
		Example{Name: "Off by default", Output: false},
		Example{Name: "On", Inputs: map[string]any{"value": true}, Output: true},
	)
}

// Build creates a boolean toggle node from a definition.
func (b *BooleanToggleBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, booleanToggle, behavior{
		run: func(ctx context.Context, c *call) (crz.Outputs, error) {
			return crz.Outputs{c.input("value")}, nil
		},
		fallback: func(*call) crz.Outputs { return crz.Outputs{false} },
	}), nil
}

// FloatSliderBuilder builds float slider nodes.
type FloatSliderBuilder struct{}

var floatSlider = &crz.Descriptor{
	Name:        "CRZFloatSlider",
	DisplayName: "CRZ Float Slider",
	Category:    Category,
	Description: "Outputs the slider's float value",
	Inputs: []crz.InputSpec{
		{Name: "value", Type: crz.Float, Default: 0.5, Min: crz.Bound(0), Max: crz.Bound(sliderMax), Step: sliderStep},
	},
	Outputs: []crz.OutputSpec{{Name: "value", Type: crz.Float}},
}

// Metadata returns the node metadata.
func (b *FloatSliderBuilder) Metadata() NodeMetadata {
	return metadata(floatSlider,
		Example{Name: "Default", Output: 0.5},
		Example{Name: "Whole number", Inputs: map[string]any{"value": 3}, Output: 3.0},
	)
}

// Build creates a float slider node from a definition.
func (b *FloatSliderBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, floatSlider, behavior{
		run: func(ctx context.Context, c *call) (crz.Outputs, error) {
			f, err := coerce.ToFloat(c.input("value"))
			if err != nil {
				return nil, err
			}
			return crz.Outputs{f}, nil
		},
		fallback: func(*call) crz.Outputs { return crz.Outputs{0.5} },
	}), nil
}

// IntegerSliderBuilder builds integer slider nodes.
type IntegerSliderBuilder struct{}

var integerSlider = &crz.Descriptor{
	Name:        "CRZIntegerSlider",
	DisplayName: "CRZ Integer Slider",
	Category:    Category,
	Description: "Outputs the slider's integer value",
	Inputs: []crz.InputSpec{
		{Name: "value", Type: crz.Int, Default: 5, Min: crz.Bound(0), Max: crz.Bound(intSliderMax), Step: 1},
	},
	Outputs: []crz.OutputSpec{{Name: "value", Type: crz.Int}},
}

// Metadata returns the node metadata.
func (b *IntegerSliderBuilder) Metadata() NodeMetadata {
	return metadata(integerSlider,
		Example{Name: "Default", Output: 5},
		Example{Name: "Set", Inputs: map[string]any{"value": 42}, Output: 42},
	)
}

// Build creates an integer slider node from a definition.
func (b *IntegerSliderBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, integerSlider, behavior{
		run: func(ctx context.Context, c *call) (crz.Outputs, error) {
			n, err := coerce.ToInt(c.input("value"))
			if err != nil {
				return nil, err
			}
			return crz.Outputs{n}, nil
		},
		fallback: func(*call) crz.Outputs { return crz.Outputs{5} },
	}), nil
}

// StringNodeBuilder builds text widget nodes.
type StringNodeBuilder struct{}

var stringNode = &crz.Descriptor{
	Name:        "CRZStringNode",
	DisplayName: "CRZ String",
	Category:    Category,
	Description: "Outputs the text typed into the widget",
	Inputs: []crz.InputSpec{
		{Name: "text", Type: crz.String, Section: crz.Hidden, Default: ""},
	},
	Outputs: []crz.OutputSpec{{Name: "text", Type: crz.String}},
}

// Metadata returns the node metadata.
func (b *StringNodeBuilder) Metadata() NodeMetadata {
	return metadata(stringNode,
		Example{Name: "Empty", Output: ""},
		Example{Name: "Text", Inputs: map[string]any{"text": "hello"}, Output: "hello"},
	)
}

// Build creates a string node from a definition.
func (b *StringNodeBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, stringNode, behavior{
		run: func(ctx context.Context, c *call) (crz.Outputs, error) {
			return crz.Outputs{c.input("text")}, nil
		},
		fallback: func(*call) crz.Outputs { return crz.Outputs{""} },
	}), nil
}

// LabelBuilder builds label nodes. A label only carries text for the
// canvas; it has no inputs or outputs.
type LabelBuilder struct{}

var label = &crz.Descriptor{
	Name:        "CRZLabel",
	DisplayName: "CRZ Label",
	Category:    Category,
	Description: "Displays text on the canvas; does no processing",
}

// Metadata returns the node metadata.
func (b *LabelBuilder) Metadata() NodeMetadata {
	return metadata(label)
}

// Build creates a label node from a definition.
func (b *LabelBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, label, behavior{
		run:      func(context.Context, *call) (crz.Outputs, error) { return crz.Outputs{}, nil },
		fallback: func(*call) crz.Outputs { return crz.Outputs{} },
	}), nil
}
