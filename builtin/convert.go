package builtin

import (
	"context"

	"github.com/crznodes/crz"
	"github.com/crznodes/crz/coerce"
	"github.com/crznodes/crz/yaml"
)

// PassthroughBuilder builds passthrough nodes.
type PassthroughBuilder struct{}

var passthrough = &crz.Descriptor{
	Name:        "CRZPassthrough",
	DisplayName: "CRZ Passthrough",
	Category:    Category,
	Description: "Forwards its input unchanged; an empty input becomes 0",
	Inputs: []crz.InputSpec{
		{Name: "input", Type: crz.Any},
	},
	Outputs: []crz.OutputSpec{{Name: "output", Type: crz.Any}},
}

// Metadata returns the node metadata.
func (b *PassthroughBuilder) Metadata() NodeMetadata {
	return metadata(passthrough,
		Example{Name: "Value", Inputs: map[string]any{"input": "abc"}, Output: "abc"},
		Example{Name: "Empty", Inputs: map[string]any{"input": nil}, Output: 0},
	)
}

// Build creates a passthrough node from a definition.
func (b *PassthroughBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, passthrough, behavior{
		run: func(ctx context.Context, c *call) (crz.Outputs, error) {
			v := c.input("input")
			if v == nil {
				v = 0
			}
			return crz.Outputs{v}, nil
		},
		fallback: func(*call) crz.Outputs { return crz.Outputs{0} },
	}), nil
}

// FloatToIntBuilder builds truncating float to int converters.
type FloatToIntBuilder struct{}

var floatToInt = &crz.Descriptor{
	Name:        "CRZFloatToInt",
	DisplayName: "CRZ Float to Int",
	Category:    HiddenCategory,
	Description: "Converts a number to an integer, truncating toward zero",
	Inputs: []crz.InputSpec{
		{Name: "FLT", Type: crz.Any},
	},
	Outputs: []crz.OutputSpec{{Name: "INT", Type: crz.Int}},
}

// Metadata returns the node metadata.
func (b *FloatToIntBuilder) Metadata() NodeMetadata {
	return metadata(floatToInt,
		Example{Name: "Positive", Inputs: map[string]any{"FLT": 3.9}, Output: 3},
		Example{Name: "Negative", Inputs: map[string]any{"FLT": -3.9}, Output: -3},
	)
}

// Build creates a float to int node from a definition.
func (b *FloatToIntBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, floatToInt, behavior{
		run: func(ctx context.Context, c *call) (crz.Outputs, error) {
			n, err := coerce.ToInt(c.input("FLT"))
			if err != nil {
				return nil, err
			}
			return crz.Outputs{n}, nil
		},
		fallback: func(*call) crz.Outputs { return crz.Outputs{0} },
	}), nil
}

// IntToFloatBuilder builds int to float converters.
type IntToFloatBuilder struct{}

var intToFloat = &crz.Descriptor{
	Name:        "CRZIntToFloat",
	DisplayName: "CRZ Int to Float",
	Category:    HiddenCategory,
	Description: "Converts a number to a float",
	Inputs: []crz.InputSpec{
		{Name: "INT", Type: crz.Any},
	},
	Outputs: []crz.OutputSpec{{Name: "FLOAT", Type: crz.Float}},
}

// Metadata returns the node metadata.
func (b *IntToFloatBuilder) Metadata() NodeMetadata {
	return metadata(intToFloat,
		Example{Name: "Integer", Inputs: map[string]any{"INT": 4}, Output: 4.0},
		Example{Name: "Numeric text", Inputs: map[string]any{"INT": " 2.5 "}, Output: 2.5},
	)
}

// Build creates an int to float node from a definition.
func (b *IntToFloatBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, intToFloat, behavior{
		run: func(ctx context.Context, c *call) (crz.Outputs, error) {
			f, err := coerce.ToFloat(c.input("INT"))
			if err != nil {
				return nil, err
			}
			return crz.Outputs{f}, nil
		},
		fallback: func(*call) crz.Outputs { return crz.Outputs{0.0} },
	}), nil
}
