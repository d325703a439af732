package builtin

import (
	"context"

	"github.com/crznodes/crz"
	"github.com/crznodes/crz/coerce"
	"github.com/crznodes/crz/yaml"
)

// CompareBuilder builds comparison nodes.
type CompareBuilder struct{}

var compare = &crz.Descriptor{
	Name:        "CRZCompare",
	DisplayName: "CRZ Compare",
	Category:    Category,
	Description: "Compares a with b using =, >, <, >= or <=",
	Inputs: []crz.InputSpec{
		{Name: "a", Type: crz.Any, Default: 0},
		{Name: "b", Type: crz.Any, Default: 0},
		{Name: "operator", Type: crz.String, Section: crz.Hidden, Default: string(coerce.Equal), Choices: operatorChoices()},
	},
	Outputs: []crz.OutputSpec{{Name: "result", Type: crz.Boolean}},
}

func operatorChoices() []string {
	choices := make([]string, len(coerce.Operators))
	for i, op := range coerce.Operators {
		choices[i] = string(op)
	}
	return choices
}

// Metadata returns the node metadata.
func (b *CompareBuilder) Metadata() NodeMetadata {
	return metadata(compare,
		Example{Name: "Numeric", Inputs: map[string]any{"a": 3, "b": "2.5", "operator": ">"}, Output: true},
		Example{Name: "Text", Description: "Non-numeric operands compare as text", Inputs: map[string]any{"a": "a", "b": "b", "operator": "<"}, Output: true},
		Example{Name: "Equality", Inputs: map[string]any{"a": 1, "b": 1.0}, Output: true},
	)
}

// Build creates a compare node from a definition.
func (b *CompareBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, compare, behavior{
		run: func(ctx context.Context, c *call) (crz.Outputs, error) {
			op, _ := c.input("operator").(string)
			return crz.Outputs{coerce.Compare(c.input("a"), c.input("b"), coerce.ParseOperator(op))}, nil
		},
		fallback: func(*call) crz.Outputs { return crz.Outputs{false} },
	}), nil
}

// SwitchBuilder builds lazy two-way switch nodes.
type SwitchBuilder struct{}

var switchNode = &crz.Descriptor{
	Name:        "CRZSwitch",
	DisplayName: "CRZ Switch",
	Category:    Category,
	Description: "Outputs true_input or false_input; only the selected one is evaluated",
	Inputs: []crz.InputSpec{
		{Name: "false_input", Type: crz.Any, Lazy: true},
		{Name: "true_input", Type: crz.Any, Lazy: true},
		{Name: "value", Type: crz.Boolean, Default: false},
	},
	Outputs: []crz.OutputSpec{{Name: "output", Type: crz.Any}},
}

// Metadata returns the node metadata.
func (b *SwitchBuilder) Metadata() NodeMetadata {
	return metadata(switchNode,
		Example{Name: "False branch", Inputs: map[string]any{"false_input": "no", "true_input": "yes"}, Output: "no"},
		Example{Name: "True branch", Inputs: map[string]any{"false_input": "no", "true_input": "yes", "value": true}, Output: "yes"},
	)
}

// Build creates a switch node from a definition.
func (b *SwitchBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, switchNode, behavior{
		needed: func(in crz.Inputs) []string {
			if coerce.Truthy(in["value"]) {
				return []string{"true_input"}
			}
			return []string{"false_input"}
		},
		run: func(ctx context.Context, c *call) (crz.Outputs, error) {
			if coerce.Truthy(c.input("value")) {
				return crz.Outputs{c.input("true_input")}, nil
			}
			return crz.Outputs{c.input("false_input")}, nil
		},
		fallback: func(*call) crz.Outputs { return crz.Outputs{nil} },
	}), nil
}

// ExecuteSwitchBuilder builds nodes that route their input to one of two
// branches and suspend the other.
type ExecuteSwitchBuilder struct{}

var executeSwitch = &crz.Descriptor{
	Name:        "CRZExecuteSwitch",
	DisplayName: "CRZ Execute Switch",
	Category:    Category,
	Description: "Routes input to the true or false output; the other branch does not run",
	Inputs: []crz.InputSpec{
		{Name: "input", Type: crz.Any},
		{Name: "bool", Type: crz.Boolean, Default: false},
	},
	Outputs: []crz.OutputSpec{
		{Name: "true", Type: crz.Any},
		{Name: "false", Type: crz.Any},
	},
}

// Metadata returns the node metadata.
func (b *ExecuteSwitchBuilder) Metadata() NodeMetadata {
	return metadata(executeSwitch,
		Example{Name: "True", Description: "Follows the true action", Inputs: map[string]any{"input": 7, "bool": true}, Output: 7},
		Example{Name: "False", Description: "Follows the false action", Inputs: map[string]any{"input": 7}, Output: 7},
	)
}

// Build creates an execute switch node from a definition.
func (b *ExecuteSwitchBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, executeSwitch, behavior{
		run: func(ctx context.Context, c *call) (crz.Outputs, error) {
			input := c.input("input")
			if coerce.Truthy(c.input("bool")) {
				c.next = "true"
				return crz.Outputs{input, c.host.Block()}, nil
			}
			c.next = "false"
			return crz.Outputs{c.host.Block(), input}, nil
		},
		fallback: func(c *call) crz.Outputs {
			return crz.Outputs{c.host.Block(), c.host.Block()}
		},
	}), nil
}

// ExecuteBlockBuilder builds gate nodes.
type ExecuteBlockBuilder struct{}

var executeBlock = &crz.Descriptor{
	Name:        "CRZExecuteBlock",
	DisplayName: "CRZ Execute Block",
	Category:    Category,
	Description: "Passes input through when bool is true, otherwise stops the branch",
	Inputs: []crz.InputSpec{
		{Name: "input", Type: crz.Any},
		{Name: "bool", Type: crz.Boolean, Default: false},
	},
	Outputs: []crz.OutputSpec{{Name: "output", Type: crz.Any}},
}

// Metadata returns the node metadata.
func (b *ExecuteBlockBuilder) Metadata() NodeMetadata {
	return metadata(executeBlock,
		Example{Name: "Open", Inputs: map[string]any{"input": "go", "bool": true}, Output: "go"},
		Example{Name: "Closed", Inputs: map[string]any{"input": "go"}, Output: crz.Blocked{}},
	)
}

// Build creates an execute block node from a definition.
func (b *ExecuteBlockBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, executeBlock, behavior{
		run: func(ctx context.Context, c *call) (crz.Outputs, error) {
			if coerce.Truthy(c.input("bool")) {
				return crz.Outputs{c.input("input")}, nil
			}
			return crz.Outputs{c.host.Block()}, nil
		},
		fallback: func(c *call) crz.Outputs { return crz.Outputs{c.host.Block()} },
	}), nil
}
