package builtin

import (
	"context"
	"fmt"

	"github.com/crznodes/crz"
	"github.com/crznodes/crz/coerce"
	"github.com/crznodes/crz/yaml"
)

// dashboardSliders is the number of sliders on a dashboard.
const dashboardSliders = 5

// publishAll registers every output slot under the producing node.
func publishAll(ctx context.Context, c *call, out crz.Outputs) {
	if c.host == nil || c.host.Values == nil {
		return
	}
	for i, v := range out {
		c.host.Values.Register(crz.ValueKey{Producer: c.node, Slot: i}, v)
	}
	c.host.Log().Debug(ctx, "dashboard values published", "node", c.node, "slots", len(out))
}

// DashboardBuilder builds five-slider dashboards.
type DashboardBuilder struct{}

var dashboard = &crz.Descriptor{
	Name:        "CRZDashboard",
	DisplayName: "CRZ Dashboard",
	Category:    Category,
	Description: "Five sliders whose values are published for dashboard getters",
	Inputs:      dashboardInputs(),
	Outputs:     dashboardOutputs(),
	OutputNode:  true,
}

func sliderName(i int) string {
	return fmt.Sprintf("slider_%d", i)
}

func dashboardInputs() []crz.InputSpec {
	inputs := make([]crz.InputSpec, dashboardSliders)
	for i := range inputs {
		inputs[i] = crz.InputSpec{
			Name:    sliderName(i),
			Type:    crz.Float,
			Default: 0.0,
			Min:     crz.Bound(0),
			Max:     crz.Bound(sliderMax),
			Step:    sliderStep,
		}
	}
	return inputs
}

func dashboardOutputs() []crz.OutputSpec {
	outputs := make([]crz.OutputSpec, dashboardSliders)
	for i := range outputs {
		outputs[i] = crz.OutputSpec{Name: sliderName(i), Type: crz.Float}
	}
	return outputs
}

// Metadata returns the node metadata.
func (b *DashboardBuilder) Metadata() NodeMetadata {
	return metadata(dashboard,
		Example{Name: "First slider", Description: "Forwards slider_0", Inputs: map[string]any{"slider_0": 12.5, "slider_3": 4}, Output: 12.5},
	)
}

// Build creates a dashboard node from a definition.
func (b *DashboardBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, dashboard, behavior{
		run: func(ctx context.Context, c *call) (crz.Outputs, error) {
			out := make(crz.Outputs, dashboardSliders)
			for i := range out {
				f, err := coerce.ToFloat(c.input(sliderName(i)))
				if err != nil {
					return nil, fmt.Errorf("%s: %w", sliderName(i), err)
				}
				out[i] = f
			}
			return out, nil
		},
		fallback: func(*call) crz.Outputs {
			out := make(crz.Outputs, dashboardSliders)
			for i := range out {
				out[i] = 0.0
			}
			return out
		},
		publish: publishAll,
	}), nil
}

// DashboardNodeBuilder builds single-value dashboard nodes.
type DashboardNodeBuilder struct{}

var dashboardNode = &crz.Descriptor{
	Name:        "CRZDashboardNode",
	DisplayName: "CRZ Dashboard Node",
	Category:    Category,
	Description: "One published dashboard value; whole numbers become integers",
	Inputs: []crz.InputSpec{
		{Name: "slider", Type: crz.Float, Section: crz.Hidden, Default: 0.0},
	},
	Outputs:    []crz.OutputSpec{{Name: "value", Type: crz.Any}},
	OutputNode: true,
}

// Metadata returns the node metadata.
func (b *DashboardNodeBuilder) Metadata() NodeMetadata {
	return metadata(dashboardNode,
		Example{Name: "Whole", Inputs: map[string]any{"slider": 3.0}, Output: 3},
		Example{Name: "Fraction", Inputs: map[string]any{"slider": 0.25}, Output: 0.25},
	)
}

// Build creates a dashboard node from a definition.
func (b *DashboardNodeBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, dashboardNode, behavior{
		run: func(ctx context.Context, c *call) (crz.Outputs, error) {
			return crz.Outputs{coerce.Smart(c.input("slider"))}, nil
		},
		fallback: func(*call) crz.Outputs { return crz.Outputs{0} },
		publish:  publishAll,
	}), nil
}

// DashboardGetBuilder builds nodes that read a published dashboard value.
type DashboardGetBuilder struct{}

var dashboardGet = &crz.Descriptor{
	Name:        "CRZDashboardGet",
	DisplayName: "CRZ Dashboard Get",
	Category:    Category,
	Description: "Reads the value a dashboard published, or default when none was",
	Inputs: []crz.InputSpec{
		{Name: "node_id", Type: crz.String},
		{Name: "slot", Type: crz.Int, Default: 0, Min: crz.Bound(0), Max: crz.Bound(dashboardSliders - 1)},
		{Name: "default", Type: crz.Any, Section: crz.Optional},
	},
	Outputs: []crz.OutputSpec{{Name: "value", Type: crz.Any}},
}

// Metadata returns the node metadata.
func (b *DashboardGetBuilder) Metadata() NodeMetadata {
	return metadata(dashboardGet,
		Example{Name: "Nothing published", Inputs: map[string]any{"node_id": "dash", "slot": 2, "default": 1.5}, Output: 1.5},
	)
}

// Build creates a dashboard getter from a definition.
func (b *DashboardGetBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, dashboardGet, behavior{
		run: func(ctx context.Context, c *call) (crz.Outputs, error) {
			producer, err := stringInput(c, "node_id")
			if err != nil {
				return nil, err
			}
			slot, err := coerce.ToInt(c.input("slot"))
			if err != nil {
				return nil, err
			}
			if c.host != nil && c.host.Values != nil {
				if v, ok := c.host.Values.Lookup(crz.ValueKey{Producer: producer, Slot: slot}); ok {
					return crz.Outputs{v}, nil
				}
			}
			return crz.Outputs{c.input("default")}, nil
		},
		fallback: func(c *call) crz.Outputs { return crz.Outputs{c.input("default")} },
	}), nil
}
