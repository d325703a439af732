package builtin

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/crznodes/crz"
	"github.com/crznodes/crz/yaml"
)

func TestRegisterAllRunsExampleGraph(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  string
		skip  string
	}{
		{"above threshold", "0.75", "above", "false"},
		{"below threshold", "0.25", "below", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := yaml.NewLoader()
			RegisterAll(loader)

			src := strings.Replace(yaml.Example(), "value: 0.75", "value: "+tt.level, 1)
			store := crz.NewStore()
			graph, err := loader.LoadString(src, store, crz.NewHost())
			if err != nil {
				t.Fatalf("Failed to load graph: %v", err)
			}

			out, err := graph.Run(context.Background(), nil)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if out != tt.want {
				t.Errorf("Expected %q, got %v", tt.want, out)
			}
			if !crz.IsBlocked(stored(t, store, "gate", tt.skip)) {
				t.Errorf("Expected gate.%s to be blocked", tt.skip)
			}
		})
	}
}

func TestRegisterAllRejectsBadLiterals(t *testing.T) {
	tests := []struct {
		name string
		node string
	}{
		{"above slider max", "type: CRZFloatSlider\n    inputs: {value: 2000000}"},
		{"fraction for integer", "type: CRZIntegerSlider\n    inputs: {value: 1.5}"},
		{"text for boolean", "type: CRZBooleanToggle\n    inputs: {value: \"yes\"}"},
		{"unknown input", "type: CRZPassthrough\n    inputs: {input: 1, extra: 2}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := yaml.NewLoader()
			RegisterAll(loader)

			src := "name: g\nstart: n\nnodes:\n  - name: n\n    " + tt.node + "\n"
			if _, err := loader.LoadString(src, nil, nil); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestRegisterAllRejectsTypeMismatch(t *testing.T) {
	loader := yaml.NewLoader()
	RegisterAll(loader)

	src := `name: g
start: text
nodes:
  - name: text
    type: CRZStringNode
  - name: toggle
    type: CRZBooleanToggle
connections:
  - from: text
    to: toggle
`
	_, err := loader.LoadString(src, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "type mismatch") {
		t.Errorf("Expected type mismatch, got %v", err)
	}
}

func TestValidateAllNodeInputs(t *testing.T) {
	registry := NewPackRegistry()

	err := ValidateAllNodeInputs(registry, map[string]map[string]any{
		"CRZFloatSlider": {"value": "@other.0"},
		"CRZCompare":     {"a": "x", "b": 2, "operator": "anything"},
	})
	if err != nil {
		t.Errorf("Expected links and hidden values to pass, got %v", err)
	}

	err = ValidateAllNodeInputs(registry, map[string]map[string]any{"CRZNope": {}})
	if !errors.Is(err, yaml.ErrUnknownNodeType) {
		t.Errorf("Expected ErrUnknownNodeType, got %v", err)
	}
}

func TestInputSchema(t *testing.T) {
	schema := InputSchema(integerSlider)
	props := schema["properties"].(map[string]any)
	value := props["value"].(map[string]any)

	if value["type"] != "integer" {
		t.Errorf("Expected integer type, got %v", value["type"])
	}
	if value["maximum"] != intSliderMax {
		t.Errorf("Expected maximum %v, got %v", intSliderMax, value["maximum"])
	}
	if schema["additionalProperties"] != false {
		t.Error("Expected unknown inputs to be rejected")
	}
}
