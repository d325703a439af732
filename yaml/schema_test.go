package yaml

import (
	"strings"
	"testing"
)

func TestParseLink(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   Link
		wantOK bool
	}{
		{"index slot", "@dash.2", Link{Node: "dash", Slot: "2"}, true},
		{"named slot", "@gate.true", Link{Node: "gate", Slot: "true"}, true},
		{"no slot", "@level", Link{Node: "level", Slot: "0"}, true},
		{"dotted node name", "@a.b.c", Link{Node: "a.b", Slot: "c"}, true},
		{"trailing dot", "@level.", Link{Node: "level.", Slot: "0"}, true},
		{"escaped", "@@level", Link{}, false},
		{"bare at", "@", Link{}, false},
		{"plain string", "level", Link{}, false},
		{"not a string", 42, Link{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLink(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseLink(%v) = %+v, %v; want %+v, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestUnescape(t *testing.T) {
	if got := Unescape("@@mention"); got != "@mention" {
		t.Errorf("Unescape(@@mention) = %v", got)
	}
	if got := Unescape("plain"); got != "plain" {
		t.Errorf("Unescape(plain) = %v", got)
	}
	if got := Unescape(3); got != 3 {
		t.Errorf("Unescape(3) = %v", got)
	}
}

func TestGraphDefinitionValidate(t *testing.T) {
	valid := func() *GraphDefinition {
		return &GraphDefinition{
			Name:  "g",
			Start: "a",
			Nodes: []NodeDefinition{
				{Name: "a", Type: "CRZFloatSlider"},
				{Name: "b", Type: "CRZPassthrough", Inputs: map[string]any{"input": "@a.0"}},
			},
			Connections: []Connection{{From: "a", To: "b"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*GraphDefinition)
		wantErr string
	}{
		{"valid", func(*GraphDefinition) {}, ""},
		{"missing name", func(g *GraphDefinition) { g.Name = "" }, "graph name is required"},
		{"missing start", func(g *GraphDefinition) { g.Start = "" }, "start node is required"},
		{"no nodes", func(g *GraphDefinition) { g.Nodes = nil }, "at least one node"},
		{"unknown start", func(g *GraphDefinition) { g.Start = "zzz" }, "start node zzz not found"},
		{"missing type", func(g *GraphDefinition) { g.Nodes[1].Type = "" }, "node type is required"},
		{"duplicate", func(g *GraphDefinition) { g.Nodes[1].Name = "a" }, "duplicate node name"},
		{"bad connection", func(g *GraphDefinition) { g.Connections[0].To = "nope" }, "connection to node nope"},
		{"bad link", func(g *GraphDefinition) { g.Nodes[1].Inputs["input"] = "@ghost.0" }, "unknown node ghost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := valid()
			tt.mutate(g)
			err := g.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseExample(t *testing.T) {
	def, err := NewParser().Strict().ParseString(Example())
	if err != nil {
		t.Fatalf("parse example: %v", err)
	}
	if err := def.Validate(); err != nil {
		t.Fatalf("example does not validate: %v", err)
	}
	if def.Start != "level" || len(def.Nodes) != 5 || len(def.Connections) != 4 {
		t.Errorf("unexpected example shape: start=%s nodes=%d connections=%d", def.Start, len(def.Nodes), len(def.Connections))
	}
	if def.Nodes[2].Inputs["bool"] != "@check.0" {
		t.Errorf("gate.bool = %v, want @check.0", def.Nodes[2].Inputs["bool"])
	}
}

func TestParseStrictRejectsUnknownFields(t *testing.T) {
	_, err := NewParser().Strict().ParseString("name: g\nstart: a\nbogus: 1\nnodes:\n  - name: a\n    type: X\n")
	if err == nil {
		t.Fatal("expected strict parse to fail on unknown field")
	}
}
