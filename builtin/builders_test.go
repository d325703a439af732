package builtin

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/crznodes/crz"
	"github.com/crznodes/crz/yaml"
)

func build(t *testing.T, builder NodeBuilder, name string, inputs map[string]any) crz.Node {
	t.Helper()
	node, err := builder.Build(&yaml.NodeDefinition{Name: name, Type: builder.Metadata().Type, Inputs: inputs})
	if err != nil {
		t.Fatalf("Failed to build %s: %v", name, err)
	}
	return node
}

func runNode(t *testing.T, node crz.Node, host *crz.Host, flow any) (any, crz.Store) {
	t.Helper()
	store := crz.NewStore()
	out, err := crz.NewGraph(node, store, host).Run(context.Background(), flow)
	if err != nil {
		t.Fatalf("Run %s failed: %v", node.Name(), err)
	}
	return out, store
}

func stored(t *testing.T, store crz.Store, node, slot string) any {
	t.Helper()
	v, ok := store.Get(context.Background(), crz.OutputKey(node, slot))
	if !ok {
		t.Fatalf("Expected output %s.%s to be stored", node, slot)
	}
	return v
}

func TestExamples(t *testing.T) {
	for _, builder := range Pack() {
		meta := builder.Metadata()
		for _, ex := range meta.Examples {
			t.Run(meta.Type+"/"+ex.Name, func(t *testing.T) {
				if err := ValidateNodeInputs(&meta, ex.Inputs); err != nil {
					t.Fatalf("Example inputs do not validate: %v", err)
				}
				out, _ := runNode(t, build(t, builder, "n", ex.Inputs), crz.NewHost(), nil)
				if !reflect.DeepEqual(out, ex.Output) {
					t.Errorf("Expected %#v, got %#v", ex.Output, out)
				}
			})
		}
	}
}

func TestRegistry(t *testing.T) {
	registry := NewPackRegistry()

	if got := len(registry.Names()); got != 20 {
		t.Errorf("Expected 20 node types, got %d", got)
	}

	labels := map[string]string{
		"CRZBooleanToggle":  "CRZ Boolean Toggle",
		"CRZStringNode":     "CRZ String",
		"CRZMapDropdown":    "CRZ Map Custom Dropdown",
		"CRZFloatToInt":     "CRZ Float to Int",
		"CRZExecuteSwitch":  "CRZ Execute Switch",
		"CRZImageSelector":  "CRZ Image Selector",
		"CRZDashboardGet":   "CRZ Dashboard Get",
		"CRZCustomDropdown": "CRZ Custom Dropdown",
	}
	for id, want := range labels {
		got, ok := registry.DisplayName(id)
		if !ok || got != want {
			t.Errorf("DisplayName(%s) = %q, %v; want %q", id, got, ok, want)
		}
	}

	for _, name := range registry.Names() {
		builder, _ := registry.Get(name)
		meta := builder.Metadata()
		want := Category
		if name == "CRZFloatToInt" || name == "CRZIntToFloat" {
			want = HiddenCategory
		}
		if meta.Category != want {
			t.Errorf("%s category = %q, want %q", name, meta.Category, want)
		}
		if meta.Descriptor == nil || meta.Descriptor.Name != name {
			t.Errorf("%s descriptor does not match its type", name)
		}
	}

	if _, ok := registry.Get("CRZNope"); ok {
		t.Error("Expected unknown type lookup to fail")
	}
}

func TestOutputNodes(t *testing.T) {
	want := map[string]bool{"CRZDashboard": true, "CRZDashboardNode": true, "CRZCustomDropdown": true}
	for _, builder := range Pack() {
		meta := builder.Metadata()
		if meta.Descriptor.OutputNode != want[meta.Type] {
			t.Errorf("%s OutputNode = %v", meta.Type, meta.Descriptor.OutputNode)
		}
	}
}

func TestCompareNode(t *testing.T) {
	tests := []struct {
		name   string
		inputs map[string]any
		want   bool
	}{
		{"default operands are equal", nil, true},
		{"numeric string greater", map[string]any{"a": " 10 ", "b": 9, "operator": ">"}, true},
		{"bool counts as one", map[string]any{"a": true, "b": 1, "operator": ">="}, true},
		{"text fallback", map[string]any{"a": "apple", "b": "banana", "operator": ">"}, false},
		{"mixed kinds unequal", map[string]any{"a": "1", "b": 1}, false},
		{"unknown operator is equality", map[string]any{"a": 2, "b": 2, "operator": "!="}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, store := runNode(t, build(t, &CompareBuilder{}, "cmp", tt.inputs), crz.NewHost(), nil)
			if out != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, out)
			}
			if stored(t, store, "cmp", "result") != tt.want {
				t.Error("Expected result slot to be stored by name")
			}
		})
	}
}

func TestCompareTakesFlowingValue(t *testing.T) {
	node := build(t, &CompareBuilder{}, "cmp", map[string]any{"b": 0.5, "operator": ">"})
	out, _ := runNode(t, node, crz.NewHost(), 0.75)
	if out != true {
		t.Errorf("Expected flowing 0.75 > 0.5, got %v", out)
	}
}

func TestSwitchEvaluatesOnlySelectedInput(t *testing.T) {
	// The unselected input links to a node that never ran; evaluating it
	// would fail.
	inputs := map[string]any{
		"false_input": "@ghost.0",
		"true_input":  "picked",
		"value":       true,
	}
	out, _ := runNode(t, build(t, &SwitchBuilder{}, "sw", inputs), crz.NewHost(), nil)
	if out != "picked" {
		t.Errorf("Expected picked, got %v", out)
	}

	inputs["value"] = false
	store := crz.NewStore()
	_, err := crz.NewGraph(build(t, &SwitchBuilder{}, "sw", inputs), store, nil).Run(context.Background(), nil)
	if !errors.Is(err, crz.ErrInvalidInput) {
		t.Errorf("Expected the selected dangling link to fail with ErrInvalidInput, got %v", err)
	}
}

func TestSwitchBlockedSelection(t *testing.T) {
	store := crz.NewStore()
	_ = store.Set(context.Background(), crz.OutputKey("gate", "0"), crz.Blocked{})

	node := build(t, &SwitchBuilder{}, "sw", map[string]any{"false_input": "@gate.0", "true_input": 1})
	out, err := crz.NewGraph(node, store, nil).Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !crz.IsBlocked(out) {
		t.Errorf("Expected blocked output, got %v", out)
	}
	if !crz.IsBlocked(stored(t, store, "sw", "output")) {
		t.Error("Expected blocked output slot")
	}
}

func TestExecuteSwitch(t *testing.T) {
	tests := []struct {
		name      string
		cond      any
		host      *crz.Host
		wantNext  string
		wantOther any
	}{
		{"true blocks false slot", true, crz.NewHost(), "true", crz.Blocked{}},
		{"false blocks true slot", false, crz.NewHost(), "false", crz.Blocked{}},
		{"truthy number", 2, crz.NewHost(), "true", crz.Blocked{}},
		{"no blocking support", true, crz.NewHost(crz.WithoutBlocking()), "true", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := build(t, &ExecuteSwitchBuilder{}, "es", map[string]any{"input": "payload", "bool": tt.cond})
			ctx := context.Background()
			store := crz.NewStore()

			prep, err := node.Prep(ctx, tt.host, store, nil)
			if err != nil {
				t.Fatalf("Prep failed: %v", err)
			}
			exec, err := node.Exec(ctx, prep)
			if err != nil {
				t.Fatalf("Exec failed: %v", err)
			}
			out, next, err := node.Post(ctx, tt.host, store, nil, prep, exec)
			if err != nil {
				t.Fatalf("Post failed: %v", err)
			}

			if next != tt.wantNext {
				t.Errorf("Expected next %q, got %q", tt.wantNext, next)
			}
			if out != "payload" {
				t.Errorf("Expected payload forwarded, got %v", out)
			}
			other := "false"
			if tt.wantNext == "false" {
				other = "true"
			}
			if got := stored(t, store, "es", other); got != tt.wantOther {
				t.Errorf("Expected %s slot %v, got %v", other, tt.wantOther, got)
			}
			if got := stored(t, store, "es", tt.wantNext); got != "payload" {
				t.Errorf("Expected %s slot payload, got %v", tt.wantNext, got)
			}
		})
	}
}

func TestExecuteBlockSkipsDownstream(t *testing.T) {
	gate := build(t, &ExecuteBlockBuilder{}, "gate", map[string]any{"input": "x", "bool": false})
	after := build(t, &PassthroughBuilder{}, "after", nil)
	crz.Default(gate, after)

	out, store := runNode(t, gate, crz.NewHost(), nil)
	if !crz.IsBlocked(out) {
		t.Errorf("Expected blocked result, got %v", out)
	}
	if !crz.IsBlocked(stored(t, store, "after", "output")) {
		t.Error("Expected downstream node outputs to be blocked")
	}
}

func TestExecuteBlockSkipsNodesWithoutFlowInput(t *testing.T) {
	gate := build(t, &ExecuteBlockBuilder{}, "gate", map[string]any{"input": 1, "bool": false})
	after := build(t, &StringNodeBuilder{}, "after", map[string]any{"text": "ran"})
	cmp := build(t, &CompareBuilder{}, "cmp", map[string]any{"a": 1, "b": 1})
	crz.Default(gate, after)
	crz.Default(after, cmp)

	out, store := runNode(t, gate, crz.NewHost(), nil)
	if !crz.IsBlocked(out) {
		t.Errorf("Expected blocked result, got %v", out)
	}
	if got := stored(t, store, "after", "0"); !crz.IsBlocked(got) {
		t.Errorf("Expected string node to be skipped, got %v", got)
	}
	if got := stored(t, store, "cmp", "result"); !crz.IsBlocked(got) {
		t.Errorf("Expected compare node to be skipped, got %v", got)
	}
}

func TestExecuteBlockWithoutBlockingSupport(t *testing.T) {
	gate := build(t, &ExecuteBlockBuilder{}, "gate", map[string]any{"input": "x"})
	out, _ := runNode(t, gate, crz.NewHost(crz.WithoutBlocking()), nil)
	if out != nil {
		t.Errorf("Expected empty output, got %v", out)
	}
}

func TestConversionFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		builder NodeBuilder
		inputs  map[string]any
		want    any
	}{
		{"float to int of text", &FloatToIntBuilder{}, map[string]any{"FLT": "abc"}, 0},
		{"float to int of fraction text", &FloatToIntBuilder{}, map[string]any{"FLT": "2.5"}, 0},
		{"float to int of integer text", &FloatToIntBuilder{}, map[string]any{"FLT": "7"}, 7},
		{"float to int of bool", &FloatToIntBuilder{}, map[string]any{"FLT": true}, 1},
		{"int to float of text", &IntToFloatBuilder{}, map[string]any{"INT": "abc"}, 0.0},
		{"int to float of uint", &IntToFloatBuilder{}, map[string]any{"INT": uint64(3)}, 3.0},
		{"float slider from link text", &FloatSliderBuilder{}, map[string]any{"value": "@@x"}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := runNode(t, build(t, tt.builder, "conv", tt.inputs), crz.NewHost(), nil)
			if out != tt.want {
				t.Errorf("Expected %#v, got %#v", tt.want, out)
			}
		})
	}
}

func TestRequiredInputUnbound(t *testing.T) {
	node := build(t, &PassthroughBuilder{}, "p", nil)
	_, err := crz.NewGraph(node, nil, nil).Run(context.Background(), nil)
	if !errors.Is(err, crz.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestPassthroughFlow(t *testing.T) {
	out, _ := runNode(t, build(t, &PassthroughBuilder{}, "p", nil), crz.NewHost(), false)
	if out != false {
		t.Errorf("Expected false to pass through, got %v", out)
	}
}

func TestMapDropdown(t *testing.T) {
	tests := []struct {
		name   string
		inputs map[string]any
		want   any
	}{
		{"bad json maps to first option", map[string]any{"custom_dropdown": "b", "dropdown_options": "{oops", "option_0": 10}, 10},
		{"non-list json", map[string]any{"custom_dropdown": "b", "dropdown_options": `{"b": 1}`, "option_0": 10}, 10},
		{"number selection rendered as text", map[string]any{"custom_dropdown": 2.0, "dropdown_options": `["1.0","2.0"]`, "option_1": "two"}, "two"},
		{"bool selection rendered as text", map[string]any{"custom_dropdown": true, "dropdown_options": `["False","True"]`, "option_1": "yes"}, "yes"},
		{"numbers in options never match text", map[string]any{"custom_dropdown": "1", "dropdown_options": `[0, 1]`, "option_0": "zero", "option_1": "one"}, "zero"},
		{"no options at all", map[string]any{"custom_dropdown": "a"}, nil},
		{"index beyond option inputs", map[string]any{"custom_dropdown": "k", "dropdown_options": `["a","b","c","d","e","f","g","h","i","j","k"]`}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := runNode(t, build(t, &MapDropdownBuilder{}, "map", tt.inputs), crz.NewHost(), nil)
			if out != tt.want {
				t.Errorf("Expected %#v, got %#v", tt.want, out)
			}
		})
	}
}

func TestDashboardPublishesForGetters(t *testing.T) {
	host := crz.NewHost()
	dash := build(t, &DashboardBuilder{}, "dash", map[string]any{"slider_2": 7.5})
	get := build(t, &DashboardGetBuilder{}, "get", map[string]any{"node_id": "dash", "slot": 2, "default": -1})
	crz.Default(dash, get)

	out, store := runNode(t, dash, host, nil)
	if out != 7.5 {
		t.Errorf("Expected getter to read 7.5, got %v", out)
	}

	for i := 0; i < dashboardSliders; i++ {
		v, ok := host.Values.Lookup(crz.ValueKey{Producer: "dash", Slot: i})
		if !ok {
			t.Fatalf("Expected slot %d to be published", i)
		}
		if got := stored(t, store, "dash", sliderName(i)); got != v {
			t.Errorf("Slot %d: published %v but stored %v", i, v, got)
		}
	}
}

func TestDashboardLastWriteWins(t *testing.T) {
	host := crz.NewHost()
	runNode(t, build(t, &DashboardNodeBuilder{}, "dn", map[string]any{"slider": 1.0}), host, nil)
	runNode(t, build(t, &DashboardNodeBuilder{}, "dn", map[string]any{"slider": 2.5}), host, nil)

	v, ok := host.Values.Lookup(crz.ValueKey{Producer: "dn", Slot: 0})
	if !ok || v != 2.5 {
		t.Errorf("Expected latest value 2.5, got %v (%v)", v, ok)
	}
}

func TestDashboardGetWithoutRegistry(t *testing.T) {
	host := &crz.Host{}
	out, _ := runNode(t, build(t, &DashboardGetBuilder{}, "get", map[string]any{"node_id": "x", "default": "d"}), host, nil)
	if out != "d" {
		t.Errorf("Expected default, got %v", out)
	}
}

func TestSmartConversionNodes(t *testing.T) {
	out, _ := runNode(t, build(t, &CustomDropdownBuilder{}, "cd", nil), crz.NewHost(), nil)
	if out != 0 {
		t.Errorf("Expected default dropdown 0 as int, got %#v", out)
	}
	out, _ = runNode(t, build(t, &DashboardNodeBuilder{}, "dn", map[string]any{"slider": "2.0"}), crz.NewHost(), nil)
	if out != "2.0" {
		t.Errorf("Expected text unchanged, got %#v", out)
	}
}

func TestLabelHasNoSockets(t *testing.T) {
	meta := (&LabelBuilder{}).Metadata()
	if len(meta.Descriptor.Inputs) != 0 || len(meta.Descriptor.Outputs) != 0 {
		t.Error("Expected label to have no inputs or outputs")
	}
	out, _ := runNode(t, build(t, &LabelBuilder{}, "l", nil), crz.NewHost(), "ignored")
	if out != nil {
		t.Errorf("Expected nil output, got %v", out)
	}
}
