package crz_test

import (
	"testing"

	"github.com/crznodes/crz"
)

func TestDataTypeAccepts(t *testing.T) {
	tests := []struct {
		socket crz.DataType
		value  crz.DataType
		want   bool
	}{
		{crz.Int, crz.Int, true},
		{crz.Int, crz.Float, false},
		{crz.Any, crz.Image, true},
		{crz.Boolean, crz.Any, true},
		{crz.String, crz.Image, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.socket)+"<-"+string(tt.value), func(t *testing.T) {
			if got := tt.socket.Accepts(tt.value); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}

	if !crz.Any.IsWildcard() || crz.Int.IsWildcard() {
		t.Error("Expected only Any to be the wildcard")
	}
}

func TestSectionString(t *testing.T) {
	tests := map[crz.Section]string{
		crz.Required:    "required",
		crz.Optional:    "optional",
		crz.Hidden:      "hidden",
		crz.Section(42): "section(42)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}

func TestDescriptorLookups(t *testing.T) {
	desc := &crz.Descriptor{
		Inputs: []crz.InputSpec{
			{Name: "false_input", Type: crz.Any, Lazy: true},
			{Name: "value", Type: crz.Boolean, Default: false},
			{Name: "extra", Type: crz.Any, Section: crz.Optional},
			{Name: "hidden", Type: crz.String, Section: crz.Hidden},
		},
		Outputs: []crz.OutputSpec{
			{Name: "true", Type: crz.Any},
			{Name: "false", Type: crz.Any},
		},
	}

	primary, ok := desc.PrimaryInput()
	if !ok || primary.Name != "value" {
		t.Errorf("Expected lazy inputs to be skipped for the primary input, got %q", primary.Name)
	}
	if in, ok := desc.Input("extra"); !ok || in.Section != crz.Optional {
		t.Errorf("Expected optional input, got %+v", in)
	}
	if _, ok := desc.Input("nope"); ok {
		t.Error("Expected unknown input to be absent")
	}
	if !primary.HasDefault() {
		t.Error("Expected a default on value")
	}

	if got := desc.OutputIndex("false"); got != 1 {
		t.Errorf("Expected slot 1, got %d", got)
	}
	if got := desc.OutputIndex("default"); got != -1 {
		t.Errorf("Expected -1, got %d", got)
	}
	if got := desc.OutputTypes(); len(got) != 2 || got[0] != crz.Any {
		t.Errorf("Expected two output types, got %v", got)
	}

	none := &crz.Descriptor{Inputs: []crz.InputSpec{{Name: "w", Section: crz.Hidden}}}
	if _, ok := none.PrimaryInput(); ok {
		t.Error("Expected no primary input without required inputs")
	}
}

func TestInputsAndOutputs(t *testing.T) {
	in := crz.Inputs{"a": nil}
	if !in.Has("a") || in.Has("b") {
		t.Error("Expected Has to report bound names, including nil values")
	}

	out := crz.Outputs{1, 2}
	if out.At(1) != 2 || out.At(2) != nil || out.At(-1) != nil {
		t.Error("Expected At to return nil out of range")
	}

	if b := crz.Bound(3); *b != 3 {
		t.Errorf("Expected 3, got %v", *b)
	}
}
