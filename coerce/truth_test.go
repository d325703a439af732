package coerce

import "testing"

func TestTruthy(t *testing.T) {
	var nilPtr *int
	tests := []struct {
		in   any
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{0, false},
		{0.0, false},
		{uint64(3), true},
		{-1.5, true},
		{"", false},
		{"False", true},
		{[]any{}, false},
		{[]any{nil}, true},
		{map[string]any{}, false},
		{nilPtr, false},
		{struct{}{}, true},
	}

	for _, tt := range tests {
		if got := Truthy(tt.in); got != tt.want {
			t.Errorf("Truthy(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
