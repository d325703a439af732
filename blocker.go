package crz

// Blocked marks an output slot whose downstream evaluation is suspended.
// It travels through the graph like any other value; nodes that evaluate
// it are skipped instead of run.
type Blocked struct{}

// String renders the marker for logs.
func (Blocked) String() string {
	return "<blocked>"
}

// IsBlocked reports whether v is a suspend-branch marker.
func IsBlocked(v any) bool {
	switch v.(type) {
	case Blocked, *Blocked:
		return true
	default:
		return false
	}
}

// BlockedOutputs returns n blocked slots.
func BlockedOutputs(n int) Outputs {
	out := make(Outputs, n)
	for i := range out {
		out[i] = Blocked{}
	}
	return out
}
