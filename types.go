package crz

import "fmt"

// DataType names the kind of value carried by a node socket.
type DataType string

// Socket types understood by the host.
const (
	Boolean DataType = "BOOLEAN"
	Int     DataType = "INT"
	Float   DataType = "FLOAT"
	String  DataType = "STRING"
	Image   DataType = "IMAGE"

	// Any is the wildcard type. It accepts and is accepted by every type.
	Any DataType = "*"
)

// Accepts reports whether a value of type other may be connected to a
// socket of type t.
func (t DataType) Accepts(other DataType) bool {
	return t == Any || other == Any || t == other
}

// IsWildcard reports whether t is the wildcard type.
func (t DataType) IsWildcard() bool {
	return t == Any
}

// Section groups inputs the way the host presents them.
type Section int

const (
	// Required inputs must be bound or have a default.
	Required Section = iota
	// Optional inputs may stay unbound.
	Optional
	// Hidden inputs are set by widgets and never shown as sockets.
	Hidden
)

func (s Section) String() string {
	switch s {
	case Required:
		return "required"
	case Optional:
		return "optional"
	case Hidden:
		return "hidden"
	default:
		return fmt.Sprintf("section(%d)", int(s))
	}
}

// InputSpec declares one node input.
type InputSpec struct {
	Name    string
	Type    DataType
	Section Section
	Default any

	// Min and Max bound numeric inputs when set.
	Min  *float64
	Max  *float64
	Step float64

	// Lazy inputs are only evaluated when the node asks for them.
	Lazy bool

	// Choices restricts a string input to a fixed list; an empty list with
	// FreeChoice set accepts any value.
	Choices    []string
	FreeChoice bool

	Multiline  bool
	ForceInput bool
}

// HasDefault reports whether the input declares a default value.
func (s InputSpec) HasDefault() bool {
	return s.Default != nil
}

// OutputSpec declares one node output slot.
type OutputSpec struct {
	Name string
	Type DataType
}

// Descriptor describes a node type to the host. It is created once when the
// pack is registered and never mutated afterwards.
type Descriptor struct {
	// Name is the internal identifier used for registration.
	Name string
	// DisplayName is the label shown to users.
	DisplayName string
	Category    string
	Description string
	Inputs      []InputSpec
	Outputs     []OutputSpec
	// OutputNode marks nodes the host always evaluates.
	OutputNode bool
}

// Input returns the spec for a named input.
func (d *Descriptor) Input(name string) (InputSpec, bool) {
	for _, in := range d.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return InputSpec{}, false
}

// PrimaryInput returns the first required, non-lazy input. It receives the
// value flowing in from the previous node when not bound explicitly.
func (d *Descriptor) PrimaryInput() (InputSpec, bool) {
	for _, in := range d.Inputs {
		if in.Section == Required && !in.Lazy {
			return in, true
		}
	}
	return InputSpec{}, false
}

// OutputIndex returns the slot index for an output name, or -1.
func (d *Descriptor) OutputIndex(name string) int {
	for i, out := range d.Outputs {
		if out.Name == name {
			return i
		}
	}
	return -1
}

// OutputTypes returns the declared output types in slot order.
func (d *Descriptor) OutputTypes() []DataType {
	types := make([]DataType, len(d.Outputs))
	for i, out := range d.Outputs {
		types[i] = out.Type
	}
	return types
}

// Inputs holds bound input values by name.
type Inputs map[string]any

// Has reports whether an input is bound.
func (in Inputs) Has(name string) bool {
	_, ok := in[name]
	return ok
}

// Outputs holds node results in slot order.
type Outputs []any

// At returns the value in slot i, or nil when out of range.
func (o Outputs) At(i int) any {
	if i < 0 || i >= len(o) {
		return nil
	}
	return o[i]
}

// Bound returns a pointer to v, for InputSpec Min/Max literals.
func Bound(v float64) *float64 {
	return &v
}
