package coerce

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Operator selects how Compare relates its operands.
type Operator string

// Supported operators.
const (
	Equal        Operator = "="
	Greater      Operator = ">"
	Less         Operator = "<"
	GreaterEqual Operator = ">="
	LessEqual    Operator = "<="
)

// Operators lists every supported operator in display order.
var Operators = []Operator{Equal, Greater, Less, GreaterEqual, LessEqual}

// ParseOperator maps s to an operator. Anything unrecognised is Equal.
func ParseOperator(s string) Operator {
	switch op := Operator(strings.TrimSpace(s)); op {
	case Greater, Less, GreaterEqual, LessEqual:
		return op
	default:
		return Equal
	}
}

// Compare relates a and b with op.
//
// Ordering operators compare numerically when both operands convert to
// float, and otherwise fall back to comparing their string renderings
// lexicographically; a failed conversion never surfaces. Equal uses native
// equality. A panic anywhere yields false.
func Compare(a, b any, op Operator) (result bool) {
	defer func() {
		if r := recover(); r != nil {
			result = false
		}
	}()

	switch op {
	case Greater, Less, GreaterEqual, LessEqual:
		x, errA := ToFloat(a)
		y, errB := ToFloat(b)
		if errA == nil && errB == nil {
			return orderFloat(x, y, op)
		}
		return orderString(Repr(a), Repr(b), op)
	default:
		return Equals(a, b)
	}
}

func orderFloat(x, y float64, op Operator) bool {
	switch op {
	case Greater:
		return x > y
	case Less:
		return x < y
	case GreaterEqual:
		return x >= y
	default:
		return x <= y
	}
}

func orderString(x, y string, op Operator) bool {
	switch op {
	case Greater:
		return x > y
	case Less:
		return x < y
	case GreaterEqual:
		return x >= y
	default:
		return x <= y
	}
}

// Equals reports native equality: numbers (including booleans) compare by
// value across kinds, everything else must match in type and content.
func Equals(a, b any) bool {
	if IsNumber(a) && IsNumber(b) {
		x, _ := ToFloat(a)
		y, _ := ToFloat(b)
		return x == y
	}
	return reflect.DeepEqual(a, b)
}

// Repr renders v the way the host prints scalar values: True/False for
// booleans, None for nil, and floats in shortest round-trip form with a
// trailing ".0" when whole.
func Repr(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return formatFloat(x, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

// formatFloat mirrors repr(float): fixed notation for decimal exponents in
// [-4, 16), scientific otherwise.
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	sci := strconv.FormatFloat(f, 'e', -1, bitSize)
	mantissa, expPart, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expPart)

	if exp < -4 || exp >= 16 {
		return fmt.Sprintf("%se%s%02d", mantissa, sign(exp), abs(exp))
	}

	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func sign(n int) string {
	if n < 0 {
		return "-"
	}
	return "+"
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
