// Package coerce converts loosely typed node values between booleans,
// numbers and strings, and compares them with operator dispatch.
//
// Conversions follow the host's native rules: integers truncate toward
// zero, numeric strings may carry surrounding whitespace, and booleans
// count as 0 and 1.
package coerce

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNotNumeric is returned when a value has no numeric interpretation.
var ErrNotNumeric = errors.New("coerce: value is not numeric")

// ToFloat converts v to a float64.
func ToFloat(v any) (float64, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotNumeric, x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}
}

// ToInt converts v to an int, truncating floats toward zero. Strings must
// hold an integer literal.
func ToInt(v any) (int, error) {
	switch x := v.(type) {
	case float32:
		return truncate(float64(x))
	case float64:
		return truncate(x)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotNumeric, x)
		}
		return int(n), nil
	default:
		f, err := ToFloat(v)
		if err != nil {
			return 0, err
		}
		return truncate(f)
	}
}

func truncate(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: cannot convert %v to integer", ErrNotNumeric, f)
	}
	t := math.Trunc(f)
	if t >= math.MaxInt64 || t < math.MinInt64 {
		return 0, fmt.Errorf("%w: %v out of integer range", ErrNotNumeric, f)
	}
	return int(t), nil
}

// IsNumber reports whether v is a bool, integer or float.
func IsNumber(v any) bool {
	switch v.(type) {
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}

// Smart turns whole-valued floats into ints and passes every other value
// through unchanged. NaN, infinities and floats beyond the int range are
// left as floats.
func Smart(v any) any {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	default:
		return v
	}
	if f != math.Trunc(f) {
		return v
	}
	n, err := truncate(f)
	if err != nil {
		return v
	}
	return n
}
