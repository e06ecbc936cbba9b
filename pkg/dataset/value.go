package dataset

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Value is a single cell. A nil Value is a missing observation.
//
// Only float64, string, bool and time.Time are stored; integer inputs are
// widened to float64 by [NewColumn] and [Normalize].
type Value = any

// Kind is the element type of a column.
type Kind int

const (
	KindAny Kind = iota
	KindFloat
	KindString
	KindBool
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return "any"
	}
}

// KindOf reports the kind of a normalized value. Missing values are KindAny.
func KindOf(v Value) Kind {
	switch v.(type) {
	case float64:
		return KindFloat
	case string:
		return KindString
	case bool:
		return KindBool
	case time.Time:
		return KindTime
	default:
		return KindAny
	}
}

// Normalize widens numeric Go types to float64 and converts durations to
// seconds. Values of unsupported types are returned unchanged.
func Normalize(v Value) Value {
	switch x := v.(type) {
	case nil, float64, string, bool, time.Time:
		return v
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case time.Duration:
		return x.Seconds()
	default:
		return v
	}
}

// Compare orders two values. Missing values sort first, then values are
// ordered by kind and, within a kind, by their natural order. NaN sorts
// before every other float.
func Compare(a, b Value) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return cmp.Compare(ka, kb)
	}
	switch x := a.(type) {
	case float64:
		return cmp.Compare(x, b.(float64))
	case string:
		return strings.Compare(x, b.(string))
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case time.Time:
		return x.Compare(b.(time.Time))
	default:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

// Equal reports whether two values compare equal.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

// Truthy interprets a value as a boolean flag.
// Numbers are true when non-zero; strings are true for "true", "t", "yes",
// "y", "1" and "home" (case-insensitive). Missing values are false.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "t", "yes", "y", "1", "home":
			return true
		}
		return false
	case time.Time:
		return !x.IsZero()
	default:
		return false
	}
}

// Float converts a value to float64. Times convert to Unix seconds.
func Float(v Value) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case time.Time:
		return float64(x.UnixNano()) / 1e9, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Format renders a value for labels, legends and lookup keys.
// Whole floats print without a fractional part.
func Format(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatFloat(x, 'f', 0, 64)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

// groupKey maps a value onto a comparable key so that values that compare
// equal land in the same group (time.Time values in different locations
// included).
type groupKey struct {
	kind Kind
	f    float64
	s    string
	b    bool
	t    int64
	nan  bool
}

func keyOf(v Value) groupKey {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) {
			return groupKey{kind: KindFloat, nan: true}
		}
		return groupKey{kind: KindFloat, f: x}
	case string:
		return groupKey{kind: KindString, s: x}
	case bool:
		return groupKey{kind: KindBool, b: x}
	case time.Time:
		return groupKey{kind: KindTime, t: x.UnixNano()}
	case nil:
		return groupKey{kind: KindAny}
	default:
		return groupKey{kind: KindAny, s: fmt.Sprint(v)}
	}
}
