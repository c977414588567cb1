package grid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NullDisplay is the rendered form of a null cell.
const NullDisplay = "NULL"

type nullValue struct{}

func (nullValue) String() string { return NullDisplay }

// NullValue is the filter key standing in for a null cell. Null is a
// first-class, selectable filter value, distinct from "no filter
// applied", so it needs a hashable stand-in of its own.
var NullValue = nullValue{}

// filterKey normalizes a cell value into something usable as a map
// key: nil becomes NullValue, byte slices become strings, and anything
// unhashable falls back to its printed form.
func filterKey(v any) any {
	switch val := v.(type) {
	case nil:
		return NullValue
	case nullValue:
		return val
	case []byte:
		return string(val)
	case string, bool, int, int32, int64, uint64, float32, float64, time.Time:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FormatValue renders a cell value for display.
func FormatValue(value any) string {
	if value == nil {
		return NullDisplay
	}
	switch v := value.(type) {
	case nullValue:
		return NullDisplay
	case []byte:
		return string(v)
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case time.Time:
		// Date-only values render without the zero time component.
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// compareValues orders two cell values using per-type natural
// ordering. Nil sorts after everything else regardless of direction
// (handled by the caller); mixed or unknown types compare by their
// printed form so a malformed cell cannot panic the sort.
func compareValues(a, b any) int {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case []byte:
		if bv, ok := b.([]byte); ok {
			return strings.Compare(string(av), string(bv))
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case bv:
				return -1
			}
			return 1
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			switch {
			case av.Before(bv):
				return -1
			case av.After(bv):
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
