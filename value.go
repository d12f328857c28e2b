package minipb

import (
	"reflect"
)

// asInt64 converts a Go value holding any signed or unsigned integer kind
// to an int64, the common currency used for 't'/'z' scalar fields. ok is
// false for any non-integer kind.
func asInt64(v interface{}) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), true
	default:
		return 0, false
	}
}

// asUint64 is the unsigned analogue of asInt64, used for 'T'/'V' fields.
func asUint64(v interface{}) (uint64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	default:
		return 0, false
	}
}

// asFloat64 converts an integer or floating-point Go value to float64.
// Per the spec's strict-typing rule, an integer value widens to float
// (explicitly, per design note 9.2), but not the reverse.
func asFloat64(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	default:
		return 0, false
	}
}

func asBool(v interface{}) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asBytes(v interface{}) ([]byte, bool) {
	switch x := v.(type) {
	case []byte:
		return x, true
	case string:
		return []byte(x), true
	default:
		return nil, false
	}
}

func asString(v interface{}) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	default:
		return "", false
	}
}

// isMissing reports whether a resolved field value should be treated as
// absent for the purposes of spec §4.7's missing-value policy: a Go nil,
// the NoValue sentinel, or (for positional payloads past the slice end)
// simply never having been resolved at all.
func isMissing(v interface{}, resolved bool) bool {
	if !resolved || v == nil {
		return true
	}
	if _, ok := v.(noValue); ok {
		return true
	}
	return false
}

// iterateSequence returns the elements of v as a []interface{}, accepting
// any slice or array kind (concretely typed, e.g. []int64, []string, or a
// loosely typed []interface{}).
func iterateSequence(v interface{}) ([]interface{}, bool) {
	if v == nil {
		return nil, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		out := make([]interface{}, n)
		for i := 0; i < n; i++ {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	default:
		return nil, false
	}
}
