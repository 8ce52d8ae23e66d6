// Package value implements the dynamic record model the widget operates on:
// JSON-shaped values (map[string]any, []any, string, float64, bool, nil),
// dotted-path resolution and writing, and the deep-clone boundary that keeps
// caller-owned and widget-owned data from aliasing each other.
package value

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind classifies a dynamic value.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindObject
	// KindOther covers values outside the JSON shape. They only appear at the
	// clone boundary, which normalizes them before the engine sees them.
	KindOther
)

// KindOf reports the Kind of v. The clone boundary normalizes numbers to
// float64, but values that have not crossed it yet (caller input, msgpack
// decode) may carry any numeric kind; all of them classify as KindNumber.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNil
	case bool:
		return KindBool
	case string:
		return KindString
	case []any:
		return KindList
	case map[string]any:
		return KindObject
	}
	if _, ok := numberOf(v); ok {
		return KindNumber
	}
	return KindOther
}

// numberOf reports v as a float64 across Go's numeric kinds.
func numberOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// IsObject reports whether v is an object record.
func IsObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// IsList reports whether v is a list.
func IsList(v any) bool {
	_, ok := v.([]any)
	return ok
}

// IsContainer reports whether v is an object or a list. Containers carry
// identity; primitives do not.
func IsContainer(v any) bool {
	return IsObject(v) || IsList(v)
}

// Stringify renders v the way bound text nodes and control values display it:
// nil and missing values render empty, lists join their elements with ", ",
// objects render as compact JSON. The result is always treated as text by the
// binder, never as markup.
func Stringify(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		if typed {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(typed)
	case []any:
		parts := make([]string, len(typed))
		for i, item := range typed {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		data, err := json.Marshal(typed)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		data, err := json.Marshal(typed)
		if err != nil {
			return ""
		}
		return strings.Trim(string(data), `"`)
	}
}

// Truthy reports whether v is truthy under the binding rules used for
// checkbox state: nil, false, zero, NaN, and the empty string are falsy;
// everything else, containers included, is truthy.
func Truthy(v any) bool {
	switch typed := v.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	}
	if n, ok := numberOf(v); ok {
		return n != 0 && !math.IsNaN(n)
	}
	return true
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
