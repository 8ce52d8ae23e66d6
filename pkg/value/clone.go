package value

import (
	"encoding/json"
	"fmt"
)

// Clone produces an independent deep copy of v. Values already in the JSON
// shape are cloned structurally; numeric primitives normalize to float64;
// anything else goes through an encoding/json round trip, so unsupported
// content (functions, channels, cycles) surfaces as an error instead of a
// shared reference.
func Clone(v any) (any, error) {
	switch typed := v.(type) {
	case nil, bool, string, float64:
		return typed, nil
	case int:
		return float64(typed), nil
	case int8:
		return float64(typed), nil
	case int16:
		return float64(typed), nil
	case int32:
		return float64(typed), nil
	case int64:
		return float64(typed), nil
	case uint:
		return float64(typed), nil
	case uint8:
		return float64(typed), nil
	case uint16:
		return float64(typed), nil
	case uint32:
		return float64(typed), nil
	case uint64:
		return float64(typed), nil
	case float32:
		return float64(typed), nil
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			cloned, err := Clone(item)
			if err != nil {
				return nil, err
			}
			out[i] = cloned
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			cloned, err := Clone(item)
			if err != nil {
				return nil, err
			}
			out[key] = cloned
		}
		return out, nil
	default:
		return roundTrip(typed)
	}
}

// CloneRecords clones v into the widget's owned record sequence. Non-sequence
// input and unclonable content both normalize to an empty, non-nil slice:
// callers treat clone failure as "no data" rather than an exception.
func CloneRecords(v any) []any {
	switch typed := v.(type) {
	case nil:
		return []any{}
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			cloned, err := Clone(item)
			if err != nil {
				return []any{}
			}
			out[i] = cloned
		}
		return out
	default:
		data, err := json.Marshal(typed)
		if err != nil {
			return []any{}
		}
		var out []any
		if err := json.Unmarshal(data, &out); err != nil {
			return []any{}
		}
		if out == nil {
			out = []any{}
		}
		return out
	}
}

func roundTrip(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("value: clone %T: %w", v, err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("value: clone %T: %w", v, err)
	}
	return out, nil
}
