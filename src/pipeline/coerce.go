package pipeline

import (
	"encoding/json"
	"fmt"
	"math"
)

// toFloat64 converts JSON-decoded numbers to float64. Anything else, including
// NaN/Inf and numeric-looking strings, is reported as not numeric.
func toFloat64(v any) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func floatPtr(m map[string]any, keys []string) *float64 {
	v, ok := lookup(m, keys)
	if !ok {
		return nil
	}
	f, ok := toFloat64(v)
	if !ok {
		return nil
	}
	return &f
}

// intValue accepts only integral numbers.
func intValue(v any) (int, bool) {
	f, ok := toFloat64(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func intPtr(m map[string]any, keys []string) *int {
	v, ok := lookup(m, keys)
	if !ok {
		return nil
	}
	i, ok := intValue(v)
	if !ok {
		return nil
	}
	return &i
}

func stringPtr(m map[string]any, keys []string) *string {
	v, ok := lookup(m, keys)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// errorText renders an error field for display; non-string payloads are printed as-is.
func errorText(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
