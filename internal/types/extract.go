package types

import (
	"fmt"
	"strconv"
)

// =============================================================================
// PAYLOAD FIELD EXTRACTION UTILITIES
// =============================================================================
//
// Operation payloads come from JSON decoding into map[string]any, so field
// values can be string, float64 (all JSON numbers), bool, nil, or nested
// maps/slices. These helpers replace bare type assertions that panic on
// mismatch. Entity maps returned by the REST API share the same shape.

// ExtractString extracts a string representation from a payload value.
// This is the safe replacement for v.(string).
func ExtractString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		// JSON numbers decode as float64; render integral values without
		// a trailing ".0" so IDs survive the round trip.
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", x)
	}
}

// ExtractInt64 extracts an int64 from a payload value.
// Returns (value, true) on success, (0, false) if the type is incompatible.
func ExtractInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		return int64(x), true
	case int64:
		return x, true
	case int:
		return int64(x), true
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// ExtractFloat64 extracts a float64 from a payload value.
// Returns (value, true) on success, (0, false) if the type is incompatible.
func ExtractFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// FieldString is a convenience wrapper that extracts a string field from an
// entity or payload map. Returns "" if the key is absent.
func FieldString(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	return ExtractString(v)
}

// FieldInt64 is a convenience wrapper that extracts an int64 field from an
// entity or payload map. Returns (0, false) if the key is absent.
func FieldInt64(m map[string]any, key string) (int64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	return ExtractInt64(v)
}

// FieldFloat64 is a convenience wrapper that extracts a float64 field from
// an entity or payload map. Returns (0, false) if the key is absent.
func FieldFloat64(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	return ExtractFloat64(v)
}
