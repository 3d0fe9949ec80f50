package conv

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AsString returns v as a trimmed string; ok is false for nil or non scalar values.
func AsString(v interface{}) (string, bool) {
	switch actual := v.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(actual), true
	case fmt.Stringer:
		return actual.String(), true
	case float64:
		return strconv.FormatFloat(actual, 'f', -1, 64), true
	case int:
		return strconv.Itoa(actual), true
	case int64:
		return strconv.FormatInt(actual, 10), true
	case bool:
		return strconv.FormatBool(actual), true
	case json.Number:
		return actual.String(), true
	}
	return "", false
}

// AsInt coerces various numeric types into a plain int; ok is false for
// fractional values and values outside the int range.
func AsInt(v interface{}) (int, bool) {
	switch actual := v.(type) {
	case int:
		return actual, true
	case int32:
		return int(actual), true
	case int64:
		if actual < math.MinInt || actual > math.MaxInt {
			return 0, false
		}
		return int(actual), true
	case uint64:
		if actual > math.MaxInt {
			return 0, false
		}
		return int(actual), true
	case float32:
		return floatAsInt(float64(actual))
	case float64:
		return floatAsInt(actual)
	case json.Number:
		if i, err := actual.Int64(); err == nil {
			return AsInt(i)
		}
		f, err := actual.Float64()
		if err != nil {
			return 0, false
		}
		return floatAsInt(f)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(actual))
		return i, err == nil
	}
	return 0, false
}

func floatAsInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// float64(math.MaxInt) rounds up to 2^63, itself out of range
	if f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}

// AsStringMap returns v as a map when it is a JSON object.
func AsStringMap(v interface{}) (map[string]interface{}, bool) {
	switch actual := v.(type) {
	case map[string]interface{}:
		return actual, true
	case map[string]string:
		ret := make(map[string]interface{}, len(actual))
		for k, item := range actual {
			ret[k] = item
		}
		return ret, true
	}
	return nil, false
}

// Lookup returns the first non empty string value stored under any of keys.
func Lookup(args map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if value, ok := AsString(args[key]); ok && value != "" {
			return value
		}
	}
	return ""
}
