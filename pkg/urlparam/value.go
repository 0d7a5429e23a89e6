package urlparam

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the textual form of date attributes.
const DateLayout = "2006-01-02 15:04"

// maxSafeInteger is the largest integer a float64 represents exactly.
const maxSafeInteger = 1 << 53

// ParseValue converts a raw URL string into an attribute value.
// A numeric string becomes a number only if formatting that number yields
// the identical string; everything else (leading zeros, trailing zeros,
// exponent forms, "-0") stays a string. Integral numbers are returned as
// int, others as float64.
func ParseValue(s string) any {
	if s == "" {
		return s
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	if strconv.FormatFloat(f, 'f', -1, 64) != s {
		return s
	}
	if f == 0 && strings.HasPrefix(s, "-") {
		return s
	}

	if f == math.Trunc(f) && math.Abs(f) < maxSafeInteger {
		return int(f)
	}
	return f
}

// ParseStrings applies ParseValue to every string in v, walking maps and
// slices. It yields the value v takes after a trip through a URL. String
// slices become []any; other values are returned unchanged.
func ParseStrings(v any) any {
	switch t := v.(type) {
	case string:
		return ParseValue(t)
	case []string:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = ParseValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = ParseStrings(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = ParseStrings(e)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = ParseStrings(iter.Value().Interface())
		}
		return out
	}
	return v
}

// FormatValue converts a scalar attribute value into its URL string.
// It reports false for values that must not be emitted: nil, the empty
// string, and composite values (maps, slices), which are flattened by
// EncodeQuery instead.
func FormatValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case time.Time:
		if val.IsZero() {
			return "", false
		}
		return val.Format(DateLayout), true
	case *time.Time:
		if val == nil {
			return "", false
		}
		return FormatValue(*val)
	case fmt.Stringer:
		s := val.String()
		return s, s != ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return "", false
		}
		return FormatValue(rv.Elem().Interface())
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Func, reflect.Chan:
		return "", false
	}
	return formatValue(rv), true
}

// formatValue formats a scalar reflect value.
func formatValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// ParseDate parses a date attribute in DateLayout (local time). RFC 3339
// strings are accepted as well.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(DateLayout, s, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// ParseBool parses the literal tokens "true" and "false".
func ParseBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		switch val {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// EscapeComponent percent-encodes s like encodeURIComponent: everything
// except letters, digits and -_.!~*'() is escaped, spaces become %20.
func EscapeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

const upperhex = "0123456789ABCDEF"

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// Normalize rewrites decoded JSON or YAML values into attribute shapes:
// json.Number and integral float64 values within the exact integer range
// become int, other numbers float64. Maps and slices are walked.
func Normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil && i < maxSafeInteger && i > -maxSafeInteger {
			return int(i)
		}
		if f, err := t.Float64(); err == nil {
			return Normalize(f)
		}
		return t.String()
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < maxSafeInteger {
			return int(t)
		}
		return t
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Normalize(e)
		}
		return out
	default:
		return v
	}
}
