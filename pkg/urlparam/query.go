package urlparam

import (
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// maxIndex bounds array indexes accepted from a query string.
const maxIndex = 1000

// Pair is one flattened key/value of a query string, both unescaped.
type Pair struct {
	Key   string
	Value string
}

// Flatten expands an attribute map into query pairs using dot notation for
// nested map keys and bracket notation for array indexes. Attribute names
// are sorted; nil and empty values are dropped.
func Flatten(values map[string]any) []Pair {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs []Pair
	for _, k := range keys {
		pairs = flatten(pairs, k, values[k])
	}
	return pairs
}

func flatten(pairs []Pair, prefix string, v any) []Pair {
	if v == nil {
		return pairs
	}
	if _, ok := v.(time.Time); ok {
		if s, ok := FormatValue(v); ok {
			pairs = append(pairs, Pair{Key: prefix, Value: s})
		}
		return pairs
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return pairs
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		index := make(map[string]reflect.Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := formatValue(iter.Key())
			keys = append(keys, k)
			index[k] = iter.Value()
		}
		sort.Strings(keys)
		for _, k := range keys {
			pairs = flatten(pairs, prefix+"."+k, index[k].Interface())
		}
		return pairs

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		for i := 0; i < rv.Len(); i++ {
			pairs = flatten(pairs, prefix+"["+strconv.Itoa(i)+"]", rv.Index(i).Interface())
		}
		return pairs
	}

	if s, ok := FormatValue(rv.Interface()); ok {
		pairs = append(pairs, Pair{Key: prefix, Value: s})
	}
	return pairs
}

// EncodeQuery serializes an attribute map into a query string without the
// leading "?". Keys keep their dot and bracket structure unescaped; names
// and values are percent-encoded.
func EncodeQuery(values map[string]any) string {
	pairs := Flatten(values)
	if len(pairs) == 0 {
		return ""
	}

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = escapeKey(p.Key) + "=" + EscapeComponent(p.Value)
	}
	return strings.Join(parts, "&")
}

// escapeKey escapes every name inside a structured key but keeps the
// structural dots and brackets.
func escapeKey(key string) string {
	var b strings.Builder
	start := 0
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '[', ']':
			b.WriteString(EscapeComponent(key[start:i]))
			b.WriteByte(key[i])
			start = i + 1
		}
	}
	b.WriteString(EscapeComponent(key[start:]))
	return b.String()
}

// keyToken is one step of a structured query key.
type keyToken struct {
	name    string
	index   int
	isIndex bool
}

// parseKey splits "filter.ids[0]" into [filter ids 0]. Keys that do not
// follow the grammar are returned as a single literal token.
func parseKey(key string) []keyToken {
	literal := []keyToken{{name: key}}

	end := strings.IndexAny(key, ".[")
	if end == 0 {
		return literal
	}
	if end < 0 {
		return literal
	}

	tokens := []keyToken{{name: key[:end]}}
	rest := key[end:]
	for rest != "" {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			n := strings.IndexAny(rest, ".[")
			if n < 0 {
				n = len(rest)
			}
			if n == 0 {
				return literal
			}
			tokens = append(tokens, keyToken{name: rest[:n]})
			rest = rest[n:]
		case '[':
			closeIdx := strings.IndexByte(rest, ']')
			if closeIdx < 2 {
				return literal
			}
			idx, err := strconv.Atoi(rest[1:closeIdx])
			if err != nil || idx < 0 || idx > maxIndex {
				return literal
			}
			tokens = append(tokens, keyToken{index: idx, isIndex: true})
			rest = rest[closeIdx+1:]
		default:
			return literal
		}
	}
	return tokens
}

// DecodeQuery parses a query string (with or without the leading "?") into
// an attribute map, reconstructing nested maps and arrays from structured
// keys. Values go through ParseValue. Empty values and undecodable pairs are
// skipped; a repeated key keeps its last value.
func DecodeQuery(query string) map[string]any {
	query = strings.TrimPrefix(query, "?")
	out := make(map[string]any)
	if query == "" {
		return out
	}

	for _, part := range strings.Split(query, "&") {
		if part == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil || key == "" {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil || value == "" {
			continue
		}

		tokens := parseKey(key)
		root := tokens[0].name
		out[root] = assign(out[root], tokens[1:], ParseValue(value))
	}
	return out
}

// assign stores value at the path described by tokens inside cur and
// returns the updated container.
func assign(cur any, tokens []keyToken, value any) any {
	if len(tokens) == 0 {
		return value
	}

	tok := tokens[0]
	if tok.isIndex {
		list, _ := cur.([]any)
		for len(list) <= tok.index {
			list = append(list, nil)
		}
		list[tok.index] = assign(list[tok.index], tokens[1:], value)
		return list
	}

	m, ok := cur.(map[string]any)
	if !ok {
		m = make(map[string]any)
	}
	m[tok.name] = assign(m[tok.name], tokens[1:], value)
	return m
}
