package router

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/vango-dev/navigator/pkg/urlparam"
)

// Attributes maps attribute names to values. Values are strings, numbers,
// booleans, time.Time, or nested maps and slices of those. A nil value
// means the attribute is absent.
type Attributes map[string]any

// Clone returns a shallow copy of a without nil values.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

// Get returns the value for key, or nil.
func (a Attributes) Get(key string) any {
	if a == nil {
		return nil
	}
	return a[key]
}

// Has reports whether key is present with a non-nil value.
func (a Attributes) Has(key string) bool {
	return a.Get(key) != nil
}

// parseAttributes returns a copy of a with every string read as a URL
// value.
func parseAttributes(a Attributes) Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		if v != nil {
			out[k] = urlparam.ParseStrings(v)
		}
	}
	return out
}

// mergeUnder copies every present value of src into dst whose key is still
// absent in dst.
func mergeUnder(dst Attributes, src map[string]any) {
	for k, v := range src {
		if v == nil {
			continue
		}
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
}

var equalOptions = []cmp.Option{
	cmpopts.EquateEmpty(),
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

// AttributesEqual reports whether a and b are structurally equal. Numbers
// compare by value regardless of their Go type, times compare as instants,
// nil map entries count as absent and empty collections equal nil.
func AttributesEqual(a, b any) bool {
	return cmp.Equal(normalize(a), normalize(b), equalOptions...)
}

// normalize rewrites v into a canonical form: every number becomes
// float64, every map becomes map[string]any and every slice []any. Empty
// collections and nil entries normalize to nil.
func normalize(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string, bool:
		return val
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return nil
		}
		return *val
	case Attributes:
		return normalize(map[string]any(val))
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			if n := normalize(e); n != nil {
				out[k] = n
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case []any:
		if len(val) == 0 {
			return nil
		}
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = normalize(e)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			if n := normalize(iter.Value().Interface()); n != nil {
				out[keyString(iter.Key())] = n
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	}
	return v
}

func keyString(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}
