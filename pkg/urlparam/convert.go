package urlparam

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// Convert converts an attribute value into type t. Strings are parsed into
// numbers, booleans and dates; numbers are converted between numeric kinds
// or formatted into strings; []any and map[string]any are converted element
// by element. A nil value yields the zero value of t.
func Convert(v any, t reflect.Type) (any, error) {
	if v == nil {
		return reflect.Zero(t).Interface(), nil
	}
	out, err := convertValue(reflect.ValueOf(v), t)
	if err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

func convertValue(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Zero(t), nil
		}
		v = v.Elem()
	}

	if v.Type().AssignableTo(t) {
		out := reflect.New(t).Elem()
		out.Set(v)
		return out, nil
	}

	if t == timeType {
		if v.Kind() == reflect.String {
			d, err := ParseDate(v.String())
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(d), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot convert %s to time.Time", v.Type())
	}

	switch t.Kind() {
	case reflect.Interface:
		if v.Type().Implements(t) {
			out := reflect.New(t).Elem()
			out.Set(v)
			return out, nil
		}

	case reflect.String:
		if v.Type() == timeType {
			s, _ := FormatValue(v.Interface())
			return reflect.ValueOf(s).Convert(t), nil
		}
		switch v.Kind() {
		case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		default:
			return reflect.ValueOf(formatValue(v)).Convert(t), nil
		}

	case reflect.Bool:
		if v.Kind() == reflect.String {
			b, ok := ParseBool(v.String())
			if !ok {
				return reflect.Value{}, fmt.Errorf("invalid boolean: %s", v.String())
			}
			return reflect.ValueOf(b).Convert(t), nil
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if v.Kind() == reflect.String {
			out := reflect.New(t).Elem()
			if err := setFieldValue(out, v.String()); err != nil {
				return reflect.Value{}, err
			}
			return out, nil
		}
		if isNumeric(v.Kind()) {
			return v.Convert(t), nil
		}

	case reflect.Slice:
		if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
			out := reflect.MakeSlice(t, v.Len(), v.Len())
			for i := 0; i < v.Len(); i++ {
				elem, err := convertValue(v.Index(i), t.Elem())
				if err != nil {
					return reflect.Value{}, fmt.Errorf("index %d: %w", i, err)
				}
				out.Index(i).Set(elem)
			}
			return out, nil
		}

	case reflect.Map:
		if v.Kind() == reflect.Map && t.Key().Kind() == reflect.String {
			out := reflect.MakeMapWithSize(t, v.Len())
			iter := v.MapRange()
			for iter.Next() {
				elem, err := convertValue(iter.Value(), t.Elem())
				if err != nil {
					return reflect.Value{}, fmt.Errorf("key %v: %w", iter.Key(), err)
				}
				key := reflect.ValueOf(formatValue(iter.Key())).Convert(t.Key())
				out.SetMapIndex(key, elem)
			}
			return out, nil
		}
	}

	if v.Type().ConvertibleTo(t) && v.Kind() != reflect.String && t.Kind() != reflect.String {
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", v.Type(), t)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// setFieldValue parses s into the scalar v.
func setFieldValue(v reflect.Value, s string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %s", s)
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid unsigned integer: %s", s)
		}
		v.SetUint(i)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid float: %s", s)
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", s)
		}
		v.SetBool(b)
	default:
		return fmt.Errorf("unsupported type: %v", v.Kind())
	}
	return nil
}
