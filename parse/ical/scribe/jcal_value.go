package scribe

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// JCalValue holds the value members of a jCal property array, everything
// after the data type. Members are the JSON shapes encoding/json produces:
// string, float64, bool, nil, []any and map[string]any.
type JCalValue struct {
	values []any
}

func NewJCalValue(values []any) *JCalValue {
	return &JCalValue{values: values}
}

// SingleValue is a value with one member.
func SingleValue(v any) *JCalValue {
	return &JCalValue{values: []any{v}}
}

// MultiValue is a list value, one member per item.
func MultiValue(vs ...any) *JCalValue {
	return &JCalValue{values: append([]any(nil), vs...)}
}

// StructuredValue is one array member holding the components.
func StructuredValue(vs ...any) *JCalValue {
	return &JCalValue{values: []any{append([]any(nil), vs...)}}
}

// ObjectValue is one object member, used by RECUR.
func ObjectValue(m map[string]any) *JCalValue {
	return &JCalValue{values: []any{m}}
}

// Values returns the raw members.
func (v *JCalValue) Values() []any {
	if v == nil {
		return nil
	}
	return v.values
}

// AsSingle returns the first member as text.
func (v *JCalValue) AsSingle() string {
	if v == nil || len(v.values) == 0 {
		return ""
	}
	first := v.values[0]
	if arr, ok := first.([]any); ok {
		if len(arr) == 0 {
			return ""
		}
		first = arr[0]
	}
	return jsonString(first)
}

// AsMulti returns every member as text.
func (v *JCalValue) AsMulti() []string {
	var out []string
	for _, m := range v.Values() {
		out = append(out, jsonString(m))
	}
	return out
}

// AsStructured returns the components of a structured value. A value with
// several plain members is treated as already flattened.
func (v *JCalValue) AsStructured() []string {
	vals := v.Values()
	if len(vals) == 1 {
		if arr, ok := vals[0].([]any); ok {
			out := make([]string, 0, len(arr))
			for _, m := range arr {
				out = append(out, jsonString(m))
			}
			return out
		}
	}
	return v.AsMulti()
}

// AsObject returns the first object member with every field as a list of
// strings. Keys come back upper-cased.
func (v *JCalValue) AsObject() (map[string][]string, []string) {
	vals := v.Values()
	if len(vals) == 0 {
		return nil, nil
	}
	m, ok := vals[0].(map[string]any)
	if !ok {
		return nil, nil
	}
	out := make(map[string][]string, len(m))
	keys := make([]string, 0, len(m))
	for k, raw := range m {
		key := strings.ToUpper(k)
		keys = append(keys, key)
		if arr, ok := raw.([]any); ok {
			for _, x := range arr {
				out[key] = append(out[key], jsonString(x))
			}
			continue
		}
		out[key] = []string{jsonString(raw)}
	}
	sort.Strings(keys)
	return out, keys
}

func jsonString(x any) string {
	switch t := x.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, m := range t {
			parts = append(parts, jsonString(m))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(t)
	}
}
