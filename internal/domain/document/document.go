// Package document implements the JSON value tree stored as a document body.
//
// Values use the dynamic types produced by encoding/json: map[string]any,
// []any, string, float64, bool and nil. Normalize converts anything else a Go
// caller may pass (integers, json.Number, typed maps) into that set.
package document

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Source is the object form of a document body.
type Source = map[string]any

// AllFields addresses the whole document root.
const (
	AllFields      = "_all"
	AllFieldsGlob  = "*"
	pathSeparator  = "."
	maxNestedDepth = 100
)

// IsAllFields reports whether field addresses the document root.
func IsAllFields(field string) bool {
	return field == AllFields || field == AllFieldsGlob
}

// Normalize returns a deep copy of v using only JSON-native dynamic types.
func Normalize(v any) (any, error) {
	return normalize(v, 0)
}

func normalize(v any, depth int) (any, error) {
	if depth > maxNestedDepth {
		return nil, fmt.Errorf("document nested deeper than %d levels", maxNestedDepth)
	}
	switch t := v.(type) {
	case nil, string, bool:
		return t, nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("non-finite number %v", t)
		}
		return t, nil
	case float32:
		return normalize(float64(t), depth)
	case int:
		return float64(t), nil
	case int8:
		return float64(t), nil
	case int16:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint:
		return float64(t), nil
	case uint8:
		return float64(t), nil
	case uint16:
		return float64(t), nil
	case uint32:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return f, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			n, err := normalize(item, depth+1)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			n, err := normalize(item, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out, nil
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, nil
	default:
		// Round-trip anything else (structs, typed slices) through JSON.
		data, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("unsupported value %T: %w", v, err)
		}
		var out any
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("unsupported value %T: %w", v, err)
		}
		return out, nil
	}
}

// Lookup resolves a dot-separated path. "_all" and "*" return the root.
// It fails when an intermediate segment is not an object or a key is absent.
func Lookup(doc any, field string) (any, bool) {
	if IsAllFields(field) {
		return doc, true
	}
	current := doc
	for _, part := range strings.Split(field, pathSeparator) {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Text returns the string form of a scalar: strings as-is, numbers in
// shortest decimal form, booleans as true/false.
func Text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return FormatNumber(t), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// FormatNumber renders f without exponent or trailing zeros.
func FormatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Number reads a numeric value or a numeric string.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Equal reports structural equality of two normalized values.
func Equal(a, b any) bool {
	switch at := a.(type) {
	case nil:
		return b == nil
	case string:
		bt, ok := b.(string)
		return ok && at == bt
	case float64:
		bt, ok := b.(float64)
		return ok && at == bt
	case bool:
		bt, ok := b.(bool)
		return ok && at == bt
	case []any:
		bt, ok := b.([]any)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !Equal(at[i], bt[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bt, ok := b.(map[string]any)
		if !ok || len(at) != len(bt) {
			return false
		}
		for k, av := range at {
			bv, ok := bt[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Merge overlays the top-level keys of patch onto base and returns a new
// value. Non-object operands make patch replace base wholesale. Neither input
// is modified.
func Merge(base, patch any) any {
	baseObj, ok := base.(map[string]any)
	if !ok {
		return patch
	}
	patchObj, ok := patch.(map[string]any)
	if !ok {
		return patch
	}
	out := make(map[string]any, len(baseObj)+len(patchObj))
	for k, v := range baseObj {
		out[k] = v
	}
	for k, v := range patchObj {
		out[k] = v
	}
	return out
}

// Walk calls fn for every scalar leaf below v, depth first, visiting object
// keys in sorted order.
func Walk(v any, fn func(leaf any)) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			Walk(t[k], fn)
		}
	case []any:
		for _, item := range t {
			Walk(item, fn)
		}
	default:
		fn(t)
	}
}
