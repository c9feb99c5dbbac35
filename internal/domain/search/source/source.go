// Package source projects a stored document body for a search hit.
package source

import "github.com/kailas-cloud/esdex/internal/domain/document"

// Mode selects how a Filter projects the source.
type Mode int

// Filter modes.
const (
	// All returns the full document.
	All Mode = iota
	// None returns an empty object.
	None
	// Fields keeps only the named top-level keys.
	Fields
	// IncludeExclude removes Excludes, then keeps Includes if given.
	IncludeExclude
)

// Filter is a parsed _source specification. The zero value returns everything.
type Filter struct {
	mode     Mode
	fields   []string
	includes []string
	excludes []string
	hasIncl  bool
}

// Everything returns the full document.
func Everything() Filter { return Filter{mode: All} }

// Nothing returns an empty object.
func Nothing() Filter { return Filter{mode: None} }

// Only keeps the listed top-level keys.
func Only(fields ...string) Filter { return Filter{mode: Fields, fields: fields} }

// IncludesExcludes removes excludes first, then keeps includes when includes is non-nil.
func IncludesExcludes(includes, excludes []string) Filter {
	return Filter{mode: IncludeExclude, includes: includes, excludes: excludes, hasIncl: includes != nil}
}

// Mode returns the projection mode.
func (f Filter) Mode() Mode { return f.mode }

// Parse reads the JSON forms: bool, list of names, a single name, or
// {"includes": [...], "excludes": [...]}. Anything else returns everything.
func Parse(raw any) Filter {
	switch t := raw.(type) {
	case nil:
		return Everything()
	case bool:
		if t {
			return Everything()
		}
		return Nothing()
	case string:
		return Only(t)
	case []any:
		return Only(stringList(t)...)
	case []string:
		return Only(t...)
	case map[string]any:
		var includes []string
		if inc, ok := t["includes"]; ok {
			includes = stringList(asList(inc))
			if includes == nil {
				includes = []string{}
			}
		}
		return IncludesExcludes(includes, stringList(asList(t["excludes"])))
	default:
		return Everything()
	}
}

// Apply projects doc. The input is never modified.
func (f Filter) Apply(doc any) any {
	switch f.mode {
	case None:
		return map[string]any{}
	case Fields:
		obj, _ := doc.(map[string]any)
		return pick(obj, f.fields)
	case IncludeExclude:
		obj, ok := doc.(map[string]any)
		if !ok {
			return doc
		}
		remaining := make(map[string]any, len(obj))
		for k, v := range obj {
			remaining[k] = v
		}
		for _, k := range f.excludes {
			delete(remaining, k)
		}
		if !f.hasIncl {
			return remaining
		}
		return pick(remaining, f.includes)
	default:
		return doc
	}
}

func pick(obj document.Source, keys []string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			out[k] = v
		}
	}
	return out
}

func asList(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case string:
		return []any{t}
	default:
		return nil
	}
}

func stringList(items []any) []string {
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
