package source

import (
	"reflect"
	"testing"
)

func doc() map[string]any {
	return map[string]any{"title": "Go", "year": 2009.0, "author": "Rob"}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want any
	}{
		{"nil", nil, doc()},
		{"true", true, doc()},
		{"false", false, map[string]any{}},
		{"single name", "title", map[string]any{"title": "Go"}},
		{"list", []any{"title", "missing"}, map[string]any{"title": "Go"}},
		{
			"excludes only",
			map[string]any{"excludes": []any{"author"}},
			map[string]any{"title": "Go", "year": 2009.0},
		},
		{
			"includes only",
			map[string]any{"includes": []any{"year"}},
			map[string]any{"year": 2009.0},
		},
		{
			"excludes beat includes",
			map[string]any{"includes": []any{"title", "author"}, "excludes": []any{"author"}},
			map[string]any{"title": "Go"},
		},
		{"empty includes", map[string]any{"includes": []any{}}, map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw).Apply(doc())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApply_Idempotent(t *testing.T) {
	filters := []Filter{
		Everything(),
		Nothing(),
		Only("title", "year"),
		IncludesExcludes([]string{"title", "author"}, []string{"author"}),
		IncludesExcludes(nil, []string{"year"}),
	}
	for _, f := range filters {
		once := f.Apply(doc())
		twice := f.Apply(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("mode %d: %v then %v", f.Mode(), once, twice)
		}
	}
}

func TestApply_DoesNotMutate(t *testing.T) {
	d := doc()
	IncludesExcludes(nil, []string{"title"}).Apply(d)
	if _, ok := d["title"]; !ok {
		t.Error("input modified")
	}
}
