package esdex

import (
	"reflect"
	"testing"
)

func TestQuerySource(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want map[string]any
	}{
		{"match all", MatchAll(), map[string]any{"match_all": map[string]any{}}},
		{"match", Match("title", "rust"), map[string]any{"match": map[string]any{"title": "rust"}}},
		{"terms", Terms("tag", "a", "b"), map[string]any{"terms": map[string]any{"tag": []any{"a", "b"}}}},
		{
			"multi match", MultiMatch("go", "title", "body"),
			map[string]any{"multi_match": map[string]any{"query": "go", "fields": []any{"title", "body"}}},
		},
		{
			"range", Range("year").Gte(2000).Lt(2010),
			map[string]any{"range": map[string]any{"year": map[string]any{"gte": 2000, "lt": 2010}}},
		},
		{
			"bool", Bool().Must(Match("title", "rust")).MustNot(Term("draft", true)),
			map[string]any{"bool": map[string]any{
				"must":     []any{map[string]any{"match": map[string]any{"title": "rust"}}},
				"must_not": []any{map[string]any{"term": map[string]any{"draft": true}}},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Source(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Source() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRangeQuery_CopyOnWrite(t *testing.T) {
	base := Range("year").Gte(2000)
	narrowed := base.Lte(2005)

	if _, ok := base.Source()["range"].(map[string]any)["year"].(map[string]any)["lte"]; ok {
		t.Error("Lte leaked into the base query")
	}
	if len(narrowed.Source()["range"].(map[string]any)["year"].(map[string]any)) != 2 {
		t.Errorf("narrowed = %v", narrowed.Source())
	}
}
