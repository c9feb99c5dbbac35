package highlight

import (
	"reflect"
	"testing"

	"github.com/kailas-cloud/esdex/internal/domain/search/query"
)

func TestText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		terms  []string
		want   string
		wantOK bool
	}{
		{"single", "Rust Programming", []string{"rust"}, "<em>Rust</em> Programming", true},
		{"every occurrence", "go go gadget", []string{"go"}, "<em>go</em> <em>go</em> gadget", true},
		{"no match", "Python", []string{"rust"}, "Python", false},
		{"first term wins", "programming", []string{"program", "programming"}, "<em>program</em>ming", true},
		{"no overlap", "aaa", []string{"aa"}, "<em>aa</em>a", true},
		{"unicode", "Crème Brûlée", []string{"brûlée"}, "Crème <em>Brûlée</em>", true},
		{"empty term ignored", "abc", []string{""}, "abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Text(tt.text, tt.terms, DefaultPreTag, DefaultPostTag)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("got %q,%v want %q,%v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTerms(t *testing.T) {
	q := query.Bool{
		Must:    []query.Query{query.Match{Field: "title", Text: "Rust Lang"}},
		Should:  []query.Query{query.MatchPhrase{Field: "body", Phrase: "fast"}},
		MustNot: []query.Query{query.Term{Field: "tag", Value: "Old"}},
		Filter: []query.Query{
			query.MultiMatch{Text: "safe", Fields: []string{"_all"}},
			query.Term{Field: "year", Value: 2020.0},
			query.Range{Field: "year"},
		},
	}
	want := []string{"rust", "lang", "fast", "old", "safe"}
	if got := Terms(q); !reflect.DeepEqual(got, want) {
		t.Errorf("Terms = %v, want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	cfg, ok := Parse(map[string]any{
		"fields":    map[string]any{"title": map[string]any{}, "body": map[string]any{}},
		"pre_tags":  []any{"<b>"},
		"post_tags": []any{"</b>"},
	})
	if !ok {
		t.Fatal("Parse reported no config")
	}
	if !reflect.DeepEqual(cfg.Fields, []string{"body", "title"}) || cfg.PreTag != "<b>" || cfg.PostTag != "</b>" {
		t.Errorf("cfg = %+v", cfg)
	}

	cfg, ok = Parse(map[string]any{"fields": []any{"title"}})
	if !ok || cfg.PreTag != DefaultPreTag || cfg.PostTag != DefaultPostTag {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	if _, ok := Parse(map[string]any{"fields": map[string]any{}}); ok {
		t.Error("empty fields should disable highlighting")
	}
	if _, ok := Parse(nil); ok {
		t.Error("nil should disable highlighting")
	}
}

func TestDocument_OmitsFieldsWithoutHits(t *testing.T) {
	cfg := Config{Fields: []string{"title", "body", "year", "missing"}, PreTag: "<em>", PostTag: "</em>"}
	doc := map[string]any{"title": "Rust Programming", "body": "nothing here", "year": 2020.0}

	got := cfg.Document(doc, []string{"rust"})
	want := map[string][]string{"title": {"<em>Rust</em> Programming"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := cfg.Document(doc, nil); got != nil {
		t.Errorf("no terms: got %v", got)
	}
}
