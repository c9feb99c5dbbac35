package request

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/esdex/internal/domain"
	"github.com/kailas-cloud/esdex/internal/domain/search/query"
	"github.com/kailas-cloud/esdex/internal/domain/search/result"
	"github.com/kailas-cloud/esdex/internal/domain/search/source"
)

func TestParse_Defaults(t *testing.T) {
	r, err := Parse(nil, DefaultLimits())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.Query().(query.MatchAll); !ok {
		t.Errorf("Query() = %T, want MatchAll", r.Query())
	}
	if r.From() != 0 || r.Size() != DefaultSize {
		t.Errorf("From/Size = %d/%d", r.From(), r.Size())
	}
	if r.Sort() != nil {
		t.Errorf("Sort() = %v", r.Sort())
	}
	if r.Source().Mode() != source.All {
		t.Errorf("Source mode = %v", r.Source().Mode())
	}
	if r.Highlight() != nil {
		t.Errorf("Highlight() = %+v", r.Highlight())
	}
}

func TestParse_ConfiguredDefaultSize(t *testing.T) {
	r, err := Parse(map[string]any{}, Limits{DefaultSize: 25, MaxResultWindow: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Size() != 25 {
		t.Errorf("Size() = %d, want 25", r.Size())
	}
}

func TestParse_Full(t *testing.T) {
	body := map[string]any{
		"query":     map[string]any{"match": map[string]any{"title": "go"}},
		"from":      5.0,
		"size":      20.0,
		"sort":      []any{map[string]any{"year": map[string]any{"order": "desc"}}, "title"},
		"_source":   []any{"title"},
		"highlight": map[string]any{"fields": map[string]any{"title": map[string]any{}}},
	}
	r, err := Parse(body, DefaultLimits())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m, ok := r.Query().(query.Match); !ok || m.Field != "title" || m.Text != "go" {
		t.Errorf("Query() = %#v", r.Query())
	}
	if r.From() != 5 || r.Size() != 20 {
		t.Errorf("From/Size = %d/%d", r.From(), r.Size())
	}
	wantSort := []result.SortField{{Field: "year", Order: result.Desc}, {Field: "title", Order: result.Asc}}
	if !reflect.DeepEqual(r.Sort(), wantSort) {
		t.Errorf("Sort() = %v", r.Sort())
	}
	if r.Source().Mode() != source.Fields {
		t.Errorf("Source mode = %v", r.Source().Mode())
	}
	if r.Highlight() == nil || r.Highlight().Fields[0] != "title" {
		t.Errorf("Highlight() = %+v", r.Highlight())
	}
}

func TestParse_GoValues(t *testing.T) {
	body := map[string]any{
		"from": 2,
		"size": uint8(3),
		"sort": []map[string]any{{"year": map[string]string{"order": "desc"}}},
	}
	r, err := Parse(body, DefaultLimits())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.From() != 2 || r.Size() != 3 {
		t.Errorf("From/Size = %d/%d", r.From(), r.Size())
	}
	want := []result.SortField{{Field: "year", Order: result.Desc}}
	if !reflect.DeepEqual(r.Sort(), want) {
		t.Errorf("Sort() = %+v, want %+v", r.Sort(), want)
	}
	if _, ok := body["sort"].([]map[string]any); !ok {
		t.Error("caller body was rewritten")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"negative from", map[string]any{"from": -1.0}},
		{"negative size", map[string]any{"size": -5.0}},
		{"fractional size", map[string]any{"size": 1.5}},
		{"string size", map[string]any{"size": "10"}},
		{"window exceeded", map[string]any{"from": 9995.0, "size": 10.0}},
		{"bad query", map[string]any{"query": map[string]any{"nope": map[string]any{}}}},
		{"bad sort order", map[string]any{"sort": map[string]any{"a": "sideways"}}},
		{"bad sort type", map[string]any{"sort": 5.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.body, DefaultLimits())
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestParse_WindowBoundary(t *testing.T) {
	if _, err := Parse(map[string]any{"from": 9990.0, "size": 10.0}, DefaultLimits()); err != nil {
		t.Errorf("from+size == window rejected: %v", err)
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want []result.SortField
	}{
		{"nil", nil, nil},
		{"string", "title", []result.SortField{{Field: "title", Order: result.Asc}}},
		{
			"url form",
			"year:desc,title",
			[]result.SortField{{Field: "year", Order: result.Desc}, {Field: "title", Order: result.Asc}},
		},
		{"score defaults desc", "_score", []result.SortField{{Field: "_score", Order: result.Desc}}},
		{"object string", map[string]any{"n": "DESC"}, []result.SortField{{Field: "n", Order: result.Desc}}},
		{
			"object order",
			map[string]any{"n": map[string]any{"order": "asc"}},
			[]result.SortField{{Field: "n", Order: result.Asc}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSort(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
