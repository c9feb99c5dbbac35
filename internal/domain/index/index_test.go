package index

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/kailas-cloud/esdex/internal/domain"
)

func TestValidateName(t *testing.T) {
	valid := []string{"books", "logs-2024.01", "a", "my_index", "x+y"}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) = %v", name, err)
		}
	}
	invalid := []string{
		"", ".", "..", "Books", "_books", "-books", "+books",
		"a b", "a,b", "a*", "a?", "a/b", `a\b`, "a|b", "a#b", "a:b", `a"b`, "a<b",
		string(make([]byte, MaxNameBytes+1)),
	}
	for _, name := range invalid {
		err := ValidateName(name)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("ValidateName(%q) = %v, want ErrInvalidRequest", name, err)
		}
	}
}

func TestNew(t *testing.T) {
	before := time.Now().UnixMilli()
	idx, err := New("books", map[string]any{"number_of_shards": 1.0}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Name() != "books" {
		t.Errorf("Name() = %q", idx.Name())
	}
	if idx.CreatedAt() < before {
		t.Errorf("CreatedAt() = %d, want >= %d", idx.CreatedAt(), before)
	}
	if idx.Mappings() != nil {
		t.Errorf("Mappings() = %v", idx.Mappings())
	}
}

func TestReconstruct_RoundTrip(t *testing.T) {
	m := Metadata{
		Settings:  map[string]any{"a": 1.0},
		Mappings:  map[string]any{"properties": map[string]any{}},
		Aliases:   []string{"b", "a", "b"},
		CreatedAt: 42,
	}
	idx := Reconstruct("x", m)
	if !reflect.DeepEqual(idx.Aliases(), []string{"a", "b"}) {
		t.Errorf("Aliases() = %v", idx.Aliases())
	}
	got := idx.Metadata()
	if got.CreatedAt != 42 || !reflect.DeepEqual(got.Settings, m.Settings) {
		t.Errorf("Metadata() = %+v", got)
	}
}

func TestAliases(t *testing.T) {
	idx, _ := New("books", nil, nil)
	idx = idx.WithAlias("read").WithAlias("all").WithAlias("read")
	if !reflect.DeepEqual(idx.Aliases(), []string{"all", "read"}) {
		t.Errorf("Aliases() = %v", idx.Aliases())
	}
	if !idx.HasAlias("read") || idx.HasAlias("write") {
		t.Error("HasAlias mismatch")
	}
	idx = idx.WithoutAlias("read")
	if idx.HasAlias("read") {
		t.Error("alias not removed")
	}
}

func TestMergeMappings(t *testing.T) {
	title := map[string]any{"type": "text"}
	year := map[string]any{"type": "integer"}

	tests := []struct {
		name     string
		existing any
		props    any
		want     any
	}{
		{
			"no existing",
			nil,
			map[string]any{"title": title},
			map[string]any{"properties": map[string]any{"title": title}},
		},
		{
			"merge into properties",
			map[string]any{"properties": map[string]any{"title": title}, "dynamic": true},
			map[string]any{"year": year},
			map[string]any{"properties": map[string]any{"title": title, "year": year}, "dynamic": true},
		},
		{
			"existing without properties",
			map[string]any{"dynamic": true},
			map[string]any{"year": year},
			map[string]any{"properties": map[string]any{"year": year}, "dynamic": true},
		},
		{
			"non-object replaces",
			"junk",
			map[string]any{"year": year},
			map[string]any{"year": year},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeMappings(tt.existing, tt.props); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeMappings_DoesNotMutate(t *testing.T) {
	props := map[string]any{"a": 1.0}
	existing := map[string]any{"properties": props}
	MergeMappings(existing, map[string]any{"b": 2.0})
	if _, ok := props["b"]; ok {
		t.Error("existing properties mutated")
	}
}

func TestMergeSettings(t *testing.T) {
	got := MergeSettings(map[string]any{"a": 1.0, "b": 1.0}, map[string]any{"b": 2.0})
	want := map[string]any{"a": 1.0, "b": 2.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v", got)
	}
	if got := MergeSettings(nil, map[string]any{"x": 1.0}); !reflect.DeepEqual(got, map[string]any{"x": 1.0}) {
		t.Errorf("nil existing: got %v", got)
	}
}

func TestExtractProperties(t *testing.T) {
	p := map[string]any{"a": map[string]any{"type": "text"}}
	for _, body := range []map[string]any{
		{"properties": p},
		{"mappings": map[string]any{"properties": p}},
	} {
		got, err := ExtractProperties(body)
		if err != nil || !reflect.DeepEqual(got, p) {
			t.Errorf("ExtractProperties(%v) = %v, %v", body, got, err)
		}
	}
	if _, err := ExtractProperties(map[string]any{"foo": 1.0}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("err = %v", err)
	}
}
