package document

import (
	"encoding/json"
	"math"
	"testing"
)

func TestNormalize_Numbers(t *testing.T) {
	in := map[string]any{
		"i":   42,
		"u":   uint8(7),
		"f32": float32(1.5),
		"num": json.Number("3.25"),
		"arr": []string{"a", "b"},
		"obj": map[string]string{"k": "v"},
	}
	out, err := Normalize(in)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	m := out.(map[string]any)
	if m["i"] != 42.0 || m["u"] != 7.0 || m["f32"] != 1.5 || m["num"] != 3.25 {
		t.Errorf("numbers not normalized: %v", m)
	}
	if arr, ok := m["arr"].([]any); !ok || len(arr) != 2 || arr[0] != "a" {
		t.Errorf("arr = %#v", m["arr"])
	}
	if obj, ok := m["obj"].(map[string]any); !ok || obj["k"] != "v" {
		t.Errorf("obj = %#v", m["obj"])
	}
}

func TestNormalize_DeepCopy(t *testing.T) {
	inner := map[string]any{"a": 1.0}
	in := map[string]any{"inner": inner}
	out, err := Normalize(in)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	inner["a"] = 2.0
	got := out.(map[string]any)["inner"].(map[string]any)["a"]
	if got != 1.0 {
		t.Errorf("copy shares state with input: a = %v", got)
	}
}

func TestNormalize_RejectsNonFinite(t *testing.T) {
	for _, v := range []any{math.NaN(), math.Inf(1), map[string]any{"x": math.Inf(-1)}} {
		if _, err := Normalize(v); err == nil {
			t.Errorf("Normalize(%v) = nil error", v)
		}
	}
}

func TestNormalize_Struct(t *testing.T) {
	type book struct {
		Title string `json:"title"`
		Pages int    `json:"pages"`
	}
	out, err := Normalize(book{Title: "Go", Pages: 300})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	m := out.(map[string]any)
	if m["title"] != "Go" || m["pages"] != 300.0 {
		t.Errorf("got %v", m)
	}
}

func TestLookup(t *testing.T) {
	doc := map[string]any{
		"title": "Rust",
		"author": map[string]any{
			"name":    "Ann",
			"address": map[string]any{"city": "Oslo"},
		},
		"tags": []any{"a"},
	}
	tests := []struct {
		field  string
		want   any
		wantOK bool
	}{
		{"title", "Rust", true},
		{"author.name", "Ann", true},
		{"author.address.city", "Oslo", true},
		{"author.missing", nil, false},
		{"title.sub", nil, false},
		{"tags.0", nil, false},
		{"nope", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := Lookup(doc, tt.field)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLookup_AllFields(t *testing.T) {
	doc := map[string]any{"a": 1.0}
	for _, f := range []string{"_all", "*"} {
		got, ok := Lookup(doc, f)
		if !ok {
			t.Fatalf("Lookup(%q) not found", f)
		}
		if m, _ := got.(map[string]any); m["a"] != 1.0 {
			t.Errorf("Lookup(%q) = %v", f, got)
		}
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		in     any
		want   string
		wantOK bool
	}{
		{"Hello", "Hello", true},
		{30.0, "30", true},
		{2.5, "2.5", true},
		{true, "true", true},
		{nil, "", false},
		{map[string]any{}, "", false},
	}
	for _, tt := range tests {
		got, ok := Text(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Text(%v) = %q,%v want %q,%v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{30.0, 30, true},
		{" 12.5 ", 12.5, true},
		{"abc", 0, false},
		{true, 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := Number(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Number(%v) = %v,%v want %v,%v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"strings", "a", "a", true},
		{"string case", "a", "A", false},
		{"numbers", 1.0, 1.0, true},
		{"number vs string", 1.0, "1", false},
		{"nil", nil, nil, true},
		{"arrays", []any{1.0, "x"}, []any{1.0, "x"}, true},
		{"array order", []any{1.0, "x"}, []any{"x", 1.0}, false},
		{"objects", map[string]any{"a": []any{true}}, map[string]any{"a": []any{true}}, true},
		{"object extra key", map[string]any{"a": 1.0}, map[string]any{"a": 1.0, "b": 2.0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := map[string]any{"a": 1.0, "nested": map[string]any{"x": 1.0}}
	patch := map[string]any{"b": 2.0, "nested": map[string]any{"y": 2.0}}

	got := Merge(base, patch).(map[string]any)
	if got["a"] != 1.0 || got["b"] != 2.0 {
		t.Errorf("top-level keys not merged: %v", got)
	}
	nested := got["nested"].(map[string]any)
	if _, ok := nested["x"]; ok {
		t.Errorf("merge must be shallow, nested = %v", nested)
	}
	if _, ok := base["b"]; ok {
		t.Error("base mutated")
	}
}

func TestMerge_NonObjectReplaces(t *testing.T) {
	if got := Merge("old", map[string]any{"a": 1.0}); got.(map[string]any)["a"] != 1.0 {
		t.Errorf("got %v", got)
	}
	if got := Merge(map[string]any{"a": 1.0}, "new"); got != "new" {
		t.Errorf("got %v", got)
	}
}

func TestWalk(t *testing.T) {
	doc := map[string]any{
		"b": "two",
		"a": []any{"one", map[string]any{"c": 3.0}},
	}
	var leaves []any
	Walk(doc, func(leaf any) { leaves = append(leaves, leaf) })
	if len(leaves) != 3 || leaves[0] != "one" || leaves[1] != 3.0 || leaves[2] != "two" {
		t.Errorf("leaves = %v", leaves)
	}
}
