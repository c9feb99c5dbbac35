// Package highlight wraps query terms found in document fields with tags.
package highlight

import (
	"sort"
	"strings"
	"unicode"

	"github.com/kailas-cloud/esdex/internal/domain/document"
	"github.com/kailas-cloud/esdex/internal/domain/search/query"
)

// Default tags.
const (
	DefaultPreTag  = "<em>"
	DefaultPostTag = "</em>"
)

// Config selects the fields to highlight and the wrapping tags.
type Config struct {
	Fields  []string
	PreTag  string
	PostTag string
}

// Parse reads {"fields": {name: {}} | [name], "pre_tags": [..], "post_tags": [..]}.
// It returns false when no fields are configured.
func Parse(raw any) (Config, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Config{}, false
	}
	cfg := Config{PreTag: DefaultPreTag, PostTag: DefaultPostTag}
	switch f := obj["fields"].(type) {
	case map[string]any:
		for name := range f {
			cfg.Fields = append(cfg.Fields, name)
		}
		sort.Strings(cfg.Fields)
	case []any:
		for _, item := range f {
			switch t := item.(type) {
			case string:
				cfg.Fields = append(cfg.Fields, t)
			case map[string]any:
				for name := range t {
					cfg.Fields = append(cfg.Fields, name)
				}
			}
		}
	}
	if len(cfg.Fields) == 0 {
		return Config{}, false
	}
	if tag, ok := firstString(obj["pre_tags"]); ok {
		cfg.PreTag = tag
	}
	if tag, ok := firstString(obj["post_tags"]); ok {
		cfg.PostTag = tag
	}
	return cfg, true
}

// Terms collects lowercase whitespace-separated terms from the text-bearing
// leaves of q, descending into every bool clause.
func Terms(q query.Query) []string {
	var out []string
	collect(q, &out)
	return out
}

func collect(q query.Query, out *[]string) {
	switch t := q.(type) {
	case query.Match:
		*out = append(*out, tokenize(t.Text)...)
	case query.MatchPhrase:
		*out = append(*out, tokenize(t.Phrase)...)
	case query.MultiMatch:
		*out = append(*out, tokenize(t.Text)...)
	case query.Term:
		if s, ok := t.Value.(string); ok {
			*out = append(*out, tokenize(s)...)
		}
	case query.Bool:
		for _, group := range [][]query.Query{t.Must, t.Should, t.MustNot, t.Filter} {
			for _, c := range group {
				collect(c, out)
			}
		}
	case query.Alternatives:
		for _, c := range t.Clauses {
			collect(c, out)
		}
	}
}

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// Document highlights every configured string field of doc. Fields without
// any wrapped term are omitted; nil means nothing was highlighted.
func (c Config) Document(doc any, terms []string) map[string][]string {
	if len(terms) == 0 {
		return nil
	}
	var out map[string][]string
	for _, field := range c.Fields {
		v, ok := document.Lookup(doc, field)
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		text, hit := Text(s, terms, c.PreTag, c.PostTag)
		if !hit {
			continue
		}
		if out == nil {
			out = make(map[string][]string)
		}
		out[field] = []string{text}
	}
	return out
}

type span struct{ start, end int }

// Text wraps every non-overlapping case-insensitive occurrence of any term.
// At a given position the earliest-listed term wins. The second result
// reports whether anything was wrapped.
func Text(text string, terms []string, pre, post string) (string, bool) {
	runes := []rune(text)
	lower := make([]rune, len(runes))
	for i, r := range runes {
		lower[i] = unicode.ToLower(r)
	}

	var spans []span
	for _, t := range terms {
		needle := []rune(strings.ToLower(t))
		if len(needle) == 0 {
			continue
		}
		for i := 0; i+len(needle) <= len(lower); {
			if equalRunes(lower[i:i+len(needle)], needle) {
				spans = append(spans, span{i, i + len(needle)})
				i += len(needle)
				continue
			}
			i++
		}
	}
	if len(spans) == 0 {
		return text, false
	}
	sort.SliceStable(spans, func(a, b int) bool { return spans[a].start < spans[b].start })

	var b strings.Builder
	last := 0
	for _, s := range spans {
		if s.start < last {
			continue
		}
		b.WriteString(string(runes[last:s.start]))
		b.WriteString(pre)
		b.WriteString(string(runes[s.start:s.end]))
		b.WriteString(post)
		last = s.end
	}
	b.WriteString(string(runes[last:]))
	return b.String(), true
}

func equalRunes(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func firstString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []any:
		if len(t) > 0 {
			s, ok := t[0].(string)
			return s, ok
		}
	}
	return "", false
}
