package score

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kailas-cloud/esdex/internal/domain/document"
	"github.com/kailas-cloud/esdex/internal/domain/search/query"
)

// patternCacheSize bounds the number of compiled wildcard expressions kept.
const patternCacheSize = 512

var patterns, _ = lru.New[string, *regexp.Regexp](patternCacheSize)

func term(doc any, field string, literal any) bool {
	v, ok := document.Lookup(doc, field)
	return ok && document.Equal(v, literal)
}

func terms(doc any, field string, literals []any) bool {
	if len(literals) == 0 {
		return true
	}
	v, ok := document.Lookup(doc, field)
	if !ok {
		return false
	}
	for _, l := range literals {
		if document.Equal(v, l) {
			return true
		}
	}
	return false
}

func prefix(doc any, field, p string) bool {
	if p == "" {
		return true
	}
	v, ok := document.Lookup(doc, field)
	if !ok {
		return false
	}
	s, ok := scalarText(v)
	return ok && strings.HasPrefix(s, strings.ToLower(p))
}

func wildcard(doc any, field, pattern string) bool {
	if pattern == "" {
		return true
	}
	v, ok := document.Lookup(doc, field)
	if !ok {
		return false
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	re, err := Glob(strings.ToLower(pattern))
	if err != nil {
		return false
	}
	return re.MatchString(strings.ToLower(s))
}

func inRange(doc any, q query.Range) bool {
	v, ok := document.Lookup(doc, q.Field)
	if !ok {
		return false
	}
	n, ok := document.Number(v)
	if !ok {
		return false
	}
	if q.GTE != nil && n < *q.GTE {
		return false
	}
	if q.GT != nil && n <= *q.GT {
		return false
	}
	if q.LTE != nil && n > *q.LTE {
		return false
	}
	if q.LT != nil && n >= *q.LT {
		return false
	}
	return true
}

// Glob compiles a * / ? pattern into a regular expression anchored to the
// whole input. Every other character matches literally.
func Glob(pattern string) (*regexp.Regexp, error) {
	if re, ok := patterns.Get(pattern); ok {
		return re, nil
	}
	var b strings.Builder
	b.WriteString(`(?s)^`)
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, err //nolint:wrapcheck // compile errors are reported as no-match
	}
	patterns.Add(pattern, re)
	return re, nil
}
