// Package score evaluates a query tree against a single document.
//
// Every function here is pure: a score of 0 excludes the document, any
// positive score ranks it.
package score

import (
	"strings"

	"github.com/kailas-cloud/esdex/internal/domain/document"
	"github.com/kailas-cloud/esdex/internal/domain/search/query"
)

// Score constants shared by the text matchers.
const (
	// Exact is awarded for a whole-value match and for non-text queries.
	Exact = 1.0
	// Contains is awarded when the query text is a substring of the value.
	Contains = 0.8
	// OutOfOrder is awarded when every phrase word occurs but not in order.
	OutOfOrder = 0.6
	// WordFraction scales the share of query words found in the value.
	WordFraction = 0.5
	// NumericLeaf is awarded when an _all match hits a number.
	NumericLeaf = 0.5
	// ShouldWeight scales the summed should-clause score inside bool.
	// Kept for parity; the value has no documented tuning rationale.
	ShouldWeight = 0.5
)

// Document scores doc against q. The result is never negative.
func Document(doc any, q query.Query) float64 {
	switch t := q.(type) {
	case nil, query.MatchAll:
		return Exact
	case query.Match:
		return match(doc, t.Field, t.Text)
	case query.MatchPhrase:
		return matchPhrase(doc, t.Field, t.Phrase)
	case query.MultiMatch:
		return multiMatch(doc, t.Fields, t.Text)
	case query.Term:
		return boolScore(term(doc, t.Field, t.Value))
	case query.Terms:
		return boolScore(terms(doc, t.Field, t.Values))
	case query.Prefix:
		return boolScore(prefix(doc, t.Field, t.Prefix))
	case query.Wildcard:
		return boolScore(wildcard(doc, t.Field, t.Pattern))
	case query.Range:
		return boolScore(inRange(doc, t))
	case query.Bool:
		return boolQuery(doc, t)
	case query.Alternatives:
		for _, c := range t.Clauses {
			if s := Document(doc, c); s > 0 {
				return s
			}
		}
		return 0
	default:
		return 0
	}
}

// boolQuery applies must / should / must_not / filter. The accumulator falls
// back to 1 when the document passed but nothing contributed a score.
func boolQuery(doc any, q query.Bool) float64 {
	var total float64
	for _, c := range q.Must {
		s := Document(doc, c)
		if s == 0 {
			return 0
		}
		total += s
	}

	var should float64
	for _, c := range q.Should {
		should += Document(doc, c)
	}
	if should > 0 {
		total += should * ShouldWeight
	}

	for _, c := range q.MustNot {
		if Document(doc, c) > 0 {
			return 0
		}
	}
	for _, c := range q.Filter {
		if Document(doc, c) == 0 {
			return 0
		}
	}

	if total > 0 {
		return total
	}
	return Exact
}

func boolScore(ok bool) float64 {
	if ok {
		return Exact
	}
	return 0
}

// scalarText lowercases the string form of a string, number or bool leaf.
func scalarText(v any) (string, bool) {
	s, ok := document.Text(v)
	if !ok {
		return "", false
	}
	if _, isString := v.(string); isString {
		return strings.ToLower(s), true
	}
	return s, true
}
