package esdex

// Query is a node of the Elasticsearch query DSL.
type Query interface {
	Source() map[string]any
}

type rawQuery map[string]any

func (q rawQuery) Source() map[string]any { return q }

func leaf(kind, field string, value any) Query {
	return rawQuery{kind: map[string]any{field: value}}
}

// MatchAll matches every document with score 1.
func MatchAll() Query { return rawQuery{"match_all": map[string]any{}} }

// Match is a full-text match on field. Use "_all" for every field.
func Match(field, text string) Query { return leaf("match", field, text) }

// MatchPhrase matches the words of phrase in order.
func MatchPhrase(field, phrase string) Query { return leaf("match_phrase", field, phrase) }

// MultiMatch matches text against several fields, keeping the best score.
func MultiMatch(text string, fields ...string) Query {
	fs := make([]any, len(fields))
	for i, f := range fields {
		fs[i] = f
	}
	return rawQuery{"multi_match": map[string]any{"query": text, "fields": fs}}
}

// Term matches an exact value.
func Term(field string, value any) Query { return leaf("term", field, value) }

// Terms matches any of values exactly.
func Terms(field string, values ...any) Query {
	return leaf("terms", field, append([]any{}, values...))
}

// Prefix matches strings starting with prefix, case-insensitively.
func Prefix(field, prefix string) Query { return leaf("prefix", field, prefix) }

// Wildcard matches a glob pattern where * is any run and ? one character.
func Wildcard(field, pattern string) Query { return leaf("wildcard", field, pattern) }

// RangeQuery bounds a field. Methods return a modified copy.
type RangeQuery struct {
	field  string
	bounds map[string]any
}

// Range starts a range query on field.
func Range(field string) RangeQuery { return RangeQuery{field: field} }

func (r RangeQuery) with(op string, v any) RangeQuery {
	bounds := make(map[string]any, len(r.bounds)+1)
	for k, b := range r.bounds {
		bounds[k] = b
	}
	bounds[op] = v
	return RangeQuery{field: r.field, bounds: bounds}
}

// Gte sets an inclusive lower bound.
func (r RangeQuery) Gte(v any) RangeQuery { return r.with("gte", v) }

// Gt sets an exclusive lower bound.
func (r RangeQuery) Gt(v any) RangeQuery { return r.with("gt", v) }

// Lte sets an inclusive upper bound.
func (r RangeQuery) Lte(v any) RangeQuery { return r.with("lte", v) }

// Lt sets an exclusive upper bound.
func (r RangeQuery) Lt(v any) RangeQuery { return r.with("lt", v) }

// Source implements Query.
func (r RangeQuery) Source() map[string]any {
	bounds := make(map[string]any, len(r.bounds))
	for k, v := range r.bounds {
		bounds[k] = v
	}
	return map[string]any{"range": map[string]any{r.field: bounds}}
}

// BoolQuery combines clauses. Methods append and return the receiver.
type BoolQuery struct {
	must, should, mustNot, filter []Query
}

// Bool starts an empty bool query.
func Bool() *BoolQuery { return &BoolQuery{} }

// Must adds clauses that must match and contribute to the score.
func (b *BoolQuery) Must(qs ...Query) *BoolQuery {
	b.must = append(b.must, qs...)
	return b
}

// Should adds optional clauses that raise the score.
func (b *BoolQuery) Should(qs ...Query) *BoolQuery {
	b.should = append(b.should, qs...)
	return b
}

// MustNot adds clauses that exclude matching documents.
func (b *BoolQuery) MustNot(qs ...Query) *BoolQuery {
	b.mustNot = append(b.mustNot, qs...)
	return b
}

// Filter adds clauses that must match without scoring.
func (b *BoolQuery) Filter(qs ...Query) *BoolQuery {
	b.filter = append(b.filter, qs...)
	return b
}

// Source implements Query.
func (b *BoolQuery) Source() map[string]any {
	body := make(map[string]any)
	for key, qs := range map[string][]Query{
		"must": b.must, "should": b.should, "must_not": b.mustNot, "filter": b.filter,
	} {
		if len(qs) == 0 {
			continue
		}
		clauses := make([]any, len(qs))
		for i, q := range qs {
			clauses[i] = q.Source()
		}
		body[key] = clauses
	}
	return map[string]any{"bool": body}
}

// Body wraps q in a search request body.
func Body(q Query) map[string]any {
	return map[string]any{"query": q.Source()}
}
