package esdex

import (
	"context"
	"fmt"
)

// Order is a sort direction.
type Order string

// Sort directions.
const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Hit is a typed search result.
type Hit[T any] struct {
	ID        string
	Score     float64
	Item      T
	Highlight map[string][]string
}

// SearchBuilder is a fluent builder for typed search queries.
type SearchBuilder[T any] struct {
	idx *TypedIndex[T]

	query     Query
	from      *int
	size      *int
	sort      []any
	highlight []string
}

// Query sets the query. Default: match_all.
func (b *SearchBuilder[T]) Query(q Query) *SearchBuilder[T] {
	b.query = q
	return b
}

// From sets the number of hits to skip.
func (b *SearchBuilder[T]) From(n int) *SearchBuilder[T] {
	b.from = &n
	return b
}

// Size sets the page size.
func (b *SearchBuilder[T]) Size(n int) *SearchBuilder[T] {
	b.size = &n
	return b
}

// SortBy appends a sort key. Use "_score" for relevance.
func (b *SearchBuilder[T]) SortBy(field string, order Order) *SearchBuilder[T] {
	b.sort = append(b.sort, map[string]any{field: map[string]any{"order": string(order)}})
	return b
}

// Highlight requests <em> markup for the given fields.
func (b *SearchBuilder[T]) Highlight(fields ...string) *SearchBuilder[T] {
	b.highlight = append(b.highlight, fields...)
	return b
}

// Body renders the Elasticsearch request body.
func (b *SearchBuilder[T]) Body() map[string]any {
	body := map[string]any{}
	if b.query != nil {
		body["query"] = b.query.Source()
	}
	if b.from != nil {
		body["from"] = float64(*b.from)
	}
	if b.size != nil {
		body["size"] = float64(*b.size)
	}
	if len(b.sort) > 0 {
		body["sort"] = b.sort
	}
	if len(b.highlight) > 0 {
		fields := make(map[string]any, len(b.highlight))
		for _, f := range b.highlight {
			fields[f] = map[string]any{}
		}
		body["highlight"] = map[string]any{"fields": fields}
	}
	return body
}

// Do executes the search and decodes every hit into T.
func (b *SearchBuilder[T]) Do(ctx context.Context) ([]Hit[T], error) {
	res, err := b.idx.client.Search(ctx, b.idx.name, b.Body())
	if err != nil {
		return nil, err
	}
	hits := make([]Hit[T], len(res.Hits))
	for i, h := range res.Hits {
		item, err := fromDocument[T](h.Source)
		if err != nil {
			return nil, fmt.Errorf("hit %q: %w", h.ID, err)
		}
		hits[i] = Hit[T]{ID: h.ID, Score: h.Score, Item: item, Highlight: h.Highlight}
	}
	return hits, nil
}
