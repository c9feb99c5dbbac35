package esdex

import (
	"context"
	"fmt"
	"time"

	dombulk "github.com/kailas-cloud/esdex/internal/domain/bulk"
	searchuc "github.com/kailas-cloud/esdex/internal/usecase/search"
)

// SearchHit is one ranked document.
type SearchHit struct {
	Index     string
	ID        string
	Score     float64
	Source    any
	Highlight map[string][]string
}

// SearchResult is one page of hits.
type SearchResult struct {
	Took     time.Duration
	Total    int
	MaxScore *float64 // nil for an empty page
	Hits     []SearchHit
}

// Search runs an Elasticsearch search body against target, which may
// name indices, aliases, globs or _all, comma separated.
func (c *Client) Search(ctx context.Context, target string, body map[string]any) (*SearchResult, error) {
	res, err := c.storage.Search(ctx, target, body)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromResult(res), nil
}

func fromResult(res searchuc.Result) *SearchResult {
	out := &SearchResult{Took: res.Took, Total: res.Total, Hits: make([]SearchHit, len(res.Hits))}
	if res.HasMaxScore {
		m := res.MaxScore
		out.MaxScore = &m
	}
	for i, h := range res.Hits {
		out.Hits[i] = SearchHit{Index: h.Index, ID: h.ID, Score: h.Score, Source: h.Source, Highlight: h.Highlight}
	}
	return out
}

// Count returns the number of documents in target matching q. A nil q
// counts everything.
func (c *Client) Count(ctx context.Context, target string, q Query) (int, error) {
	var body map[string]any
	if q != nil {
		body = Body(q)
	}
	n, err := c.storage.Count(ctx, target, body)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// BulkOp is a bulk action type.
type BulkOp string

// Bulk action types.
const (
	BulkIndex  BulkOp = BulkOp(dombulk.OpIndex)
	BulkCreate BulkOp = BulkOp(dombulk.OpCreate)
	BulkUpdate BulkOp = BulkOp(dombulk.OpUpdate)
	BulkDelete BulkOp = BulkOp(dombulk.OpDelete)
)

// BulkAction is one operation of a Bulk call. Doc is ignored for deletes
// and is the partial document for updates.
type BulkAction struct {
	Op    BulkOp
	Index string
	ID    string
	Doc   any
}

// BulkItem is the outcome of one BulkAction.
type BulkItem struct {
	Op     BulkOp
	Index  string
	ID     string
	Status int
	Result string // created, updated or deleted
	Err    error
}

// Bulk applies actions in order. Failures are reported per item; the
// returned error is set only when the whole request is rejected.
func (c *Client) Bulk(ctx context.Context, actions []BulkAction, refresh bool) ([]BulkItem, error) {
	in := make([]dombulk.Action, len(actions))
	for i, a := range actions {
		op, err := dombulk.ParseOp(string(a.Op))
		if err != nil {
			return nil, fmt.Errorf("bulk: %w: %w", ErrInvalidRequest, err)
		}
		in[i] = dombulk.Action{Op: op, Index: a.Index, ID: a.ID, Document: a.Doc}
	}

	resp, err := c.storage.Bulk(ctx, in, refresh)
	if err != nil {
		return nil, fmt.Errorf("bulk: %w", err)
	}
	out := make([]BulkItem, len(resp.Items))
	for i, r := range resp.Items {
		out[i] = BulkItem{
			Op:     BulkOp(r.Op()),
			Index:  r.Index(),
			ID:     r.ID(),
			Status: r.Status(),
			Result: r.Result(),
			Err:    r.Err(),
		}
	}
	return out, nil
}
