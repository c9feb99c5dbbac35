// Package search runs queries against the catalog and shapes the hit list.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/esdex/internal/domain/search/highlight"
	"github.com/kailas-cloud/esdex/internal/domain/search/query"
	"github.com/kailas-cloud/esdex/internal/domain/search/request"
	"github.com/kailas-cloud/esdex/internal/domain/search/result"
	"github.com/kailas-cloud/esdex/internal/domain/search/score"
	"github.com/kailas-cloud/esdex/internal/metrics"
)

// DefaultParallelism bounds concurrent searches in SearchMany.
const DefaultParallelism = 4

// Result is one page of a search.
type Result struct {
	Took     time.Duration
	Total    int
	MaxScore float64
	// HasMaxScore is false for an empty page.
	HasMaxScore bool
	Hits        []result.Hit
}

// Item is one search of a multi-search.
type Item struct {
	Target  string
	Request request.Request
}

// Outcome is the result or failure of one Item.
type Outcome struct {
	Result Result
	Err    error
}

// Service executes searches.
type Service struct {
	catalog     Catalog
	logger      *zap.Logger
	parallelism int
}

// New creates a search service.
func New(catalog Catalog, logger *zap.Logger) *Service {
	return &Service{catalog: catalog, logger: logger, parallelism: DefaultParallelism}
}

// WithParallelism configures the SearchMany concurrency.
func (s *Service) WithParallelism(n int) *Service {
	if n > 0 {
		s.parallelism = n
	}
	return s
}

// Search scores every document of the target indices, ranks the matches,
// applies the sort, and returns the requested page with source filtering
// and highlighting applied.
func (s *Service) Search(_ context.Context, target string, req request.Request) (Result, error) {
	start := time.Now()

	hits, err := s.collect(target, req.Query())
	if err != nil {
		return Result{}, err
	}

	result.Rank(hits)
	if spec := req.Sort(); len(spec) > 0 {
		result.Sort(hits, spec)
	}

	page := result.Paginate(hits, req.From(), req.Size())
	shaped := make([]result.Hit, len(page))
	var terms []string
	if req.Highlight() != nil {
		terms = highlight.Terms(req.Query())
	}
	filter := req.Source()
	for i, h := range page {
		if hl := req.Highlight(); hl != nil {
			h.Highlight = hl.Document(h.Source, terms)
		}
		h.Source = filter.Apply(h.Source)
		shaped[i] = h
	}

	out := Result{Total: len(hits), Hits: shaped}
	out.MaxScore, out.HasMaxScore = result.MaxScore(shaped)
	out.Took = time.Since(start)

	metrics.SearchDuration.WithLabelValues("search").Observe(out.Took.Seconds())
	metrics.SearchHits.Observe(float64(out.Total))
	s.logger.Debug("Search completed",
		zap.String("target", target),
		zap.Int("total", out.Total),
		zap.Int("returned", len(shaped)),
		zap.Duration("took", out.Took),
	)
	return out, nil
}

// SearchMany runs independent searches concurrently. Each outcome carries
// its own error; one failing search does not affect the others.
func (s *Service) SearchMany(ctx context.Context, items []Item) []Outcome {
	out := make([]Outcome, len(items))
	var g errgroup.Group
	g.SetLimit(s.parallelism)
	for i, item := range items {
		g.Go(func() error {
			res, err := s.Search(ctx, item.Target, item.Request)
			out[i] = Outcome{Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Count returns the number of documents in the target indices matching q.
func (s *Service) Count(_ context.Context, target string, q query.Query) (int, error) {
	start := time.Now()
	if q == nil {
		q = query.MatchAll{}
	}
	names, err := s.catalog.Resolve(target)
	if err != nil {
		return 0, fmt.Errorf("resolve [%s]: %w", target, err)
	}
	n := 0
	if err := s.catalog.Scan(names, func(_, _ string, doc any) {
		if score.Document(doc, q) > 0 {
			n++
		}
	}); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	metrics.SearchDuration.WithLabelValues("count").Observe(time.Since(start).Seconds())
	return n, nil
}

// collect returns every document with a positive score.
func (s *Service) collect(target string, q query.Query) ([]result.Hit, error) {
	names, err := s.catalog.Resolve(target)
	if err != nil {
		return nil, fmt.Errorf("resolve [%s]: %w", target, err)
	}
	var hits []result.Hit
	if err := s.catalog.Scan(names, func(indexName, id string, doc any) {
		if sc := score.Document(doc, q); sc > 0 {
			hits = append(hits, result.Hit{Index: indexName, ID: id, Score: sc, Source: doc})
		}
	}); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return hits, nil
}
