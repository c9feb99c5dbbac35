// Package storage is the single entry point over the catalog, search, bulk
// and cluster services. The HTTP layer talks only to Storage.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	dombulk "github.com/kailas-cloud/esdex/internal/domain/bulk"
	"github.com/kailas-cloud/esdex/internal/domain/search/query"
	"github.com/kailas-cloud/esdex/internal/domain/search/request"
	"github.com/kailas-cloud/esdex/internal/repository/persistence"
	"github.com/kailas-cloud/esdex/internal/usecase/bulk"
	"github.com/kailas-cloud/esdex/internal/usecase/catalog"
	"github.com/kailas-cloud/esdex/internal/usecase/cluster"
	"github.com/kailas-cloud/esdex/internal/usecase/search"
	"github.com/kailas-cloud/esdex/internal/workpool"
)

// Defaults for Options.
const (
	DefaultNodeName    = "esdex-node"
	DefaultClusterName = "esdex"
	DefaultVersion     = "8.11.0"
)

// Options tunes the facade.
type Options struct {
	IOWorkers         int // backend worker slots, <= 0 uses GOMAXPROCS
	Limits            request.Limits
	MaxBulkActions    int
	SearchParallelism int
	NodeName          string
	ClusterName       string
	Version           string // Elasticsearch version reported to clients
}

func (o *Options) applyDefaults() {
	if o.NodeName == "" {
		o.NodeName = DefaultNodeName
	}
	if o.ClusterName == "" {
		o.ClusterName = DefaultClusterName
	}
	if o.Version == "" {
		o.Version = DefaultVersion
	}
	if o.Limits.DefaultSize <= 0 {
		o.Limits.DefaultSize = request.DefaultSize
	}
	if o.Limits.MaxResultWindow <= 0 {
		o.Limits.MaxResultWindow = request.DefaultMaxResultWindow
	}
}

// Storage composes the engine. Catalog operations (index and document CRUD,
// aliases, refresh, load) are promoted from the embedded Catalog.
type Storage struct {
	*catalog.Catalog
	search  *search.Service
	bulk    *bulk.Service
	cluster *cluster.Service
	limits  request.Limits
}

// New builds the engine over a persistence backend. db is pinged by the
// liveness check and may be nil.
func New(p catalog.Persistence, db cluster.DBPinger, opts Options, logger *zap.Logger) *Storage {
	opts.applyDefaults()
	cat := catalog.New(p, workpool.New(opts.IOWorkers), logger.Named("catalog"))
	return &Storage{
		Catalog: cat,
		search:  search.New(cat, logger.Named("search")).WithParallelism(opts.SearchParallelism),
		bulk:    bulk.New(cat, cat, logger.Named("bulk")).WithMaxActions(opts.MaxBulkActions),
		cluster: cluster.New(db, cat, opts.NodeName, opts.ClusterName, opts.Version),
		limits:  opts.Limits,
	}
}

// NewInMemory builds an engine that persists nothing.
func NewInMemory(opts Options, logger *zap.Logger) *Storage {
	return New(persistence.Nop{}, nil, opts, logger)
}

// Limits returns the search page limits.
func (s *Storage) Limits() request.Limits { return s.limits }

// MaxBulkActions returns the per-request bulk action limit.
func (s *Storage) MaxBulkActions() int { return s.bulk.MaxActions() }

// Search parses an Elasticsearch search body and runs it against target.
func (s *Storage) Search(ctx context.Context, target string, body map[string]any) (search.Result, error) {
	req, err := request.Parse(body, s.limits)
	if err != nil {
		return search.Result{}, fmt.Errorf("parse search request: %w", err)
	}
	return s.search.Search(ctx, target, req)
}

// SearchRequest runs an already parsed request.
func (s *Storage) SearchRequest(ctx context.Context, target string, req request.Request) (search.Result, error) {
	return s.search.Search(ctx, target, req)
}

// MultiSearch runs several searches concurrently.
func (s *Storage) MultiSearch(ctx context.Context, items []search.Item) []search.Outcome {
	return s.search.SearchMany(ctx, items)
}

// Count returns the number of documents in target matching the body's query.
func (s *Storage) Count(ctx context.Context, target string, body map[string]any) (int, error) {
	q, err := query.Parse(body["query"])
	if err != nil {
		return 0, fmt.Errorf("parse count query: %w", err)
	}
	return s.search.Count(ctx, target, q)
}

// Bulk applies actions with per-item error isolation.
func (s *Storage) Bulk(ctx context.Context, actions []dombulk.Action, refresh bool) (dombulk.Response, error) {
	return s.bulk.Execute(ctx, actions, refresh)
}

// Info returns the node identity.
func (s *Storage) Info() cluster.Info { return s.cluster.Info() }

// Check runs liveness checks.
func (s *Storage) Check(ctx context.Context) cluster.Report { return s.cluster.Check(ctx) }

// ClusterHealth returns the cluster health.
func (s *Storage) ClusterHealth() cluster.Health { return s.cluster.Health() }

// ClusterStats returns cluster totals.
func (s *Storage) ClusterStats() cluster.Stats { return s.cluster.Stats() }
