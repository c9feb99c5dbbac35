// Package catalog owns every index and its documents in memory, kept in
// lock-step with a Persistence backend.
//
// One reader-writer lock covers the whole index map. Reads share it; every
// mutation holds it exclusively, including the backend write, and changes
// memory only after that write succeeded.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esdex/internal/domain"
	"github.com/kailas-cloud/esdex/internal/domain/index"
	"github.com/kailas-cloud/esdex/internal/metrics"
	"github.com/kailas-cloud/esdex/internal/workpool"
)

type entry struct {
	idx  index.Index
	docs map[string]any
}

// Catalog is the in-memory index map.
type Catalog struct {
	mu      sync.RWMutex
	indices map[string]*entry
	docs    int

	store  Persistence
	pool   *workpool.Pool
	logger *zap.Logger
	newID  func() string
}

// New creates an empty catalog. Backend calls run on pool.
func New(store Persistence, pool *workpool.Pool, logger *zap.Logger) *Catalog {
	return &Catalog{
		indices: make(map[string]*entry),
		store:   store,
		pool:    pool,
		logger:  logger,
		newID:   uuid.NewString,
	}
}

// persist runs a backend call on the worker pool.
func (c *Catalog) persist(ctx context.Context, fn func(ctx context.Context, s Persistence) error) error {
	return c.pool.Do(ctx, func(ctx context.Context) error {
		return fn(ctx, c.store)
	})
}

// CreateIndex validates, persists and registers a new empty index.
func (c *Catalog) CreateIndex(ctx context.Context, name string, settings, mappings any) (index.Index, error) {
	idx, err := index.New(name, settings, mappings)
	if err != nil {
		return index.Index{}, fmt.Errorf("create index: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.indices[name]; ok {
		return index.Index{}, fmt.Errorf("index [%s]: %w", name, domain.ErrIndexAlreadyExists)
	}
	if c.aliasTargetsLocked(name) != nil {
		return index.Index{}, domain.InvalidRequest("index name [%s] is already used as an alias", name)
	}

	if err := c.persist(ctx, func(ctx context.Context, s Persistence) error {
		return s.StoreIndexMetadata(ctx, name, idx.Metadata())
	}); err != nil {
		return index.Index{}, fmt.Errorf("create index [%s]: %w", name, err)
	}

	c.indices[name] = &entry{idx: idx, docs: make(map[string]any)}
	c.updateGaugesLocked()
	c.logger.Info("Index created", zap.String("index", name))
	return idx, nil
}

// DeleteIndex removes an index with all its documents.
func (c *Catalog) DeleteIndex(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.indices[name]; !ok {
		return domain.IndexNotFound(name)
	}
	return c.deleteLocked(ctx, name)
}

// DeleteAllIndices removes every index. It stops at the first backend
// failure; indices deleted before it stay deleted.
func (c *Catalog) DeleteAllIndices(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, name := range c.namesLocked() {
		if err := c.deleteLocked(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) deleteLocked(ctx context.Context, name string) error {
	if err := c.persist(ctx, func(ctx context.Context, s Persistence) error {
		return s.DeleteIndexMetadata(ctx, name)
	}); err != nil {
		return fmt.Errorf("delete index [%s]: %w", name, err)
	}
	c.docs -= len(c.indices[name].docs)
	delete(c.indices, name)
	c.updateGaugesLocked()
	c.logger.Info("Index deleted", zap.String("index", name))
	return nil
}

// GetIndex returns the metadata of one index.
func (c *Catalog) GetIndex(_ context.Context, name string) (index.Index, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.indices[name]
	if !ok {
		return index.Index{}, domain.IndexNotFound(name)
	}
	return e.idx, nil
}

// IndexExists reports whether an index is registered.
func (c *Catalog) IndexExists(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.indices[name]
	return ok
}

// ListIndices returns every index name, sorted.
func (c *Catalog) ListIndices() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.namesLocked()
}

func (c *Catalog) namesLocked() []string {
	names := make([]string, 0, len(c.indices))
	for name := range c.indices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UpdateMapping merges field properties into an index's mappings.
func (c *Catalog) UpdateMapping(ctx context.Context, name string, properties any) (index.Index, error) {
	return c.updateIndex(ctx, name, "update mapping", func(idx index.Index) (index.Index, error) {
		return idx.WithMappings(properties), nil
	})
}

// UpdateSettings merges keys into an index's settings.
func (c *Catalog) UpdateSettings(ctx context.Context, name string, settings any) (index.Index, error) {
	return c.updateIndex(ctx, name, "update settings", func(idx index.Index) (index.Index, error) {
		return idx.WithSettings(settings), nil
	})
}

// updateIndex persists the result of fn, then swaps it in. fn runs under
// the write lock and may reject the change.
func (c *Catalog) updateIndex(
	ctx context.Context, name, op string, fn func(index.Index) (index.Index, error),
) (index.Index, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.indices[name]
	if !ok {
		return index.Index{}, domain.IndexNotFound(name)
	}
	updated, err := fn(e.idx)
	if err != nil {
		return index.Index{}, err
	}
	if err := c.persist(ctx, func(ctx context.Context, s Persistence) error {
		return s.StoreIndexMetadata(ctx, name, updated.Metadata())
	}); err != nil {
		return index.Index{}, fmt.Errorf("%s [%s]: %w", op, name, err)
	}
	e.idx = updated
	c.logger.Info("Index metadata updated", zap.String("index", name), zap.String("op", op))
	return updated, nil
}

func (c *Catalog) updateGaugesLocked() {
	metrics.IndicesGauge.Set(float64(len(c.indices)))
	metrics.DocumentsGauge.Set(float64(c.docs))
}
