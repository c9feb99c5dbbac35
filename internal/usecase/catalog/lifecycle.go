package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/esdex/internal/domain"
	"github.com/kailas-cloud/esdex/internal/domain/index"
)

// IndexStats describes one index.
type IndexStats struct {
	Name      string
	Documents int
	Aliases   []string
	CreatedAt int64
}

// Stats summarizes the catalog.
type Stats struct {
	Indices   []IndexStats // sorted by name
	Documents int
}

// Load restores every persisted index with its documents, replacing the
// in-memory state. Indices load in parallel, one worker slot each.
func (c *Catalog) Load(ctx context.Context) error {
	var names []string
	if err := c.persist(ctx, func(ctx context.Context, s Persistence) error {
		var err error
		names, err = s.ListIndices(ctx)
		return err
	}); err != nil {
		return fmt.Errorf("list indices: %w", err)
	}

	entries := make([]*entry, len(names))
	g, gctx := errgroup.WithContext(ctx)
	if n := c.pool.Size(); n > 0 {
		g.SetLimit(n)
	}
	for i, name := range names {
		g.Go(func() error {
			e, err := c.loadIndex(gctx, name)
			if err != nil {
				return fmt.Errorf("load index [%s]: %w", name, err)
			}
			entries[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.indices = make(map[string]*entry, len(entries))
	c.docs = 0
	for i, e := range entries {
		if e == nil {
			continue
		}
		c.indices[names[i]] = e
		c.docs += len(e.docs)
	}
	c.updateGaugesLocked()
	c.logger.Info("Catalog loaded",
		zap.Int("indices", len(c.indices)), zap.Int("documents", c.docs))
	return nil
}

// loadIndex returns nil when the metadata vanished after listing.
func (c *Catalog) loadIndex(ctx context.Context, name string) (*entry, error) {
	var (
		meta  index.Metadata
		found bool
		docs  map[string]any
	)
	err := c.persist(ctx, func(ctx context.Context, s Persistence) error {
		var err error
		meta, found, err = s.LoadIndexMetadata(ctx, name)
		if err != nil || !found {
			return err
		}
		docs, err = s.LoadAllDocuments(ctx, name)
		return err
	})
	if err != nil || !found {
		return nil, err
	}
	if docs == nil {
		docs = make(map[string]any)
	}
	return &entry{idx: index.Reconstruct(name, meta), docs: docs}, nil
}

// Flush makes every acknowledged write durable.
func (c *Catalog) Flush(ctx context.Context) error {
	if err := c.persist(ctx, func(ctx context.Context, s Persistence) error {
		return s.Flush(ctx)
	}); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Refresh flushes the backend on behalf of the named indices, or all of them
// when none are given, and returns the refreshed names. Writes are visible
// immediately, so refresh only affects durability.
func (c *Catalog) Refresh(ctx context.Context, names ...string) ([]string, error) {
	c.mu.RLock()
	if len(names) == 0 {
		names = c.namesLocked()
	}
	for _, name := range names {
		if _, ok := c.indices[name]; !ok {
			c.mu.RUnlock()
			return nil, domain.IndexNotFound(name)
		}
	}
	c.mu.RUnlock()

	if err := c.Flush(ctx); err != nil {
		return nil, err
	}
	for _, name := range names {
		c.logger.Debug("Index refreshed", zap.String("index", name))
	}
	return names, nil
}

// Stats returns per-index document counts.
func (c *Catalog) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := Stats{Indices: make([]IndexStats, 0, len(c.indices)), Documents: c.docs}
	for _, name := range c.namesLocked() {
		e := c.indices[name]
		out.Indices = append(out.Indices, IndexStats{
			Name:      name,
			Documents: len(e.docs),
			Aliases:   e.idx.Aliases(),
			CreatedAt: e.idx.CreatedAt(),
		})
	}
	return out
}
