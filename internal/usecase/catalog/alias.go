package catalog

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esdex/internal/domain"
	"github.com/kailas-cloud/esdex/internal/domain/index"
)

// PutAlias points alias at an index. Re-adding an existing alias is a no-op.
func (c *Catalog) PutAlias(ctx context.Context, indexName, alias string) error {
	if err := index.ValidateName(alias); err != nil {
		return fmt.Errorf("put alias: %w", err)
	}

	_, err := c.updateIndex(ctx, indexName, "put alias", func(idx index.Index) (index.Index, error) {
		if _, clash := c.indices[alias]; clash {
			return idx, domain.InvalidRequest("alias [%s] clashes with an existing index", alias)
		}
		return idx.WithAlias(alias), nil
	})
	if err != nil {
		return err
	}
	c.logger.Info("Alias added", zap.String("index", indexName), zap.String("alias", alias))
	return nil
}

// DeleteAlias removes alias from an index.
func (c *Catalog) DeleteAlias(ctx context.Context, indexName, alias string) error {
	_, err := c.updateIndex(ctx, indexName, "delete alias", func(idx index.Index) (index.Index, error) {
		if !idx.HasAlias(alias) {
			return idx, domain.AliasNotFound(alias)
		}
		return idx.WithoutAlias(alias), nil
	})
	return err
}

// Aliases returns the aliases of every index, keyed by index name. Indices
// without aliases map to an empty slice.
func (c *Catalog) Aliases() map[string][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string][]string, len(c.indices))
	for name, e := range c.indices {
		out[name] = append([]string{}, e.idx.Aliases()...)
	}
	return out
}

// aliasTargetsLocked returns the sorted indices alias points at, nil if none.
func (c *Catalog) aliasTargetsLocked(alias string) []string {
	var out []string
	for name, e := range c.indices {
		if e.idx.HasAlias(alias) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
