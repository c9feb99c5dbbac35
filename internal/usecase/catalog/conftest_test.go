package catalog

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esdex/internal/db/memory"
	"github.com/kailas-cloud/esdex/internal/domain/index"
	"github.com/kailas-cloud/esdex/internal/repository/persistence"
	"github.com/kailas-cloud/esdex/internal/workpool"
)

var errBackend = errors.New("backend down")

// failingStore wraps a Persistence and fails selected operations.
type failingStore struct {
	Persistence
	failStoreDoc  bool
	failDeleteDoc bool
	failMeta      bool
	failDeleteIdx bool
	failFlush     bool
	flushes       int
}

func (f *failingStore) StoreIndexMetadata(ctx context.Context, name string, meta index.Metadata) error {
	if f.failMeta {
		return errBackend
	}
	return f.Persistence.StoreIndexMetadata(ctx, name, meta)
}

func (f *failingStore) DeleteIndexMetadata(ctx context.Context, name string) error {
	if f.failDeleteIdx {
		return errBackend
	}
	return f.Persistence.DeleteIndexMetadata(ctx, name)
}

func (f *failingStore) StoreDocument(ctx context.Context, indexName, id string, doc any) error {
	if f.failStoreDoc {
		return errBackend
	}
	return f.Persistence.StoreDocument(ctx, indexName, id, doc)
}

func (f *failingStore) DeleteDocument(ctx context.Context, indexName, id string) error {
	if f.failDeleteDoc {
		return errBackend
	}
	return f.Persistence.DeleteDocument(ctx, indexName, id)
}

func (f *failingStore) Flush(ctx context.Context) error {
	f.flushes++
	if f.failFlush {
		return errBackend
	}
	return f.Persistence.Flush(ctx)
}

// newTestCatalog returns a catalog backed by an in-memory key-value store.
func newTestCatalog(t *testing.T) (*Catalog, *failingStore) {
	t.Helper()
	fs := &failingStore{Persistence: persistence.New(memory.NewStore(), "test:")}
	return New(fs, workpool.New(2), zap.NewNop()), fs
}

func mustCreateIndex(t *testing.T, c *Catalog, name string) {
	t.Helper()
	if _, err := c.CreateIndex(context.Background(), name, nil, nil); err != nil {
		t.Fatalf("create index %s: %v", name, err)
	}
}

func mustIndex(t *testing.T, c *Catalog, indexName, id string, doc any) {
	t.Helper()
	if _, _, err := c.IndexDocument(context.Background(), indexName, id, doc); err != nil {
		t.Fatalf("index %s/%s: %v", indexName, id, err)
	}
}
