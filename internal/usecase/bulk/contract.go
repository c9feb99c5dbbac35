package bulk

import (
	"context"

	"github.com/kailas-cloud/esdex/internal/usecase/catalog"
)

// DocumentWriter applies single-document mutations.
type DocumentWriter interface {
	PutDocument(ctx context.Context, indexName, id string, doc any, mode catalog.WriteMode) (bool, error)
	DeleteDocument(ctx context.Context, indexName, id string) error
}

// Refresher flushes the backend on behalf of indices.
type Refresher interface {
	Refresh(ctx context.Context, names ...string) ([]string, error)
}
