package catalog

import (
	"context"

	"github.com/kailas-cloud/esdex/internal/domain/index"
)

// Persistence defines the durable storage contract for indices and documents.
type Persistence interface {
	StoreIndexMetadata(ctx context.Context, name string, meta index.Metadata) error
	LoadIndexMetadata(ctx context.Context, name string) (index.Metadata, bool, error)
	ListIndices(ctx context.Context) ([]string, error)
	DeleteIndexMetadata(ctx context.Context, name string) error
	StoreDocument(ctx context.Context, indexName, id string, doc any) error
	LoadDocument(ctx context.Context, indexName, id string) (any, bool, error)
	DeleteDocument(ctx context.Context, indexName, id string) error
	LoadAllDocuments(ctx context.Context, indexName string) (map[string]any, error)
	Flush(ctx context.Context) error
}
