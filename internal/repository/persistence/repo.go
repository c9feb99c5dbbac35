// Package persistence stores index metadata and documents in a flat
// key-value backend.
//
// Key layout, relative to the configured prefix:
//
//	index:<name>          index metadata (JSON)
//	doc:<index>:<id>      document source (JSON)
//
// Index names never contain ':', so a document prefix scan for one index
// never reaches another.
package persistence

import (
	"context"

	"github.com/kailas-cloud/esdex/internal/db"
	"github.com/kailas-cloud/esdex/internal/domain/index"
)

// Key prefixes.
const (
	indexKeyPrefix = "index:"
	docKeyPrefix   = "doc:"
)

// loadBatch bounds the number of keys fetched per GetMulti call.
const loadBatch = 500

// Adapter is the persistence surface consumed by the catalog.
type Adapter interface {
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

// store is the consumer interface for the key-value backend (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	DelMulti(ctx context.Context, keys []string) error
	ScanPrefix(ctx context.Context, prefix string) ([]string, error)
	Flush(ctx context.Context) error
}

// Compile-time check: Repo implements Adapter.
var _ Adapter = (*Repo)(nil)

// Compile-time check: every db.Store satisfies the consumer interface.
var _ store = (db.Store)(nil)

// Repo implements Adapter over a key-value store.
type Repo struct {
	store  store
	prefix string
}

// New creates a repository. keyPrefix namespaces every key, e.g. "esdex:".
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

// Flush makes acknowledged writes durable.
func (r *Repo) Flush(ctx context.Context) error {
	if err := r.store.Flush(ctx); err != nil {
		return storageErr("flush", "", err)
	}
	return nil
}

func (r *Repo) indexKey(name string) string {
	return r.prefix + indexKeyPrefix + name
}

func (r *Repo) docPrefix(indexName string) string {
	return r.prefix + docKeyPrefix + indexName + ":"
}

func (r *Repo) docKey(indexName, id string) string {
	return r.docPrefix(indexName) + id
}
