package persistence

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esdex/internal/domain/index"
	"github.com/kailas-cloud/esdex/internal/metrics"
)

// Compile-time check: Instrumented implements Adapter.
var _ Adapter = (*Instrumented)(nil)

// Instrumented wraps an Adapter with latency/outcome metrics and error logging.
type Instrumented struct {
	inner  Adapter
	logger *zap.Logger
}

// NewInstrumented wraps inner.
func NewInstrumented(inner Adapter, logger *zap.Logger) *Instrumented {
	return &Instrumented{inner: inner, logger: logger}
}

func (a *Instrumented) observe(op string, start time.Time, err error, fields ...zap.Field) {
	metrics.PersistenceOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	metrics.PersistenceOpsTotal.WithLabelValues(op, metrics.Outcome(err)).Inc()
	if err != nil {
		a.logger.Error("Persistence operation failed",
			append(fields, zap.String("op", op), zap.Error(err))...)
	}
}

// StoreIndexMetadata delegates and records the call.
func (a *Instrumented) StoreIndexMetadata(ctx context.Context, name string, meta index.Metadata) error {
	start := time.Now()
	err := a.inner.StoreIndexMetadata(ctx, name, meta)
	a.observe("store_index_metadata", start, err, zap.String("index", name))
	return err
}

// LoadIndexMetadata delegates and records the call.
func (a *Instrumented) LoadIndexMetadata(ctx context.Context, name string) (index.Metadata, bool, error) {
	start := time.Now()
	meta, ok, err := a.inner.LoadIndexMetadata(ctx, name)
	a.observe("load_index_metadata", start, err, zap.String("index", name))
	return meta, ok, err
}

// ListIndices delegates and records the call.
func (a *Instrumented) ListIndices(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := a.inner.ListIndices(ctx)
	a.observe("list_indices", start, err)
	return names, err
}

// DeleteIndexMetadata delegates and records the call.
func (a *Instrumented) DeleteIndexMetadata(ctx context.Context, name string) error {
	start := time.Now()
	err := a.inner.DeleteIndexMetadata(ctx, name)
	a.observe("delete_index_metadata", start, err, zap.String("index", name))
	return err
}

// StoreDocument delegates and records the call.
func (a *Instrumented) StoreDocument(ctx context.Context, indexName, id string, doc any) error {
	start := time.Now()
	err := a.inner.StoreDocument(ctx, indexName, id, doc)
	a.observe("store_document", start, err, zap.String("index", indexName), zap.String("id", id))
	return err
}

// LoadDocument delegates and records the call.
func (a *Instrumented) LoadDocument(ctx context.Context, indexName, id string) (any, bool, error) {
	start := time.Now()
	doc, ok, err := a.inner.LoadDocument(ctx, indexName, id)
	a.observe("load_document", start, err, zap.String("index", indexName), zap.String("id", id))
	return doc, ok, err
}

// DeleteDocument delegates and records the call.
func (a *Instrumented) DeleteDocument(ctx context.Context, indexName, id string) error {
	start := time.Now()
	err := a.inner.DeleteDocument(ctx, indexName, id)
	a.observe("delete_document", start, err, zap.String("index", indexName), zap.String("id", id))
	return err
}

// LoadAllDocuments delegates and records the call.
func (a *Instrumented) LoadAllDocuments(ctx context.Context, indexName string) (map[string]any, error) {
	start := time.Now()
	docs, err := a.inner.LoadAllDocuments(ctx, indexName)
	a.observe("load_all_documents", start, err, zap.String("index", indexName))
	if err == nil {
		a.logger.Debug("Loaded documents", zap.String("index", indexName), zap.Int("count", len(docs)))
	}
	return docs, err
}

// Flush delegates and records the call.
func (a *Instrumented) Flush(ctx context.Context) error {
	start := time.Now()
	err := a.inner.Flush(ctx)
	a.observe("flush", start, err)
	return err
}
