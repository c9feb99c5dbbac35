package persistence

import (
	"context"

	"github.com/kailas-cloud/esdex/internal/domain/index"
)

// Compile-time check: Nop implements Adapter.
var _ Adapter = Nop{}

// Nop persists nothing. The catalog runs purely in memory with it.
type Nop struct{}

// StoreIndexMetadata does nothing.
func (Nop) StoreIndexMetadata(context.Context, string, index.Metadata) error { return nil }

// LoadIndexMetadata reports nothing stored.
func (Nop) LoadIndexMetadata(context.Context, string) (index.Metadata, bool, error) {
	return index.Metadata{}, false, nil
}

// ListIndices returns no indices.
func (Nop) ListIndices(context.Context) ([]string, error) { return nil, nil }

// DeleteIndexMetadata does nothing.
func (Nop) DeleteIndexMetadata(context.Context, string) error { return nil }

// StoreDocument does nothing.
func (Nop) StoreDocument(context.Context, string, string, any) error { return nil }

// LoadDocument reports nothing stored.
func (Nop) LoadDocument(context.Context, string, string) (any, bool, error) { return nil, false, nil }

// DeleteDocument does nothing.
func (Nop) DeleteDocument(context.Context, string, string) error { return nil }

// LoadAllDocuments returns no documents.
func (Nop) LoadAllDocuments(context.Context, string) (map[string]any, error) { return nil, nil }

// Flush does nothing.
func (Nop) Flush(context.Context) error { return nil }
