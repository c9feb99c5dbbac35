package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esdex/internal/domain"
	domdoc "github.com/kailas-cloud/esdex/internal/domain/document"
)

// WriteMode selects how PutDocument treats an existing document.
type WriteMode int

const (
	// Upsert replaces an existing document or inserts a new one.
	Upsert WriteMode = iota
	// CreateOnly fails with ErrDocumentAlreadyExists if the id is taken.
	CreateOnly
	// Merge overlays top-level keys on an existing document, or inserts.
	Merge
)

// PutDocument writes one document under the given mode. It reports whether
// the id was new to the index. Stored documents are normalized copies, never
// aliased by the caller.
func (c *Catalog) PutDocument(
	ctx context.Context, indexName, id string, doc any, mode WriteMode,
) (created bool, err error) {
	if id == "" {
		return false, domain.InvalidRequest("document id is required")
	}
	normalized, err := domdoc.Normalize(doc)
	if err != nil {
		return false, domain.InvalidRequest("document [%s]: %v", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.indices[indexName]
	if !ok {
		return false, domain.IndexNotFound(indexName)
	}
	existing, exists := e.docs[id]
	switch {
	case mode == CreateOnly && exists:
		c.logger.Warn("Rejected create of existing document",
			zap.String("index", indexName), zap.String("id", id))
		return false, fmt.Errorf("document [%s] in index [%s]: %w", id, indexName, domain.ErrDocumentAlreadyExists)
	case mode == Merge && exists:
		normalized = domdoc.Merge(existing, normalized)
	}

	if err := c.persist(ctx, func(ctx context.Context, s Persistence) error {
		return s.StoreDocument(ctx, indexName, id, normalized)
	}); err != nil {
		return false, fmt.Errorf("store document [%s]: %w", id, err)
	}

	e.docs[id] = normalized
	if !exists {
		c.docs++
		c.updateGaugesLocked()
	}
	c.logger.Debug("Document stored",
		zap.String("index", indexName), zap.String("id", id), zap.Bool("created", !exists))
	return !exists, nil
}

// IndexDocument upserts a document. An empty id gets a generated one.
func (c *Catalog) IndexDocument(ctx context.Context, indexName, id string, doc any) (string, bool, error) {
	if id == "" {
		id = c.newID()
	}
	created, err := c.PutDocument(ctx, indexName, id, doc, Upsert)
	if err != nil {
		return "", false, err
	}
	return id, created, nil
}

// CreateDocument stores a document under a generated unique id.
func (c *Catalog) CreateDocument(ctx context.Context, indexName string, doc any) (string, error) {
	id, _, err := c.IndexDocument(ctx, indexName, c.newID(), doc)
	return id, err
}

// GetDocument returns a stored document. The value is shared and must not
// be modified.
func (c *Catalog) GetDocument(_ context.Context, indexName, id string) (any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.indices[indexName]
	if !ok {
		return nil, domain.IndexNotFound(indexName)
	}
	doc, ok := e.docs[id]
	if !ok {
		return nil, domain.DocumentNotFound(id)
	}
	return doc, nil
}

// DeleteDocument removes one document.
func (c *Catalog) DeleteDocument(ctx context.Context, indexName, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.indices[indexName]
	if !ok {
		return domain.IndexNotFound(indexName)
	}
	if _, ok := e.docs[id]; !ok {
		return domain.DocumentNotFound(id)
	}

	if err := c.persist(ctx, func(ctx context.Context, s Persistence) error {
		return s.DeleteDocument(ctx, indexName, id)
	}); err != nil {
		return fmt.Errorf("delete document [%s]: %w", id, err)
	}

	delete(e.docs, id)
	c.docs--
	c.updateGaugesLocked()
	c.logger.Debug("Document deleted", zap.String("index", indexName), zap.String("id", id))
	return nil
}

// DocumentCount returns the number of documents in an index.
func (c *Catalog) DocumentCount(indexName string) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.indices[indexName]
	if !ok {
		return 0, domain.IndexNotFound(indexName)
	}
	return len(e.docs), nil
}

// Scan calls fn for every document of the named indices while holding the
// read lock, so fn must not call back into the catalog. Stored documents are
// replaced, never modified in place, so fn may keep doc for reading. An
// unknown index fails before fn runs.
func (c *Catalog) Scan(names []string, fn func(indexName, id string, doc any)) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, name := range names {
		if _, ok := c.indices[name]; !ok {
			return domain.IndexNotFound(name)
		}
	}
	for _, name := range names {
		for id, doc := range c.indices[name].docs {
			fn(name, id, doc)
		}
	}
	return nil
}
