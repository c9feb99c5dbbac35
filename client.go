package esdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esdex/internal/db"
	dbMemory "github.com/kailas-cloud/esdex/internal/db/memory"
	dbRedis "github.com/kailas-cloud/esdex/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/esdex/internal/db/sqlite"
	"github.com/kailas-cloud/esdex/internal/domain/search/request"
	"github.com/kailas-cloud/esdex/internal/repository/persistence"
	"github.com/kailas-cloud/esdex/internal/storage"
	"github.com/kailas-cloud/esdex/internal/usecase/catalog"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "esdex:"
)

// Client is the esdex entry point. It is safe for concurrent use.
type Client struct {
	store   db.Store // nil without persistence
	storage *storage.Storage
}

// New creates a Client, connects to the configured backend and loads the
// persisted indices. Without a backend option all state is in memory.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: driverNone, keyPrefix: defaultKeyPrefix}
	for _, o := range opts {
		o.apply(cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	sopts := storage.Options{
		IOWorkers:      cfg.ioWorkers,
		Limits:         request.Limits{DefaultSize: cfg.defaultSize, MaxResultWindow: cfg.maxResultWindow},
		MaxBulkActions: cfg.maxBulkActions,
		ClusterName:    cfg.clusterName,
	}

	ctx := context.Background()
	c := &Client{store: store}
	if store == nil {
		c.storage = storage.NewInMemory(sopts, logger)
	} else {
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("esdex: database not ready: %w", err)
		}
		c.storage = storage.New(persistence.New(store, cfg.keyPrefix), store, sopts, logger)
	}

	if err := c.storage.Load(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("esdex: load persisted state: %w", err)
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverNone:
		return nil, nil
	case driverMemory:
		return dbMemory.NewStore(), nil
	case driverSQLite:
		s, err := dbSQLite.NewStore(dbSQLite.Config{Path: cfg.path})
		if err != nil {
			return nil, fmt.Errorf("esdex: create sqlite store: %w", err)
		}
		return s, nil
	case driverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.addrs, Password: cfg.password})
		if err != nil {
			return nil, fmt.Errorf("esdex: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("esdex: unknown driver %q", cfg.driver)
	}
}

// Close flushes pending writes and releases the backend.
func (c *Client) Close() {
	if c.store != nil {
		_ = c.storage.Flush(context.Background())
		c.store.Close()
	}
}

// Ping checks database connectivity. Always nil without a backend.
func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// IndexOption configures CreateIndex.
type IndexOption func(*indexConfig)

type indexConfig struct {
	settings map[string]any
	mappings map[string]any
	aliases  []string
}

// WithSettings sets the index settings.
func WithSettings(settings map[string]any) IndexOption {
	return func(c *indexConfig) { c.settings = settings }
}

// WithMappings sets the index mappings, e.g. {"properties": {...}}.
func WithMappings(mappings map[string]any) IndexOption {
	return func(c *indexConfig) { c.mappings = mappings }
}

// WithAliases adds aliases once the index exists.
func WithAliases(aliases ...string) IndexOption {
	return func(c *indexConfig) { c.aliases = append(c.aliases, aliases...) }
}

// CreateIndex creates an index. A duplicate name fails with ErrIndexAlreadyExists.
func (c *Client) CreateIndex(ctx context.Context, name string, opts ...IndexOption) error {
	var cfg indexConfig
	for _, o := range opts {
		o(&cfg)
	}
	var settings, mappings any
	if cfg.settings != nil {
		settings = cfg.settings
	}
	if cfg.mappings != nil {
		mappings = cfg.mappings
	}
	if _, err := c.storage.CreateIndex(ctx, name, settings, mappings); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	for _, alias := range cfg.aliases {
		if err := c.storage.PutAlias(ctx, name, alias); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// EnsureIndex creates the index unless it already exists.
func (c *Client) EnsureIndex(ctx context.Context, name string, opts ...IndexOption) error {
	err := c.CreateIndex(ctx, name, opts...)
	if errors.Is(err, ErrIndexAlreadyExists) {
		return nil
	}
	return err
}

// DeleteIndex removes an index and all its documents.
func (c *Client) DeleteIndex(ctx context.Context, name string) error {
	if err := c.storage.DeleteIndex(ctx, name); err != nil {
		return fmt.Errorf("delete index: %w", err)
	}
	return nil
}

// IndexExists reports whether the index exists.
func (c *Client) IndexExists(name string) bool { return c.storage.IndexExists(name) }

// Indices returns the sorted index names.
func (c *Client) Indices() []string { return c.storage.ListIndices() }

// PutAlias points alias at index.
func (c *Client) PutAlias(ctx context.Context, index, alias string) error {
	if err := c.storage.PutAlias(ctx, index, alias); err != nil {
		return fmt.Errorf("put alias: %w", err)
	}
	return nil
}

// DeleteAlias removes alias from index.
func (c *Client) DeleteAlias(ctx context.Context, index, alias string) error {
	if err := c.storage.DeleteAlias(ctx, index, alias); err != nil {
		return fmt.Errorf("delete alias: %w", err)
	}
	return nil
}

// Index upserts a document and returns its id. An empty id is generated.
func (c *Client) Index(ctx context.Context, index, id string, doc any) (string, error) {
	id, _, err := c.storage.IndexDocument(ctx, index, id, doc)
	if err != nil {
		return "", fmt.Errorf("index document: %w", err)
	}
	return id, nil
}

// Create stores a document only if id is new, failing with
// ErrDocumentAlreadyExists otherwise.
func (c *Client) Create(ctx context.Context, index, id string, doc any) error {
	if _, err := c.storage.PutDocument(ctx, index, id, doc, catalog.CreateOnly); err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// Update merges the top-level fields of partial into the document,
// inserting it if missing.
func (c *Client) Update(ctx context.Context, index, id string, partial any) error {
	if _, err := c.storage.PutDocument(ctx, index, id, partial, catalog.Merge); err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	return nil
}

// Get returns a stored document. The result must not be modified.
func (c *Client) Get(ctx context.Context, index, id string) (any, error) {
	doc, err := c.storage.GetDocument(ctx, index, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Delete removes a document.
func (c *Client) Delete(ctx context.Context, index, id string) error {
	if err := c.storage.DeleteDocument(ctx, index, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// DocumentCount returns the number of documents in index.
func (c *Client) DocumentCount(index string) (int, error) {
	n, err := c.storage.DocumentCount(index)
	if err != nil {
		return 0, fmt.Errorf("document count: %w", err)
	}
	return n, nil
}

// Refresh flushes the named indices, or all when none are given.
func (c *Client) Refresh(ctx context.Context, indices ...string) error {
	if _, err := c.storage.Refresh(ctx, indices...); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return nil
}
