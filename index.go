package esdex

import (
	"context"
	"encoding/json"
	"fmt"
)

// TypedIndex is a generic handle on one index. Items are stored as their
// JSON encoding, so T's json tags decide the document fields.
type TypedIndex[T any] struct {
	name   string
	client *Client
	opts   []IndexOption
}

// NewIndex creates a typed handle for the named index. opts apply when
// Ensure creates it.
func NewIndex[T any](client *Client, name string, opts ...IndexOption) *TypedIndex[T] {
	return &TypedIndex[T]{name: name, client: client, opts: opts}
}

// Name returns the index name.
func (idx *TypedIndex[T]) Name() string { return idx.name }

// Ensure creates the index if it does not exist (idempotent).
func (idx *TypedIndex[T]) Ensure(ctx context.Context) error {
	if err := idx.client.EnsureIndex(ctx, idx.name, idx.opts...); err != nil {
		return fmt.Errorf("ensure %q: %w", idx.name, err)
	}
	return nil
}

// Put creates or replaces the item stored under id.
func (idx *TypedIndex[T]) Put(ctx context.Context, id string, item T) error {
	doc, err := toDocument(item)
	if err != nil {
		return fmt.Errorf("put: %w", err)
	}
	_, err = idx.client.Index(ctx, idx.name, id, doc)
	return err
}

// PutBatch stores items in one bulk call, keyed by id(item). The items of
// the returned slice line up with items.
func (idx *TypedIndex[T]) PutBatch(ctx context.Context, items []T, id func(T) string) ([]BulkItem, error) {
	actions := make([]BulkAction, len(items))
	for i, item := range items {
		doc, err := toDocument(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		actions[i] = BulkAction{Op: BulkIndex, Index: idx.name, ID: id(item), Doc: doc}
	}
	return idx.client.Bulk(ctx, actions, false)
}

// Get retrieves a typed item by id.
func (idx *TypedIndex[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	doc, err := idx.client.Get(ctx, idx.name, id)
	if err != nil {
		return zero, err
	}
	item, err := fromDocument[T](doc)
	if err != nil {
		return zero, fmt.Errorf("get %q: %w", id, err)
	}
	return item, nil
}

// Delete removes an item by id.
func (idx *TypedIndex[T]) Delete(ctx context.Context, id string) error {
	return idx.client.Delete(ctx, idx.name, id)
}

// Count returns the number of items in the index.
func (idx *TypedIndex[T]) Count() (int, error) {
	return idx.client.DocumentCount(idx.name)
}

// Search returns a fluent search builder for this index.
func (idx *TypedIndex[T]) Search() *SearchBuilder[T] {
	return &SearchBuilder[T]{idx: idx}
}

func toDocument(item any) (any, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("%w: encode item: %w", ErrInvalidRequest, err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: encode item: %w", ErrInvalidRequest, err)
	}
	return doc, nil
}

func fromDocument[T any](doc any) (T, error) {
	var item T
	raw, err := json.Marshal(doc)
	if err != nil {
		return item, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	if err := json.Unmarshal(raw, &item); err != nil {
		return item, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return item, nil
}
