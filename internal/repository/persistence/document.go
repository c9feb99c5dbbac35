package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/kailas-cloud/esdex/internal/db"
)

// StoreDocument writes one document.
func (r *Repo) StoreDocument(ctx context.Context, indexName, id string, doc any) error {
	key := r.docKey(indexName, id)
	data, err := json.Marshal(doc)
	if err != nil {
		return serializationErr("encode", key, err)
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		return storageErr("set", key, err)
	}
	return nil
}

// LoadDocument reads one document. The bool is false when it is not stored.
func (r *Repo) LoadDocument(ctx context.Context, indexName, id string) (any, bool, error) {
	key := r.docKey(indexName, id)
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storageErr("get", key, err)
	}
	doc, err := decode(key, data)
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

// DeleteDocument removes one document. Missing documents are not an error.
func (r *Repo) DeleteDocument(ctx context.Context, indexName, id string) error {
	key := r.docKey(indexName, id)
	if err := r.store.Del(ctx, key); err != nil {
		return storageErr("del", key, err)
	}
	return nil
}

// LoadAllDocuments reads every document of an index, keyed by id.
func (r *Repo) LoadAllDocuments(ctx context.Context, indexName string) (map[string]any, error) {
	prefix := r.docPrefix(indexName)
	keys, err := r.store.ScanPrefix(ctx, prefix)
	if err != nil {
		return nil, storageErr("scan", prefix, err)
	}

	docs := make(map[string]any, len(keys))
	for start := 0; start < len(keys); start += loadBatch {
		chunk := keys[start:min(start+loadBatch, len(keys))]
		values, err := r.store.GetMulti(ctx, chunk)
		if err != nil {
			return nil, storageErr("get", prefix+"*", err)
		}
		for i, data := range values {
			if data == nil {
				// Deleted between scan and fetch.
				continue
			}
			doc, err := decode(chunk[i], data)
			if err != nil {
				return nil, err
			}
			docs[strings.TrimPrefix(chunk[i], prefix)] = doc
		}
	}
	return docs, nil
}

func decode(key string, data []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, serializationErr("decode", key, err)
	}
	return doc, nil
}
