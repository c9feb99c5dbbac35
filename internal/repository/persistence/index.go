package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/kailas-cloud/esdex/internal/db"
	"github.com/kailas-cloud/esdex/internal/domain/index"
)

// StoreIndexMetadata writes the metadata of one index.
func (r *Repo) StoreIndexMetadata(ctx context.Context, name string, meta index.Metadata) error {
	key := r.indexKey(name)
	data, err := json.Marshal(meta)
	if err != nil {
		return serializationErr("encode", key, err)
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		return storageErr("set", key, err)
	}
	return nil
}

// LoadIndexMetadata reads the metadata of one index. The bool is false when
// the index is not stored.
func (r *Repo) LoadIndexMetadata(ctx context.Context, name string) (index.Metadata, bool, error) {
	key := r.indexKey(name)
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return index.Metadata{}, false, nil
	}
	if err != nil {
		return index.Metadata{}, false, storageErr("get", key, err)
	}
	var meta index.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return index.Metadata{}, false, serializationErr("decode", key, err)
	}
	return meta, true, nil
}

// ListIndices returns the stored index names, sorted.
func (r *Repo) ListIndices(ctx context.Context) ([]string, error) {
	prefix := r.prefix + indexKeyPrefix
	keys, err := r.store.ScanPrefix(ctx, prefix)
	if err != nil {
		return nil, storageErr("scan", prefix, err)
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, strings.TrimPrefix(k, prefix))
	}
	sort.Strings(names)
	return names, nil
}

// DeleteIndexMetadata removes the metadata and every document of an index.
// Documents go first so a crash midway never leaves orphans behind a
// missing metadata key.
func (r *Repo) DeleteIndexMetadata(ctx context.Context, name string) error {
	prefix := r.docPrefix(name)
	keys, err := r.store.ScanPrefix(ctx, prefix)
	if err != nil {
		return storageErr("scan", prefix, err)
	}
	if len(keys) > 0 {
		if err := r.store.DelMulti(ctx, keys); err != nil {
			return storageErr("del", prefix+"*", err)
		}
	}
	key := r.indexKey(name)
	if err := r.store.Del(ctx, key); err != nil {
		return storageErr("del", key, err)
	}
	return nil
}
