package persistence

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/esdex/internal/domain"
	"github.com/kailas-cloud/esdex/internal/domain/index"
)

// --- Index metadata ---

func TestStoreIndexMetadata_Key(t *testing.T) {
	repo, ms := newTestRepo(t)
	var gotKey string
	ms.setFn = func(_ context.Context, key string, _ []byte) error {
		gotKey = key
		return nil
	}

	if err := repo.StoreIndexMetadata(context.Background(), "books", index.Metadata{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "esdex:index:books" {
		t.Errorf("key = %q, want esdex:index:books", gotKey)
	}
}

func TestIndexMetadata_RoundTrip(t *testing.T) {
	repo, _ := newMemoryRepo(t)
	ctx := context.Background()
	meta := index.Metadata{
		Settings:  map[string]any{"number_of_shards": float64(1)},
		Mappings:  map[string]any{"properties": map[string]any{"title": map[string]any{"type": "text"}}},
		Aliases:   []string{"library"},
		CreatedAt: 1700000000000,
	}

	if err := repo.StoreIndexMetadata(ctx, "books", meta); err != nil {
		t.Fatalf("store: %v", err)
	}
	got, ok, err := repo.LoadIndexMetadata(ctx, "books")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("expected metadata to exist")
	}
	if !reflect.DeepEqual(got, meta) {
		t.Errorf("got %+v, want %+v", got, meta)
	}
}

func TestLoadIndexMetadata_Missing(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, ok, err := repo.LoadIndexMetadata(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false")
	}
}

func TestLoadIndexMetadata_Corrupt(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getFn = func(context.Context, string) ([]byte, error) { return []byte("{broken"), nil }

	_, _, err := repo.LoadIndexMetadata(context.Background(), "books")
	if !errors.Is(err, domain.ErrSerialization) {
		t.Fatalf("expected ErrSerialization, got %v", err)
	}
}

func TestLoadIndexMetadata_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getFn = func(context.Context, string) ([]byte, error) { return nil, errors.New("connection refused") }

	_, _, err := repo.LoadIndexMetadata(context.Background(), "books")
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestListIndices_SortedAndStripped(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(_ context.Context, prefix string) ([]string, error) {
		if prefix != "esdex:index:" {
			t.Errorf("prefix = %q", prefix)
		}
		return []string{"esdex:index:zeta", "esdex:index:alpha"}, nil
	}

	names, err := repo.ListIndices(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"alpha", "zeta"}; !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestDeleteIndexMetadata_PurgesDocuments(t *testing.T) {
	repo, s := newMemoryRepo(t)
	ctx := context.Background()

	if err := repo.StoreIndexMetadata(ctx, "books", index.Metadata{}); err != nil {
		t.Fatal(err)
	}
	if err := repo.StoreIndexMetadata(ctx, "books2", index.Metadata{}); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"1", "2", "3"} {
		if err := repo.StoreDocument(ctx, "books", id, map[string]any{"n": id}); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.StoreDocument(ctx, "books2", "1", map[string]any{}); err != nil {
		t.Fatal(err)
	}

	if err := repo.DeleteIndexMetadata(ctx, "books"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// books2 metadata + one doc remain.
	if s.Len() != 2 {
		t.Errorf("remaining keys = %d, want 2", s.Len())
	}
	names, _ := repo.ListIndices(ctx)
	if !reflect.DeepEqual(names, []string{"books2"}) {
		t.Errorf("indices = %v", names)
	}
}

func TestDeleteIndexMetadata_ScanError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(context.Context, string) ([]string, error) { return nil, errors.New("boom") }
	delCalled := false
	ms.delFn = func(context.Context, string) error {
		delCalled = true
		return nil
	}

	err := repo.DeleteIndexMetadata(context.Background(), "books")
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if delCalled {
		t.Error("metadata must survive a failed document purge")
	}
}

// --- Documents ---

func TestDocument_RoundTrip(t *testing.T) {
	repo, _ := newMemoryRepo(t)
	ctx := context.Background()
	doc := map[string]any{
		"title": "Rust",
		"year":  float64(2015),
		"tags":  []any{"lang", "systems"},
	}

	if err := repo.StoreDocument(ctx, "books", "doc-1", doc); err != nil {
		t.Fatalf("store: %v", err)
	}
	got, ok, err := repo.LoadDocument(ctx, "books", "doc-1")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("got %v, want %v", got, doc)
	}

	if err := repo.DeleteDocument(ctx, "books", "doc-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := repo.LoadDocument(ctx, "books", "doc-1"); ok {
		t.Fatal("expected document to be gone")
	}
}

func TestStoreDocument_Unencodable(t *testing.T) {
	repo, _ := newTestRepo(t)
	err := repo.StoreDocument(context.Background(), "books", "1", map[string]any{"f": func() {}})
	if !errors.Is(err, domain.ErrSerialization) {
		t.Fatalf("expected ErrSerialization, got %v", err)
	}
}

func TestStoreDocument_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.setFn = func(context.Context, string, []byte) error { return errors.New("OOM") }

	err := repo.StoreDocument(context.Background(), "books", "1", map[string]any{})
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestDeleteDocument_MissingIsOK(t *testing.T) {
	repo, _ := newMemoryRepo(t)
	if err := repo.DeleteDocument(context.Background(), "books", "ghost"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadAllDocuments(t *testing.T) {
	repo, _ := newMemoryRepo(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b:c"} {
		if err := repo.StoreDocument(ctx, "books", id, map[string]any{"id": id}); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.StoreDocument(ctx, "other", "x", map[string]any{}); err != nil {
		t.Fatal(err)
	}

	docs, err := repo.LoadAllDocuments(ctx, "books")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{
		"a":   map[string]any{"id": "a"},
		"b:c": map[string]any{"id": "b:c"},
	}
	if !reflect.DeepEqual(docs, want) {
		t.Errorf("docs = %v, want %v", docs, want)
	}
}

func TestLoadAllDocuments_Batches(t *testing.T) {
	repo, ms := newTestRepo(t)
	keys := make([]string, loadBatch+3)
	for i := range keys {
		keys[i] = "esdex:doc:books:" + string(rune('a'+i%26)) + string(rune('a'+i/26))
	}
	ms.scanFn = func(context.Context, string) ([]string, error) { return keys, nil }
	var calls []int
	ms.getMultiFn = func(_ context.Context, ks []string) ([][]byte, error) {
		calls = append(calls, len(ks))
		out := make([][]byte, len(ks))
		for i := range ks {
			out[i] = []byte(`{}`)
		}
		out[0] = nil // vanished between scan and fetch
		return out, nil
	}

	docs, err := repo.LoadAllDocuments(context.Background(), "books")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(calls, []int{loadBatch, 3}) {
		t.Errorf("batches = %v", calls)
	}
	if len(docs) != len(keys)-2 {
		t.Errorf("docs = %d, want %d", len(docs), len(keys)-2)
	}
}

func TestLoadAllDocuments_Corrupt(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(context.Context, string) ([]string, error) { return []string{"esdex:doc:books:1"}, nil }
	ms.getMultiFn = func(context.Context, []string) ([][]byte, error) { return [][]byte{[]byte("nope")}, nil }

	_, err := repo.LoadAllDocuments(context.Background(), "books")
	if !errors.Is(err, domain.ErrSerialization) {
		t.Fatalf("expected ErrSerialization, got %v", err)
	}
}

func TestFlush_Error(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.flushFn = func(context.Context) error { return errors.New("disk full") }

	if err := repo.Flush(context.Background()); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestNop(t *testing.T) {
	var a Adapter = Nop{}
	ctx := context.Background()
	if err := a.StoreDocument(ctx, "i", "1", map[string]any{}); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := a.LoadDocument(ctx, "i", "1"); ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if names, err := a.ListIndices(ctx); len(names) != 0 || err != nil {
		t.Fatalf("names=%v err=%v", names, err)
	}
}
