// Package esdex is an embeddable, Elasticsearch-compatible document store.
//
// Indices hold schemaless JSON documents and are searched with the
// Elasticsearch query DSL. State lives in memory and is optionally
// persisted to SQLite or Redis.
//
// # Low-level API
//
//	client, _ := esdex.New(esdex.WithSQLite("data/esdex.db"))
//	defer client.Close()
//	_ = client.CreateIndex(ctx, "books")
//	_, _ = client.Index(ctx, "books", "1", map[string]any{"title": "Rust Programming"})
//	res, _ := client.Search(ctx, "books", esdex.Body(esdex.Match("title", "rust")))
//
// # Typed API
//
//	type Book struct {
//	    Title string `json:"title"`
//	    Year  int    `json:"year"`
//	}
//
//	books := esdex.NewIndex[Book](client, "books")
//	_ = books.Ensure(ctx)
//	_ = books.Put(ctx, "1", Book{Title: "Rust Programming", Year: 2015})
//	hits, _ := books.Search().Query(esdex.Range("year").Gte(2010)).SortBy("year", esdex.Desc).Do(ctx)
package esdex
