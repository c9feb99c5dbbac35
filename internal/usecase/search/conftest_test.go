package search

import (
	"sort"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esdex/internal/domain"
	"github.com/kailas-cloud/esdex/internal/domain/search/request"
)

// mockCatalog serves documents from fixed maps. Resolve understands only
// comma separated names and "_all".
type mockCatalog struct {
	indices map[string]map[string]any
}

func (m *mockCatalog) Resolve(expr string) ([]string, error) {
	var names []string
	if expr == "" || expr == "_all" {
		for n := range m.indices {
			names = append(names, n)
		}
		sort.Strings(names)
		return names, nil
	}
	for _, n := range strings.Split(expr, ",") {
		if _, ok := m.indices[n]; !ok {
			return nil, domain.IndexNotFound(n)
		}
		names = append(names, n)
	}
	return names, nil
}

func (m *mockCatalog) Scan(names []string, fn func(indexName, id string, doc any)) error {
	for _, n := range names {
		for id, doc := range m.indices[n] {
			fn(n, id, doc)
		}
	}
	return nil
}

func newTestService(t *testing.T, indices map[string]map[string]any) *Service {
	t.Helper()
	return New(&mockCatalog{indices: indices}, zap.NewNop())
}

func mustRequest(t *testing.T, body map[string]any) request.Request {
	t.Helper()
	req, err := request.Parse(body, request.DefaultLimits())
	if err != nil {
		t.Fatalf("parse request: %v", err)
	}
	return req
}

func ids(r Result) []string {
	out := make([]string, len(r.Hits))
	for i, h := range r.Hits {
		out[i] = h.ID
	}
	return out
}

func booksFixture() map[string]map[string]any {
	return map[string]map[string]any{
		"books": {
			"1": map[string]any{"title": "Rust Programming", "year": float64(2015), "author": "klabnik"},
			"2": map[string]any{"title": "Python Tutorial", "year": float64(2010), "author": "lutz"},
			"3": map[string]any{"title": "Rusty Code", "year": float64(2020)},
		},
	}
}
