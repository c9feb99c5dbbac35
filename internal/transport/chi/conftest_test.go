package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esdex/internal/domain/index"
	"github.com/kailas-cloud/esdex/internal/repository/persistence"
	"github.com/kailas-cloud/esdex/internal/storage"
)

// --- Mocks ---

var errBackend = errors.New("backend down")

// failingPersistence rejects every index metadata write.
type failingPersistence struct {
	persistence.Nop
}

func (failingPersistence) StoreIndexMetadata(context.Context, string, index.Metadata) error {
	return errBackend
}

// --- Helpers ---

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	return NewRouter(NewServer(storage.NewInMemory(storage.Options{}, logger), logger), nil)
}

func newFailingRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	store := storage.New(failingPersistence{}, nil, storage.Options{}, logger)
	return NewRouter(NewServer(store, logger), nil)
}

// do sends a request with an optional raw body and returns the recorder.
func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// mustDo is do plus a status assertion.
func mustDo(t *testing.T, h http.Handler, method, path, body string, want int) *httptest.ResponseRecorder {
	t.Helper()
	rr := do(t, h, method, path, body)
	if rr.Code != want {
		t.Fatalf("%s %s: got %d, want %d: %s", method, path, rr.Code, want, rr.Body.String())
	}
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return out
}

// decodeError returns the error type and status of an Elasticsearch error body.
func decodeError(t *testing.T, rr *httptest.ResponseRecorder) (string, int) {
	t.Helper()
	body := decodeBody(t, rr)
	e, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("no error object in %v", body)
	}
	errType, _ := e["type"].(string)
	status, _ := body["status"].(float64)
	return errType, int(status)
}

// hitIDs extracts the _id of every hit in a search response.
func hitIDs(t *testing.T, rr *httptest.ResponseRecorder) []string {
	t.Helper()
	hits := decodeBody(t, rr)["hits"].(map[string]any)["hits"].([]any)
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.(map[string]any)["_id"].(string)
	}
	return ids
}

func seedBooks(t *testing.T, h http.Handler) {
	t.Helper()
	mustDo(t, h, http.MethodPut, "/books", "", http.StatusOK)
	mustDo(t, h, http.MethodPut, "/books/_doc/1", `{"title":"Rust Programming","year":2015}`, http.StatusCreated)
	mustDo(t, h, http.MethodPut, "/books/_doc/2", `{"title":"Python Tutorial","year":2020}`, http.StatusCreated)
}
