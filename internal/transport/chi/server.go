// Package chi exposes the storage facade over an Elasticsearch-compatible
// REST surface routed with chi.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esdex/internal/domain"
	logpkg "github.com/kailas-cloud/esdex/internal/logger"
	"github.com/kailas-cloud/esdex/internal/metrics"
	"github.com/kailas-cloud/esdex/internal/storage"
)

// Elasticsearch error types.
const (
	errTypeIndexNotFound    = "index_not_found_exception"
	errTypeDocumentNotFound = "document_missing_exception"
	errTypeAliasNotFound    = "aliases_not_found_exception"
	errTypeIndexExists      = "resource_already_exists_exception"
	errTypeVersionConflict  = "version_conflict_engine_exception"
	errTypeIllegalArgument  = "illegal_argument_exception"
	errTypeSecurity         = "security_exception"
	errTypeInternal         = "internal_server_error"
)

const (
	maxRequestBodyBytes = 100 << 20
	docType             = "_doc"
)

// errorHandler tries to classify a domain error. Returns false if the
// error is not its concern.
type errorHandler func(err error) (status int, errType string, ok bool)

// Server maps REST requests onto the storage facade.
type Server struct {
	store         *storage.Storage
	logger        *zap.Logger
	errorHandlers []errorHandler
	watchInterval time.Duration
}

// NewServer creates an HTTP API server.
func NewServer(store *storage.Storage, logger *zap.Logger) *Server {
	s := &Server{store: store, logger: logger, watchInterval: defaultWatchInterval}
	// Order matters: the already-exists sentinels also match ErrInvalidRequest.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrIndexNotFound, http.StatusNotFound, errTypeIndexNotFound),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, errTypeDocumentNotFound),
		sentinelHandler(domain.ErrAliasNotFound, http.StatusNotFound, errTypeAliasNotFound),
		sentinelHandler(domain.ErrIndexAlreadyExists, http.StatusBadRequest, errTypeIndexExists),
		sentinelHandler(domain.ErrDocumentAlreadyExists, http.StatusConflict, errTypeVersionConflict),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, errTypeIllegalArgument),
	}
	return s
}

// WithWatchInterval sets how often /_ws pushes a cluster snapshot.
func (s *Server) WithWatchInterval(d time.Duration) *Server {
	if d > 0 {
		s.watchInterval = d
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Info)
	r.Head("/", s.Ping)
	r.Get("/health", s.Health)
	r.Handle("/metrics", metrics.Handler())

	r.Get("/_cluster/health", s.ClusterHealth)
	r.Get("/_cluster/stats", s.ClusterStats)
	r.Get("/_cat/indices", s.CatIndices)
	r.Get("/_aliases", s.GetAliases)
	r.Get("/_ws", s.Watch)

	r.Get("/_search", s.Search)
	r.Post("/_search", s.Search)
	r.Post("/_msearch", s.MultiSearch)
	r.Get("/_count", s.Count)
	r.Post("/_count", s.Count)
	r.Post("/_bulk", s.Bulk)
	r.Put("/_bulk", s.Bulk)
	r.Get("/_refresh", s.Refresh)
	r.Post("/_refresh", s.Refresh)

	r.Route("/{index}", func(r chi.Router) {
		r.Put("/", s.CreateIndex)
		r.Get("/", s.GetIndex)
		r.Head("/", s.IndexExists)
		r.Delete("/", s.DeleteIndex)

		r.Put("/_mapping", s.UpdateMapping)
		r.Put("/_settings", s.UpdateSettings)
		r.Put("/_alias/{alias}", s.PutAlias)
		r.Post("/_alias/{alias}", s.PutAlias)
		r.Delete("/_alias/{alias}", s.DeleteAlias)

		r.Post("/_doc", s.CreateDocument)
		r.Put("/_doc/{id}", s.IndexDocument)
		r.Post("/_doc/{id}", s.IndexDocument)
		r.Get("/_doc/{id}", s.GetDocument)
		r.Delete("/_doc/{id}", s.DeleteDocument)
		r.Put("/_create/{id}", s.CreateDocumentWithID)
		r.Post("/_create/{id}", s.CreateDocumentWithID)

		r.Get("/_search", s.Search)
		r.Post("/_search", s.Search)
		r.Post("/_msearch", s.MultiSearch)
		r.Get("/_count", s.Count)
		r.Post("/_count", s.Count)
		r.Post("/_bulk", s.Bulk)
		r.Put("/_bulk", s.Bulk)
		r.Get("/_refresh", s.Refresh)
		r.Post("/_refresh", s.Refresh)
	})
}

// readObject decodes an optional JSON object body. An empty body yields nil.
func readObject(r *http.Request) (map[string]any, error) {
	raw, err := readBody(r)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, domain.InvalidRequest("request body is not a JSON object: %v", err)
	}
	return body, nil
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		return nil, domain.InvalidRequest("read request body: %v", err)
	}
	return raw, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the Elasticsearch error envelope.
func errorBody(status int, errType, reason string) map[string]any {
	return map[string]any{
		"error": map[string]any{
			"type":   errType,
			"reason": reason,
			"root_cause": []any{
				map[string]any{"type": errType, "reason": reason},
			},
		},
		"status": status,
	}
}

func writeError(w http.ResponseWriter, status int, errType, reason string) {
	writeJSON(w, status, errorBody(status, errType, reason))
}

func sentinelHandler(sentinel error, status int, errType string) errorHandler {
	return func(err error) (int, string, bool) {
		if !errors.Is(err, sentinel) {
			return 0, "", false
		}
		return status, errType, true
	}
}

// reason renders a client-facing message. Missing resources use the
// Elasticsearch "no such" wording.
func reason(err error) string {
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return fmt.Sprintf("no such %s [%s]", nf.Resource, nf.Name)
	}
	return err.Error()
}

// classify returns the status and error type for err, falling back to 500.
func (s *Server) classify(err error) (int, string) {
	for _, h := range s.errorHandlers {
		if status, errType, ok := h(err); ok {
			return status, errType
		}
	}
	return http.StatusInternalServerError, errTypeInternal
}

// errorResponse renders err as an Elasticsearch error body. Internal
// failures are logged and their details withheld.
func (s *Server) errorResponse(r *http.Request, err error) (int, map[string]any) {
	status, errType := s.classify(err)
	if status == http.StatusInternalServerError {
		logpkg.FromContext(r.Context()).Error("Request failed", zap.Error(err))
		return status, errorBody(status, errType, "internal error")
	}
	return status, errorBody(status, errType, reason(err))
}

// handleDomainError maps a domain error to an HTTP response.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := s.errorResponse(r, err)
	writeJSON(w, status, body)
}

func acknowledged(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{"acknowledged": true})
}

func shards(n int) map[string]any {
	return map[string]any{"total": n, "successful": n, "skipped": 0, "failed": 0}
}
