package chi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/esdex/internal/domain"
	"github.com/kailas-cloud/esdex/internal/usecase/catalog"
)

// readDocument decodes a required JSON document body.
func readDocument(r *http.Request) (any, error) {
	raw, err := readBody(r)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, domain.InvalidRequest("request body is required")
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, domain.InvalidRequest("failed to parse document: %v", err)
	}
	return doc, nil
}

func writeResult(w http.ResponseWriter, status int, indexName, id, result string) {
	writeJSON(w, status, map[string]any{
		"_index":   indexName,
		"_type":    docType,
		"_id":      id,
		"_version": 1,
		"result":   result,
		"_shards":  map[string]any{"total": 1, "successful": 1, "failed": 0},
	})
}

// IndexDocument handles PUT|POST /{index}/_doc/{id}. op_type=create
// rejects an existing id.
func (s *Server) IndexDocument(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("op_type") == "create" {
		s.CreateDocumentWithID(w, r)
		return
	}
	indexName, id := chi.URLParam(r, "index"), chi.URLParam(r, "id")
	doc, err := readDocument(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	id, created, err := s.store.IndexDocument(r.Context(), indexName, id, doc)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if created {
		writeResult(w, http.StatusCreated, indexName, id, "created")
		return
	}
	writeResult(w, http.StatusOK, indexName, id, "updated")
}

// CreateDocumentWithID handles PUT|POST /{index}/_create/{id}.
func (s *Server) CreateDocumentWithID(w http.ResponseWriter, r *http.Request) {
	indexName, id := chi.URLParam(r, "index"), chi.URLParam(r, "id")
	doc, err := readDocument(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if _, err := s.store.PutDocument(r.Context(), indexName, id, doc, catalog.CreateOnly); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeResult(w, http.StatusCreated, indexName, id, "created")
}

// CreateDocument handles POST /{index}/_doc with a generated id.
func (s *Server) CreateDocument(w http.ResponseWriter, r *http.Request) {
	indexName := chi.URLParam(r, "index")
	doc, err := readDocument(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	id, err := s.store.CreateDocument(r.Context(), indexName, doc)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeResult(w, http.StatusCreated, indexName, id, "created")
}

// GetDocument handles GET /{index}/_doc/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	indexName, id := chi.URLParam(r, "index"), chi.URLParam(r, "id")
	doc, err := s.store.GetDocument(r.Context(), indexName, id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"_index":   indexName,
		"_type":    docType,
		"_id":      id,
		"_version": 1,
		"found":    true,
		"_source":  doc,
	})
}

// DeleteDocument handles DELETE /{index}/_doc/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	indexName, id := chi.URLParam(r, "index"), chi.URLParam(r, "id")
	if err := s.store.DeleteDocument(r.Context(), indexName, id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeResult(w, http.StatusOK, indexName, id, "deleted")
}
