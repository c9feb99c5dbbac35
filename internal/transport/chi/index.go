package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esdex/internal/domain"
	"github.com/kailas-cloud/esdex/internal/domain/index"
)

// CreateIndex handles PUT /{index}.
func (s *Server) CreateIndex(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "index")
	body, err := readObject(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	idx, err := s.store.CreateIndex(r.Context(), name, body["settings"], body["mappings"])
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	// Aliases in the create body are applied after the index exists.
	if aliases, ok := body["aliases"].(map[string]any); ok {
		for alias := range aliases {
			if err := s.store.PutAlias(r.Context(), name, alias); err != nil {
				s.handleDomainError(w, r, err)
				return
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"acknowledged":        true,
		"shards_acknowledged": true,
		"index":               idx.Name(),
	})
}

// GetIndex handles GET /{index}.
func (s *Server) GetIndex(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "index")
	idx, err := s.store.GetIndex(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{name: indexToJSON(idx)})
}

// IndexExists handles HEAD /{index}.
func (s *Server) IndexExists(w http.ResponseWriter, r *http.Request) {
	if s.store.IndexExists(chi.URLParam(r, "index")) {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

// DeleteIndex handles DELETE /{index}. The name _all drops every index.
func (s *Server) DeleteIndex(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "index")
	var err error
	if name == "_all" {
		s.logger.Warn("Deleting all indices")
		err = s.store.DeleteAllIndices(r.Context())
	} else {
		err = s.store.DeleteIndex(r.Context(), name)
	}
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	acknowledged(w)
}

// UpdateMapping handles PUT /{index}/_mapping.
func (s *Server) UpdateMapping(w http.ResponseWriter, r *http.Request) {
	body, err := readObject(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	props, err := index.ExtractProperties(body)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if _, err := s.store.UpdateMapping(r.Context(), chi.URLParam(r, "index"), props); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	acknowledged(w)
}

// UpdateSettings handles PUT /{index}/_settings. Both {"settings": {...}}
// and a bare settings object are accepted.
func (s *Server) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	body, err := readObject(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if body == nil {
		s.handleDomainError(w, r, domain.InvalidRequest("request body is required"))
		return
	}
	var settings any = body
	if inner, ok := body["settings"]; ok {
		settings = inner
	}
	if _, err := s.store.UpdateSettings(r.Context(), chi.URLParam(r, "index"), settings); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	acknowledged(w)
}

// PutAlias handles PUT /{index}/_alias/{alias}.
func (s *Server) PutAlias(w http.ResponseWriter, r *http.Request) {
	name, alias := chi.URLParam(r, "index"), chi.URLParam(r, "alias")
	if err := s.store.PutAlias(r.Context(), name, alias); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.logger.Info("Alias added", zap.String("index", name), zap.String("alias", alias))
	acknowledged(w)
}

// DeleteAlias handles DELETE /{index}/_alias/{alias}.
func (s *Server) DeleteAlias(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteAlias(r.Context(), chi.URLParam(r, "index"), chi.URLParam(r, "alias")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	acknowledged(w)
}

// GetAliases handles GET /_aliases.
func (s *Server) GetAliases(w http.ResponseWriter, _ *http.Request) {
	out := make(map[string]any)
	for name, aliases := range s.store.Aliases() {
		out[name] = map[string]any{"aliases": aliasesToJSON(aliases)}
	}
	writeJSON(w, http.StatusOK, out)
}

func indexToJSON(idx index.Index) map[string]any {
	settings, mappings := idx.Settings(), idx.Mappings()
	if settings == nil {
		settings = map[string]any{}
	}
	if mappings == nil {
		mappings = map[string]any{}
	}
	return map[string]any{
		"aliases":  aliasesToJSON(idx.Aliases()),
		"mappings": mappings,
		"settings": settings,
	}
}

func aliasesToJSON(aliases []string) map[string]any {
	out := make(map[string]any, len(aliases))
	for _, a := range aliases {
		out[a] = map[string]any{}
	}
	return out
}
