package chi

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/esdex/internal/domain"
	"github.com/kailas-cloud/esdex/internal/domain/search/request"
	"github.com/kailas-cloud/esdex/internal/domain/search/result"
	searchuc "github.com/kailas-cloud/esdex/internal/usecase/search"
)

// searchBody reads the JSON body and overlays the URL parameters q, from,
// size and sort. q becomes a match on _all.
func searchBody(r *http.Request) (map[string]any, error) {
	body, err := readObject(r)
	if err != nil {
		return nil, err
	}
	if body == nil {
		body = make(map[string]any)
	}
	if err := applyURLParams(body, r.URL.Query()); err != nil {
		return nil, err
	}
	return body, nil
}

func applyURLParams(body map[string]any, params url.Values) error {
	if q := params.Get("q"); q != "" {
		body["query"] = map[string]any{"match": map[string]any{"_all": q}}
	}
	for _, key := range []string{"from", "size"} {
		raw := params.Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.InvalidRequest("[%s] must be an integer, got [%s]", key, raw)
		}
		body[key] = float64(n)
	}
	if sort := params.Get("sort"); sort != "" {
		body["sort"] = sort
	}
	return nil
}

// Search handles GET|POST /_search and /{index}/_search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	body, err := searchBody(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	res, err := s.store.Search(r.Context(), chi.URLParam(r, "index"), body)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse(res))
}

// MultiSearch handles POST /_msearch and /{index}/_msearch. The body is
// NDJSON: a header line naming the target followed by a search body line.
func (s *Server) MultiSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	raw, err := readBody(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	targets, bodies, err := parseMultiSearch(raw, chi.URLParam(r, "index"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	responses := make([]any, len(bodies))
	items := make([]searchuc.Item, 0, len(bodies))
	positions := make([]int, 0, len(bodies))
	for i, body := range bodies {
		req, err := request.Parse(body, s.store.Limits())
		if err != nil {
			_, responses[i] = s.errorResponse(r, err)
			continue
		}
		items = append(items, searchuc.Item{Target: targets[i], Request: req})
		positions = append(positions, i)
	}

	for j, out := range s.store.MultiSearch(r.Context(), items) {
		if out.Err != nil {
			_, responses[positions[j]] = s.errorResponse(r, out.Err)
			continue
		}
		resp := searchResponse(out.Result)
		resp["status"] = http.StatusOK
		responses[positions[j]] = resp
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"took":      time.Since(start).Milliseconds(),
		"responses": responses,
	})
}

func parseMultiSearch(raw []byte, defaultTarget string) ([]string, []map[string]any, error) {
	var lines [][]byte
	sc := bufio.NewScanner(bytes.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), maxRequestBodyBytes)
	for sc.Scan() {
		if line := bytes.TrimSpace(sc.Bytes()); len(line) > 0 {
			lines = append(lines, append([]byte(nil), line...))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, domain.InvalidRequest("read msearch body: %v", err)
	}
	if len(lines)%2 != 0 {
		return nil, nil, domain.InvalidRequest("msearch body must pair each header with a search body")
	}

	var (
		targets []string
		bodies  []map[string]any
	)
	for i := 0; i < len(lines); i += 2 {
		var header, body map[string]any
		if err := json.Unmarshal(lines[i], &header); err != nil {
			return nil, nil, domain.InvalidRequest("malformed msearch header on line %d: %v", i+1, err)
		}
		if err := json.Unmarshal(lines[i+1], &body); err != nil {
			return nil, nil, domain.InvalidRequest("malformed msearch body on line %d: %v", i+2, err)
		}
		target := defaultTarget
		switch idx := header["index"].(type) {
		case string:
			target = idx
		case []any:
			parts := make([]string, 0, len(idx))
			for _, p := range idx {
				if name, ok := p.(string); ok {
					parts = append(parts, name)
				}
			}
			target = strings.Join(parts, ",")
		}
		targets = append(targets, target)
		bodies = append(bodies, body)
	}
	return targets, bodies, nil
}

// Count handles GET|POST /_count and /{index}/_count.
func (s *Server) Count(w http.ResponseWriter, r *http.Request) {
	body, err := searchBody(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	n, err := s.store.Count(r.Context(), chi.URLParam(r, "index"), body)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": n, "_shards": shards(1)})
}

func searchResponse(res searchuc.Result) map[string]any {
	var maxScore any
	if res.HasMaxScore {
		maxScore = res.MaxScore
	}
	hits := make([]any, len(res.Hits))
	for i, h := range res.Hits {
		hits[i] = hitToJSON(h)
	}
	return map[string]any{
		"took":      res.Took.Milliseconds(),
		"timed_out": false,
		"_shards":   shards(1),
		"hits": map[string]any{
			"total":     map[string]any{"value": res.Total, "relation": "eq"},
			"max_score": maxScore,
			"hits":      hits,
		},
	}
}

func hitToJSON(h result.Hit) map[string]any {
	out := map[string]any{
		"_index": h.Index,
		"_type":  docType,
		"_id":    h.ID,
		"_score": h.Score,
	}
	if h.Source != nil {
		out["_source"] = h.Source
	}
	if len(h.Highlight) > 0 {
		out["highlight"] = h.Highlight
	}
	return out
}
