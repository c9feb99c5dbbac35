package chi

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/esdex/internal/domain"
	dombulk "github.com/kailas-cloud/esdex/internal/domain/bulk"
)

// Bulk handles POST /_bulk and /{index}/_bulk.
func (s *Server) Bulk(w http.ResponseWriter, r *http.Request) {
	actions, err := parseBulk(io.LimitReader(r.Body, maxRequestBodyBytes), chi.URLParam(r, "index"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp, err := s.store.Bulk(r.Context(), actions, refreshRequested(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]any, len(resp.Items))
	for i, item := range resp.Items {
		items[i] = map[string]any{string(item.Op()): bulkItemToJSON(item)}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"took":   resp.TookMillis,
		"errors": resp.Errors(),
		"items":  items,
	})
}

func refreshRequested(r *http.Request) bool {
	switch r.URL.Query().Get("refresh") {
	case "true", "wait_for":
		return true
	}
	// A bare ?refresh means true.
	_, ok := r.URL.Query()["refresh"]
	return ok && r.URL.Query().Get("refresh") == ""
}

func bulkItemToJSON(item dombulk.Result) map[string]any {
	out := map[string]any{
		"_index": item.Index(),
		"_type":  docType,
		"_id":    item.ID(),
		"status": item.Status(),
	}
	if item.Failed() {
		out["error"] = map[string]any{
			"type":   item.ErrorType(),
			"reason": reason(item.Err()),
		}
		return out
	}
	out["_version"] = 1
	out["result"] = item.Result()
	return out
}

type bulkMeta struct {
	Index string `json:"_index"`
	ID    string `json:"_id"`
}

// parseBulk reads an NDJSON bulk body. Blank lines are skipped, every
// action but delete is followed by its document line, and update
// documents are unwrapped from {"doc": ...}. Any malformed line rejects the
// whole request.
func parseBulk(body io.Reader, defaultIndex string) ([]dombulk.Action, error) {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), maxRequestBodyBytes)

	var (
		actions []dombulk.Action
		pending *dombulk.Action
		lineNo  int
	)
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		if pending != nil {
			doc, err := parseBulkDocument(line, pending.Op, lineNo)
			if err != nil {
				return nil, err
			}
			pending.Document = doc
			actions = append(actions, *pending)
			pending = nil
			continue
		}

		a, err := parseBulkAction(line, defaultIndex, lineNo)
		if err != nil {
			return nil, err
		}
		if a.Op.HasSource() {
			pending = &a
			continue
		}
		actions = append(actions, a)
	}
	if err := sc.Err(); err != nil {
		return nil, domain.InvalidRequest("read bulk body: %v", err)
	}
	if pending != nil {
		return nil, domain.InvalidRequest("bulk action [%s] on line %d is missing its document", pending.Op, lineNo)
	}
	return actions, nil
}

func parseBulkAction(line []byte, defaultIndex string, lineNo int) (dombulk.Action, error) {
	var header map[string]bulkMeta
	if err := json.Unmarshal(line, &header); err != nil {
		return dombulk.Action{}, domain.InvalidRequest("malformed action on line %d: %v", lineNo, err)
	}
	if len(header) != 1 {
		return dombulk.Action{}, domain.InvalidRequest(
			"action on line %d must name exactly one operation, got %d", lineNo, len(header))
	}

	for name, meta := range header {
		op, err := dombulk.ParseOp(name)
		if err != nil {
			return dombulk.Action{}, domain.InvalidRequest("line %d: %v", lineNo, err)
		}
		if meta.Index == "" {
			meta.Index = defaultIndex
		}
		if meta.Index == "" {
			return dombulk.Action{}, domain.InvalidRequest("action on line %d is missing _index", lineNo)
		}
		return dombulk.Action{Op: op, Index: meta.Index, ID: meta.ID}, nil
	}
	return dombulk.Action{}, nil
}

func parseBulkDocument(line []byte, op dombulk.Op, lineNo int) (any, error) {
	var doc any
	if err := json.Unmarshal(line, &doc); err != nil {
		return nil, domain.InvalidRequest("malformed document on line %d: %v", lineNo, err)
	}
	if op != dombulk.OpUpdate {
		return doc, nil
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, domain.InvalidRequest("update document on line %d must be an object", lineNo)
	}
	if inner, ok := obj["doc"]; ok {
		return inner, nil
	}
	return obj, nil
}
