package bulk

import (
	"errors"
	"net/http"

	"github.com/kailas-cloud/esdex/internal/domain"
)

// Result values reported per item.
const (
	ResultCreated = "created"
	ResultUpdated = "updated"
	ResultDeleted = "deleted"
)

// Error types reported per failed item.
const (
	ErrTypeIndexNotFound   = "index_not_found_exception"
	ErrTypeDocumentMissing = "document_missing_exception"
	ErrTypeVersionConflict = "version_conflict_engine_exception"
	ErrTypeIllegalArgument = "illegal_argument_exception"
	ErrTypeStorage         = "storage_exception"
)

// Result is the outcome of one bulk action.
type Result struct {
	op     Op
	index  string
	id     string
	status int
	result string
	err    error
}

// NewOK creates a successful item result.
func NewOK(op Op, index, id string, status int, result string) Result {
	return Result{op: op, index: index, id: id, status: status, result: result}
}

// NewError creates a failed item result. The status is derived from err.
func NewError(op Op, index, id string, err error) Result {
	_, status := Classify(err)
	return Result{op: op, index: index, id: id, status: status, err: err}
}

// Op returns the action type.
func (r Result) Op() Op { return r.op }

// Index returns the target index.
func (r Result) Index() string { return r.index }

// ID returns the document id.
func (r Result) ID() string { return r.id }

// Status returns the HTTP-style item status.
func (r Result) Status() int { return r.status }

// Result returns created, updated or deleted for successful items.
func (r Result) Result() string { return r.result }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Failed reports whether the item failed.
func (r Result) Failed() bool { return r.err != nil }

// ErrorType returns the error type name of a failed item.
func (r Result) ErrorType() string {
	t, _ := Classify(r.err)
	return t
}

// Classify maps an item error to its error type and status.
func Classify(err error) (string, int) {
	switch {
	case err == nil:
		return "", http.StatusOK
	case errors.Is(err, domain.ErrIndexNotFound):
		return ErrTypeIndexNotFound, http.StatusNotFound
	case errors.Is(err, domain.ErrDocumentNotFound):
		return ErrTypeDocumentMissing, http.StatusNotFound
	case errors.Is(err, domain.ErrDocumentAlreadyExists):
		return ErrTypeVersionConflict, http.StatusConflict
	case errors.Is(err, domain.ErrInvalidRequest):
		return ErrTypeIllegalArgument, http.StatusBadRequest
	default:
		return ErrTypeStorage, http.StatusInternalServerError
	}
}

// Response aggregates the item results of one bulk request.
type Response struct {
	TookMillis int64
	Items      []Result
}

// Errors reports whether any item failed.
func (r Response) Errors() bool {
	for _, item := range r.Items {
		if item.Failed() {
			return true
		}
	}
	return false
}

// Indices returns the distinct indices touched by successful items, in
// first-seen order.
func (r Response) Indices() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, item := range r.Items {
		if item.Failed() {
			continue
		}
		if _, ok := seen[item.index]; ok {
			continue
		}
		seen[item.index] = struct{}{}
		out = append(out, item.index)
	}
	return out
}
