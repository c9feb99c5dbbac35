package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexNotFound signals a missing index.
	ErrIndexNotFound = errors.New("index not found")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrAliasNotFound signals a missing alias.
	ErrAliasNotFound = errors.New("alias not found")
	// ErrInvalidRequest signals malformed input or a rejected operation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrStorage signals a persistence backend failure.
	ErrStorage = errors.New("storage error")
	// ErrSerialization signals malformed persisted data.
	ErrSerialization = errors.New("serialization error")

	// ErrIndexAlreadyExists signals a duplicate index. Matches ErrInvalidRequest.
	ErrIndexAlreadyExists = fmt.Errorf("index already exists: %w", ErrInvalidRequest)
	// ErrDocumentAlreadyExists signals a create on an existing id. Matches ErrInvalidRequest.
	ErrDocumentAlreadyExists = fmt.Errorf("document already exists: %w", ErrInvalidRequest)
)

// NotFoundError carries the name of the missing resource.
type NotFoundError struct {
	Resource string
	Name     string
	sentinel error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s [%s] not found", e.Resource, e.Name)
}

func (e *NotFoundError) Unwrap() error { return e.sentinel }

// IndexNotFound creates an error matching ErrIndexNotFound.
func IndexNotFound(name string) error {
	return &NotFoundError{Resource: "index", Name: name, sentinel: ErrIndexNotFound}
}

// DocumentNotFound creates an error matching ErrDocumentNotFound.
func DocumentNotFound(id string) error {
	return &NotFoundError{Resource: "document", Name: id, sentinel: ErrDocumentNotFound}
}

// AliasNotFound creates an error matching ErrAliasNotFound.
func AliasNotFound(name string) error {
	return &NotFoundError{Resource: "alias", Name: name, sentinel: ErrAliasNotFound}
}

// InvalidRequest formats a caller error matching ErrInvalidRequest.
func InvalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
