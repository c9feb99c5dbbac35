package esdex

import "github.com/kailas-cloud/esdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrIndexNotFound         = domain.ErrIndexNotFound
	ErrDocumentNotFound      = domain.ErrDocumentNotFound
	ErrAliasNotFound         = domain.ErrAliasNotFound
	ErrInvalidRequest        = domain.ErrInvalidRequest
	ErrIndexAlreadyExists    = domain.ErrIndexAlreadyExists
	ErrDocumentAlreadyExists = domain.ErrDocumentAlreadyExists
	ErrStorage               = domain.ErrStorage
	ErrSerialization         = domain.ErrSerialization
)
