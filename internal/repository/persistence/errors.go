package persistence

import (
	"fmt"

	"github.com/kailas-cloud/esdex/internal/domain"
)

func storageErr(op, key string, err error) error {
	if key == "" {
		return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
	}
	return fmt.Errorf("%w: %s %s: %w", domain.ErrStorage, op, key, err)
}

func serializationErr(op, key string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", domain.ErrSerialization, op, key, err)
}
