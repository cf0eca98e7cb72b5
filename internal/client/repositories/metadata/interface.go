// Package metadata stores small key/value records of the local client cache.
package metadata

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("metadata key not found")

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes every listed key; absent keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
