// Package kv defines the key/value persistence contract used for
// session-scoped storefront state (cart contents, region selection).
package kv

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("key not found")

// Store is a minimal key/value store. Implementations must be safe for
// concurrent use.
//
// Callers in the domain layer treat the store as non-critical convenience
// state: they fall back to defaults on Get errors and ignore Set/Delete
// errors, so implementations should not retry internally.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes the value for key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
