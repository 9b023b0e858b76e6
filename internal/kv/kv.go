// Package kv provides the pluggable key-value store the progress layer
// persists into. Production deployments bind it to Redis, Postgres or an
// embedded SQLite file; tests bind it to an in-memory map.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written
// (or has been deleted).
var ErrNotFound = errors.New("kv: key not found")

// Store is a minimal string key-value store. Values are opaque to the store;
// the progress layer encodes them as JSON.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
