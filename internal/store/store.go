// Package store is the key-value persistence used by the mock backend.  It
// stands in for the browser storage the demo backend would otherwise keep
// its reservations in; the real backend client never touches it.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written or was
// deleted.
var ErrNotFound = errors.New("store: key not found")

// KV is a minimal byte-oriented key-value store.  Implementations must be
// safe for concurrent use.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
