// Package kvstore provides the key-value persistence contract used by
// the filter state store, with Redis, DynamoDB and in-memory backends.
//
// Keys are flat strings scoped by a per-account namespace; values are
// opaque strings (callers typically write JSON documents).
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a string key-value store. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
