package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCacheMiss indicates the requested key was not found, was expired,
	// or could not be read. Reads fail open: callers fall back to the
	// content API on any miss.
	ErrCacheMiss = errors.New("cache miss")

	// ErrNotFound is returned by backends for absent keys.
	ErrNotFound = errors.New("key not found")
)

// Backend is a durable key-value store holding serialized cache entries.
// Implementations serialize their own transactions; callers must not assume
// atomicity across calls (a Get followed by a Set can race a concurrent
// invalidation, which is acceptable for disposable cache data).
type Backend interface {
	// Get returns the stored value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A positive ttl lets the backend reap the
	// record on its own once stale; zero means keep until deleted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	// Keys lists all stored keys beginning with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases backend resources.
	Close() error
}
