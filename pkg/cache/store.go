package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Store is one namespaced cache partition. All keys are mapped into a
// per-namespace keyspace on the backend, so clearing or bulk-invalidating
// one namespace can never touch another.
type Store struct {
	ns         Namespace
	backend    Backend
	defaultTTL time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithDefaultTTL overrides the namespace default TTL.
func WithDefaultTTL(ttl time.Duration) StoreOption {
	return func(s *Store) { s.defaultTTL = ttl }
}

// WithClock overrides the time source, for TTL boundary tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates a cache store for one namespace.
func NewStore(ns Namespace, backend Backend, opts ...StoreOption) *Store {
	if backend == nil {
		panic("cache backend cannot be nil")
	}
	s := &Store{
		ns:         ns,
		backend:    backend,
		defaultTTL: ns.DefaultTTL(),
		logger:     log.With().Str("component", "cache").Str("namespace", string(ns)).Logger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Namespace returns the store's namespace.
func (s *Store) Namespace() Namespace { return s.ns }

// DefaultTTL returns the TTL used when Set is called with ttl 0.
func (s *Store) DefaultTTL() time.Duration { return s.defaultTTL }

// keyspace prefixes a derived key with the namespace partition.
func (s *Store) keyspace(key string) string {
	return fmt.Sprintf("museum:%s:%s", s.ns, key)
}

// Get returns the cached payload for key, or ErrCacheMiss.
//
// Reads fail open: absent entries, expired entries, undecodable records and
// backend errors all surface as ErrCacheMiss. Expired entries are deleted
// on the way out (lazy expiration).
func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, error) {
	raw, err := s.backend.Get(ctx, s.keyspace(key))
	if err != nil {
		if err != ErrNotFound {
			CacheErrors.WithLabelValues(string(s.ns), "get").Inc()
			s.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, treating as miss")
		}
		CacheMisses.WithLabelValues(string(s.ns)).Inc()
		return nil, ErrCacheMiss
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		CacheErrors.WithLabelValues(string(s.ns), "get").Inc()
		CacheMisses.WithLabelValues(string(s.ns)).Inc()
		return nil, ErrCacheMiss
	}

	if entry.Expired(s.now()) {
		_ = s.Delete(ctx, key)
		CacheMisses.WithLabelValues(string(s.ns)).Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues(string(s.ns)).Inc()
	return entry.Data, nil
}

// Set stores a payload under key, overwriting any existing entry.
// A ttl of 0 uses the namespace default (which may itself be "no expiry"
// for the SVG namespace).
func (s *Store) Set(ctx context.Context, key string, data json.RawMessage, ttl time.Duration) error {
	if ttl == 0 {
		ttl = s.defaultTTL
	}

	entry := Entry{
		Key:      key,
		Data:     data,
		CachedAt: s.now(),
		TTL:      ttl,
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues(string(s.ns), "set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := s.backend.Set(ctx, s.keyspace(key), raw, ttl); err != nil {
		CacheErrors.WithLabelValues(string(s.ns), "set").Inc()
		return fmt.Errorf("cache set %s: %w", key, err)
	}

	s.logger.Debug().Str("key", key).Dur("ttl", ttl).Msg("Cached payload")
	return nil
}

// Delete removes a single entry. Deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, s.keyspace(key)); err != nil {
		CacheErrors.WithLabelValues(string(s.ns), "delete").Inc()
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

// Clear drops every entry in the namespace.
func (s *Store) Clear(ctx context.Context) error {
	return s.InvalidateWhere(ctx, func(string) bool { return true })
}

// InvalidateWhere deletes all entries whose key matches the predicate.
// The predicate sees derived keys, without the namespace partition prefix.
func (s *Store) InvalidateWhere(ctx context.Context, match func(key string) bool) error {
	prefix := s.keyspace("")
	keys, err := s.backend.Keys(ctx, prefix)
	if err != nil {
		CacheErrors.WithLabelValues(string(s.ns), "invalidate").Inc()
		return fmt.Errorf("cache list keys: %w", err)
	}

	deleted := 0
	for _, full := range keys {
		key := full[len(prefix):]
		if !match(key) {
			continue
		}
		if err := s.backend.Delete(ctx, full); err != nil {
			CacheErrors.WithLabelValues(string(s.ns), "invalidate").Inc()
			return fmt.Errorf("cache delete %s: %w", key, err)
		}
		deleted++
	}

	CacheInvalidations.WithLabelValues(string(s.ns)).Inc()
	s.logger.Debug().Int("deleted", deleted).Msg("Invalidated cache entries")
	return nil
}

// Invalidate deletes every entry the scope selects. Call it after a
// successful mutation, before triggering the next read, so the next resolve
// is guaranteed a miss.
func (s *Store) Invalidate(ctx context.Context, scope Scope) error {
	return s.InvalidateWhere(ctx, scope.Matcher(s.ns))
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
