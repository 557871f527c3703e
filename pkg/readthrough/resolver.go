package readthrough

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/daklak-museum/content-client/pkg/cache"
)

// FetchFunc fetches a query's payload from the backend content API.
type FetchFunc func(ctx context.Context, q cache.Query) (json.RawMessage, error)

// ShouldCache reports whether a query's results are worth caching: only
// unfiltered listings are. An active search filter (3+ runes after
// trimming) makes results too volatile and numerous to cache productively.
func ShouldCache(q cache.Query) bool {
	return q.NormalizedSearch() == ""
}

// Resolver applies the read-through policy over a set of namespace stores.
// Namespaces without a registered store resolve straight from the backend
// (the users listing is deliberately uncached).
type Resolver struct {
	stores map[cache.Namespace]*cache.Store
	logger zerolog.Logger
}

// NewResolver creates a resolver over the given stores.
func NewResolver(stores ...*cache.Store) *Resolver {
	m := make(map[cache.Namespace]*cache.Store, len(stores))
	for _, s := range stores {
		m[s.Namespace()] = s
	}
	return &Resolver{
		stores: m,
		logger: log.With().Str("component", "readthrough").Logger(),
	}
}

// Store returns the registered store for a namespace.
func (r *Resolver) Store(ns cache.Namespace) (*cache.Store, bool) {
	s, ok := r.stores[ns]
	return s, ok
}

// Resolve returns the payload for a query.
//
// With useCache true it checks the namespace store first and returns a
// valid entry without any network call. On a miss it invokes fetch, stores
// the result best-effort (a failed write is logged, not propagated) and
// returns it. Fetch errors propagate to the caller and nothing is written,
// so a failure can never mask or corrupt a cached value.
//
// A ttl of 0 uses the namespace default.
func (r *Resolver) Resolve(ctx context.Context, ns cache.Namespace, q cache.Query, fetch FetchFunc, ttl time.Duration, useCache bool) (json.RawMessage, error) {
	store, cached := r.stores[ns]
	if !cached || !useCache {
		return fetch(ctx, q)
	}

	key := cache.Key(ns, q)
	if data, err := store.Get(ctx, key); err == nil {
		r.logger.Debug().Str("namespace", string(ns)).Str("key", key).Msg("Cache hit")
		return data, nil
	}

	data, err := fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	if err := store.Set(ctx, key, data, ttl); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache payload")
	}
	return data, nil
}

// Invalidate drops the scope's entries in a namespace. Missing stores are a
// no-op, so callers can invalidate unconditionally after mutations.
func (r *Resolver) Invalidate(ctx context.Context, ns cache.Namespace, scope cache.Scope) error {
	store, ok := r.stores[ns]
	if !ok {
		return nil
	}
	return store.Invalidate(ctx, scope)
}
