// Package cache provides namespaced TTL caching for museum content queries.
//
// Each content kind (posts, images, videos, the SVG map asset) gets its own
// Store, an isolated partition over a durable backend. Stores offer:
//
// - Deterministic cache key derivation from query parameters
// - Lazy TTL expiration (stale entries read as misses)
// - Scoped invalidation after mutations (one category, one ethnic group, all)
// - Fail-open reads (backend errors degrade to cache misses)
// - Prometheus metrics for observability
//
// # Basic Usage
//
//	// Create Redis client
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	// Create a posts store with its default TTL (5 minutes)
//	store := cache.NewStore(cache.NamespacePosts, cache.NewRedisBackend(redisClient))
//
//	// Derive a key from a query
//	key := cache.Key(cache.NamespacePosts, cache.Query{Page: 0, Size: 5, Language: "vi"})
//
//	// Read through
//	data, err := store.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// fetch from the content API, then store.Set(ctx, key, payload, 0)
//	}
//
// # Invalidation
//
//	// After editing one ethnic group's images, only that group's pages drop:
//	store.Invalidate(ctx, cache.Scope{Ethnic: "EDE"})
//
//	// After deleting a post, every cached posts page drops:
//	store.Invalidate(ctx, cache.ScopeAll)
//
// # Backends
//
// Two backends are provided: Redis (NewRedisBackend) for shared deployments
// and an embedded GORM/SQLite store (NewGormBackend) for single-node use and
// hermetic tests. Both hold entries as JSON records carrying the write
// timestamp and TTL, so validity is checked uniformly on read.
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - museum_cache_hits_total{namespace} - Cache hits
//   - museum_cache_misses_total{namespace} - Cache misses
//   - museum_cache_errors_total{namespace,operation} - Backend operation errors
//   - museum_cache_invalidations_total{namespace} - Scoped invalidation runs
//
// Caching here is an optimization, never a correctness requirement: every
// failure path degrades to fetching from the content API.
package cache
