// Package readthrough implements the read-through caching policy shared by
// every list view: resolve a query against the namespace cache, fall back to
// the content API on a miss, populate the cache best-effort, and return the
// payload.
//
// # Resolving
//
//	resolver := readthrough.NewResolver(postsStore, imagesStore)
//	data, err := resolver.Resolve(ctx, cache.NamespacePosts, query,
//		client.PostsFetcher(), 0, readthrough.ShouldCache(query))
//
// A fetch failure propagates to the caller and never corrupts the cache; a
// cache write failure is logged and the in-memory result is returned anyway.
// Queries with an active search filter bypass the cache entirely (filtered
// results are too volatile to cache productively).
//
// # Per-view guards
//
// Guard serializes the loads of a single view. Load cancels the superseded
// in-flight load's context so a slow stale response cannot overwrite fresher
// state; TryLoad is the weaker drop-variant that refuses to start a second
// load while one is running. A view should use one or the other, not both.
//
// # Prefetching
//
// Prefetcher schedules a background fetch of the next page through the same
// Resolve path, so it naturally becomes a no-op when the page is already
// cached.
package readthrough
