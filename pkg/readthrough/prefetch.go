package readthrough

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/daklak-museum/content-client/pkg/cache"
)

// PrefetchConfig holds prefetcher configuration.
type PrefetchConfig struct {
	// Delay before the background fetch starts, so the primary read's
	// rendering is never contended.
	Delay time.Duration

	// Timeout per background fetch.
	Timeout time.Duration
}

// DefaultPrefetchConfig returns safe defaults.
func DefaultPrefetchConfig() PrefetchConfig {
	return PrefetchConfig{
		Delay:   100 * time.Millisecond,
		Timeout: 15 * time.Second,
	}
}

// Prefetcher warms the cache with the page a reader is most likely to ask
// for next. It rides the ordinary Resolve path, so an already-cached page
// costs nothing and a fetch failure only loses the head start.
type Prefetcher struct {
	resolver *Resolver
	config   PrefetchConfig
	logger   zerolog.Logger
}

// NewPrefetcher creates a prefetcher over a resolver.
func NewPrefetcher(resolver *Resolver, config PrefetchConfig) *Prefetcher {
	if config.Delay <= 0 {
		config.Delay = 100 * time.Millisecond
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &Prefetcher{
		resolver: resolver,
		config:   config,
		logger:   log.With().Str("component", "prefetch").Logger(),
	}
}

// NextPage schedules a background prefetch of the page after q, when there
// is one. Fire-and-forget: the fetch runs on a detached context so it
// survives the triggering view's lifecycle, and failures are only logged.
func (p *Prefetcher) NextPage(ns cache.Namespace, q cache.Query, totalPages int, fetch FetchFunc) {
	if q.Page+1 >= totalPages {
		return
	}

	next := q
	next.Page++

	go func() {
		time.Sleep(p.config.Delay)

		ctx, cancel := context.WithTimeout(context.Background(), p.config.Timeout)
		defer cancel()

		if err := p.Prefetch(ctx, ns, next, fetch); err != nil {
			p.logger.Warn().
				Err(err).
				Str("namespace", string(ns)).
				Int("page", next.Page).
				Msg("Next page prefetch failed")
		}
	}()
}

// Prefetch fetches one page through the read-through path synchronously.
// Exposed separately so callers and tests can await completion.
func (p *Prefetcher) Prefetch(ctx context.Context, ns cache.Namespace, q cache.Query, fetch FetchFunc) error {
	start := time.Now()
	_, err := p.resolver.Resolve(ctx, ns, q, fetch, 0, ShouldCache(q))
	if err != nil {
		return err
	}

	p.logger.Debug().
		Str("namespace", string(ns)).
		Int("page", q.Page).
		Dur("duration", time.Since(start)).
		Msg("Prefetched page")
	return nil
}
