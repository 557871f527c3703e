package readthrough

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrSuperseded is returned by Load when a newer load started before
	// this one finished; the caller must discard the result.
	ErrSuperseded = errors.New("load superseded by newer load")

	// ErrInFlight is returned by TryLoad while another load is running.
	ErrInFlight = errors.New("load already in flight")
)

// Guard serializes the data loads of a single view.
//
// Load implements abort-based supersession: starting a new load cancels the
// context handed to the previous one, and a previous load that completes
// anyway gets ErrSuperseded instead of its result being applied. The view
// therefore always reflects the most recently started load, never an
// interleaving of two.
//
// TryLoad is the drop-variant: while a load is in flight, further loads are
// refused rather than queued. No stale-overwrite race either, but the view
// reacts to rapid parameter changes only after the running load settles.
type Guard struct {
	mu       sync.Mutex
	seq      uint64
	cancel   context.CancelFunc
	inflight bool
}

// Load runs fn under the abort-based contract. fn must honor its context.
func (g *Guard) Load(ctx context.Context, fn func(ctx context.Context) error) error {
	g.mu.Lock()
	if g.cancel != nil {
		g.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	g.seq++
	seq := g.seq
	g.cancel = cancel
	g.mu.Unlock()

	err := fn(loadCtx)

	g.mu.Lock()
	current := g.seq == seq
	if current {
		g.cancel = nil
	}
	g.mu.Unlock()
	cancel()

	if !current {
		return ErrSuperseded
	}
	return err
}

// TryLoad runs fn unless a load is already in flight, in which case the
// call is dropped with ErrInFlight.
func (g *Guard) TryLoad(ctx context.Context, fn func(ctx context.Context) error) error {
	g.mu.Lock()
	if g.inflight {
		g.mu.Unlock()
		return ErrInFlight
	}
	g.inflight = true
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.inflight = false
		g.mu.Unlock()
	}()

	return fn(ctx)
}
