// Package debounce provides a trailing-edge debouncer for query state.
//
// Visitors type search text and flip filters much faster than the content
// API should be queried. A Debouncer tracks two values: the live value,
// updated on every Set for immediate UI state, and the settled value, which
// only follows after the input has been quiet for the configured delay.
// Consumers watch Changes() and fetch on settled values only.
package debounce

import (
	"sync"
	"time"
)

// Delays tuned for the museum frontend: list filters settle after one
// second, the global search box waits slightly longer.
const (
	DefaultDelay      = 1000 * time.Millisecond
	GlobalSearchDelay = 1200 * time.Millisecond
)

// Debouncer debounces updates to a value of type T. Set replaces the live
// value immediately and restarts the trailing timer; once the timer fires
// the live value becomes the settled value and is published on Changes.
type Debouncer[T comparable] struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	live    T
	settled T
	changes chan T
	stopped bool
}

// New creates a debouncer with the given trailing delay. A delay of zero
// or less falls back to DefaultDelay.
func New[T comparable](delay time.Duration) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{
		delay:   delay,
		changes: make(chan T, 1),
	}
}

// Set replaces the live value and restarts the trailing timer. Rapid
// successive calls coalesce: only the last value settles.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.live = v
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.settle)
}

// Live returns the most recent value passed to Set.
func (d *Debouncer[T]) Live() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live
}

// Settled returns the last value that survived the trailing delay.
func (d *Debouncer[T]) Settled() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settled
}

// Changes returns the settled-value channel. It is buffered with capacity
// one and latest-wins: if the consumer lags, older settled values are
// replaced, never queued.
func (d *Debouncer[T]) Changes() <-chan T {
	return d.changes
}

// Flush settles the live value immediately, cancelling any pending timer.
// Used when the input commits explicitly, e.g. pressing enter in search.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.settleLocked()
}

// Stop cancels any pending settle. Further Set calls are ignored. The
// Changes channel stays open so a blocked consumer never panics.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.stopped = true
}

func (d *Debouncer[T]) settle() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.settleLocked()
}

// settleLocked promotes live to settled and publishes it. A settle that
// does not change the settled value publishes nothing, so consumers never
// refetch an identical query.
func (d *Debouncer[T]) settleLocked() {
	if d.live == d.settled {
		return
	}
	d.settled = d.live

	// latest wins: drop the stale buffered value if nobody read it
	select {
	case <-d.changes:
	default:
	}
	d.changes <- d.settled
}
