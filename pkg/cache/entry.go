package cache

import (
	"encoding/json"
	"time"
)

// Entry represents a cached query result.
type Entry struct {
	// Key is the derived cache key this entry was stored under
	Key string `json:"key"`

	// Data is the opaque payload (a canonical paginated envelope, raw SVG
	// text, etc.), stored as JSON
	Data json.RawMessage `json:"data"`

	// CachedAt is when the entry was written
	CachedAt time.Time `json:"timestamp"`

	// TTL is how long after CachedAt the entry stays valid.
	// Zero means the entry never expires (deploy-scoped assets).
	TTL time.Duration `json:"ttl"`
}

// Valid reports whether the entry can still be served.
// An entry with no write timestamp is invalid regardless of TTL, so records
// written by older layouts read as misses instead of breaking callers.
func (e *Entry) Valid(now time.Time) bool {
	if e == nil || e.CachedAt.IsZero() {
		return false
	}
	if e.TTL == 0 {
		return true
	}
	return now.Sub(e.CachedAt) < e.TTL
}

// Expired reports whether the entry is past its TTL.
func (e *Entry) Expired(now time.Time) bool {
	return !e.Valid(now)
}

// Remaining returns the time until expiration.
// Returns 0 if already expired and a negative value never.
func (e *Entry) Remaining(now time.Time) time.Duration {
	if e == nil || e.TTL == 0 {
		return 0
	}
	left := e.TTL - now.Sub(e.CachedAt)
	if left < 0 {
		return 0
	}
	return left
}
