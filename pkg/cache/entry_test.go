package cache

import (
	"testing"
	"time"
)

func TestEntry_Valid(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		entry *Entry
		want  bool
	}{
		{
			name:  "fresh entry",
			entry: &Entry{CachedAt: now.Add(-1 * time.Minute), TTL: 5 * time.Minute},
			want:  true,
		},
		{
			name:  "expired entry",
			entry: &Entry{CachedAt: now.Add(-10 * time.Minute), TTL: 5 * time.Minute},
			want:  false,
		},
		{
			name:  "exactly at ttl boundary",
			entry: &Entry{CachedAt: now.Add(-5 * time.Minute), TTL: 5 * time.Minute},
			want:  false,
		},
		{
			name:  "just inside ttl",
			entry: &Entry{CachedAt: now.Add(-5*time.Minute + time.Millisecond), TTL: 5 * time.Minute},
			want:  true,
		},
		{
			name:  "zero ttl never expires",
			entry: &Entry{CachedAt: now.Add(-24 * time.Hour), TTL: 0},
			want:  true,
		},
		{
			name:  "missing timestamp is invalid",
			entry: &Entry{TTL: 5 * time.Minute},
			want:  false,
		},
		{
			name:  "nil entry is invalid",
			entry: nil,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.Valid(now); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_TTLBoundary(t *testing.T) {
	// set at t0 with ttl=1000ms: readable at t0+999ms, gone at t0+1001ms
	t0 := time.Now()
	entry := &Entry{CachedAt: t0, TTL: 1000 * time.Millisecond}

	if !entry.Valid(t0.Add(999 * time.Millisecond)) {
		t.Error("entry should be valid 999ms after write")
	}
	if entry.Valid(t0.Add(1001 * time.Millisecond)) {
		t.Error("entry should be expired 1001ms after write")
	}
}

func TestEntry_Remaining(t *testing.T) {
	now := time.Now()

	entry := &Entry{CachedAt: now.Add(-2 * time.Minute), TTL: 5 * time.Minute}
	if got := entry.Remaining(now); got != 3*time.Minute {
		t.Errorf("Remaining() = %v, want %v", got, 3*time.Minute)
	}

	expired := &Entry{CachedAt: now.Add(-10 * time.Minute), TTL: 5 * time.Minute}
	if got := expired.Remaining(now); got != 0 {
		t.Errorf("Remaining() for expired entry = %v, want 0", got)
	}
}
