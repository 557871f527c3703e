// Package settings holds the display settings shared across content views:
// interface language and color theme. Settings are passed by value as a
// Snapshot instead of read from package-level state, so concurrent views
// never observe a half-applied change, and subscribers are notified when a
// snapshot replaces the current one.
package settings

import (
	"sync"

	"github.com/daklak-museum/content-client/pkg/cache"
)

// Themes supported by the frontend.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Snapshot is one immutable view of the display settings.
type Snapshot struct {
	Language string
	Theme    string
}

// normalize fills unset fields with defaults.
func (s Snapshot) normalize() Snapshot {
	if s.Language == "" {
		s.Language = cache.DefaultLanguage
	}
	if s.Theme == "" {
		s.Theme = ThemeLight
	}
	return s
}

// Manager owns the current settings snapshot and fans out changes to
// subscribers.
type Manager struct {
	mu      sync.RWMutex
	current Snapshot
	subs    map[int]chan Snapshot
	nextID  int
}

// NewManager creates a manager seeded with the given snapshot. Empty fields
// fall back to the defaults (language "vi", light theme).
func NewManager(initial Snapshot) *Manager {
	return &Manager{
		current: initial.normalize(),
		subs:    make(map[int]chan Snapshot),
	}
}

// Current returns the active snapshot.
func (m *Manager) Current() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Update replaces the current snapshot and notifies subscribers. An update
// that changes nothing is dropped silently.
func (m *Manager) Update(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s = s.normalize()
	if s == m.current {
		return
	}
	m.current = s

	for _, ch := range m.subs {
		// latest wins per subscriber, never block the updater
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

// SetLanguage switches the interface language, keeping the theme.
func (m *Manager) SetLanguage(lang string) {
	m.Update(Snapshot{Language: lang, Theme: m.Current().Theme})
}

// SetTheme switches the color theme, keeping the language.
func (m *Manager) SetTheme(theme string) {
	m.Update(Snapshot{Language: m.Current().Language, Theme: theme})
}

// Subscribe registers for settings changes. The returned channel is
// buffered with capacity one and latest-wins. The cancel function removes
// the subscription; it is safe to call more than once.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	ch := make(chan Snapshot, 1)
	m.subs[id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
	return ch, cancel
}

// Query applies the snapshot's language to a query that has none set.
func (m *Manager) Query(q cache.Query) cache.Query {
	if q.Language == "" {
		q.Language = m.Current().Language
	}
	return q
}
