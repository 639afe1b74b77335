// Package history implements the bounded in-memory clipboard history.
//
// The store keeps entries newest-first. Inserts go to the front and the
// oldest entry falls off the back once the capacity is exceeded. Only the
// newest entry is checked for duplicates: re-copying the same text twice in a
// row is ignored, but the same text reappearing after something else was
// copied is recorded again.
package history

import (
	"strings"
	"sync"

	"go.klb.dev/clipjar/internal/entry"
)

// DefaultCapacity is the number of entries kept when no capacity is configured.
const DefaultCapacity = 100

// Store is a bounded, deduplicating, goroutine-safe history of entries.
type Store struct {
	mu       sync.RWMutex
	entries  []entry.Entry // newest first
	capacity int
}

// New returns an empty Store. A capacity below 1 selects DefaultCapacity.
func New(capacity int) *Store {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Store{
		entries:  make([]entry.Entry, 0, capacity),
		capacity: capacity,
	}
}

// Add records content captured now. It reports whether the entry was stored;
// empty content and content equal to the newest entry are ignored.
func (s *Store) Add(content string, kind entry.Kind) bool {
	return s.AddEntry(entry.New(content, kind))
}

// AddEntry is Add with a caller-supplied entry, used when replaying the
// durable log so recorded timestamps survive a restart.
func (s *Store) AddEntry(e entry.Entry) bool {
	if e.Content == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) > 0 && s.entries[0].SameContent(e) {
		return false
	}

	s.entries = append(s.entries, entry.Entry{})
	copy(s.entries[1:], s.entries)
	s.entries[0] = e

	if len(s.entries) > s.capacity {
		s.entries[len(s.entries)-1] = entry.Entry{}
		s.entries = s.entries[:len(s.entries)-1]
	}
	return true
}

// Entries returns a copy of the history, newest first.
func (s *Store) Entries() []entry.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entry.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get returns the entry at index i (0 = newest).
func (s *Store) Get(i int) (entry.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.entries) {
		return entry.Entry{}, false
	}
	return s.entries[i], true
}

// Count returns the number of stored entries.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Capacity returns the current capacity.
func (s *Store) Capacity() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capacity
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
	s.entries = s.entries[:0]
}

// SetCapacity changes the capacity, discarding the oldest entries if the
// history no longer fits. Values below 1 are clamped to 1.
func (s *Store) SetCapacity(n int) {
	if n < 1 {
		n = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capacity = n
	if len(s.entries) > n {
		clear(s.entries[n:])
		s.entries = s.entries[:n]
	}
}

// Search returns the entries whose content contains query, ignoring case,
// newest first. An empty query returns the whole history.
func (s *Store) Search(query string) []entry.Entry {
	if query == "" {
		return s.Entries()
	}
	hits := s.Find(query)
	out := make([]entry.Entry, len(hits))
	for i, h := range hits {
		out[i] = h.Entry
	}
	return out
}

// Match is a search hit and its position in the full history.
type Match struct {
	Index int
	Entry entry.Entry
}

// Find is Search that also reports where each hit sits in the history, so
// the caller can restore it by index.
func (s *Store) Find(query string) []Match {
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Match, 0, len(s.entries))
	for i, e := range s.entries {
		if q == "" || strings.Contains(strings.ToLower(e.Content), q) {
			out = append(out, Match{Index: i, Entry: e})
		}
	}
	return out
}
