// Package hub fans captured entries out to interested subscribers.
// It is transport-agnostic: the daemon registers one subscriber per WATCH
// connection and the capture pipeline publishes every new entry.
package hub

import (
	"log/slog"
	"sync"

	"go.klb.dev/clipjar/internal/entry"
	"go.klb.dev/clipjar/internal/logging"
)

// Subscriber is anything that can receive captured entries from the hub.
type Subscriber interface {
	ID() string
	// Send delivers an entry. Must be non-blocking.
	Send(entry.Entry)
}

// Hub routes captured entries to all registered subscribers.
type Hub struct {
	mu        sync.RWMutex
	subs      map[string]Subscriber
	latest    entry.Entry
	hasLatest bool
	log       *slog.Logger
}

// New returns an empty Hub.
func New() *Hub {
	return &Hub{
		subs: make(map[string]Subscriber),
		log:  logging.For("hub"),
	}
}

// Register adds a subscriber. A subscriber with the same ID is replaced.
func (h *Hub) Register(s Subscriber) {
	h.mu.Lock()
	h.subs[s.ID()] = s
	total := len(h.subs)
	h.mu.Unlock()

	h.log.Info("subscriber registered", "subscriber", s.ID(), "total", total)
}

// Unregister removes a subscriber.
func (h *Hub) Unregister(s Subscriber) {
	h.mu.Lock()
	delete(h.subs, s.ID())
	total := len(h.subs)
	h.mu.Unlock()

	h.log.Info("subscriber unregistered", "subscriber", s.ID(), "total", total)
}

// Publish records e as the latest entry and delivers it to every subscriber.
func (h *Hub) Publish(e entry.Entry) {
	h.mu.Lock()
	h.latest = e
	h.hasLatest = true
	targets := make([]Subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		targets = append(targets, s)
	}
	h.mu.Unlock()

	for _, s := range targets {
		s.Send(e)
	}
}

// Latest returns the most recently published entry.
func (h *Hub) Latest() (entry.Entry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest, h.hasLatest
}

// Count returns the number of registered subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
