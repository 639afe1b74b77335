package hub

import (
	"log/slog"

	"go.klb.dev/clipjar/internal/entry"
	"go.klb.dev/clipjar/internal/logging"
)

// ChanSubscriber buffers entries on a channel for a single consumer.
// Entries that arrive while the buffer is full are dropped.
type ChanSubscriber struct {
	id  string
	ch  chan entry.Entry
	log *slog.Logger
}

// NewChanSubscriber returns a subscriber with room for buf pending entries.
func NewChanSubscriber(id string, buf int) *ChanSubscriber {
	return &ChanSubscriber{
		id:  id,
		ch:  make(chan entry.Entry, buf),
		log: logging.For("hub"),
	}
}

func (s *ChanSubscriber) ID() string { return s.id }

// Send implements Subscriber.
func (s *ChanSubscriber) Send(e entry.Entry) {
	select {
	case s.ch <- e:
	default:
		s.log.Warn("subscriber channel full, dropping entry", "subscriber", s.id)
	}
}

// C returns the channel entries are delivered on.
func (s *ChanSubscriber) C() <-chan entry.Entry { return s.ch }
