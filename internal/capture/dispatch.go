package capture

import (
	"context"
	"fmt"
	"log/slog"

	"go.klb.dev/clipjar/internal/clip"
	"go.klb.dev/clipjar/internal/entry"
	"go.klb.dev/clipjar/internal/history"
	"go.klb.dev/clipjar/internal/logging"
)

const queueDepth = 64

// Dispatcher is the single serialized queue for everything that reads or
// writes the clipboard or mutates the history: change notifications,
// restores, copies, clears and capacity changes run one at a time in
// arrival order.
type Dispatcher struct {
	pipeline *Pipeline
	restorer *Restorer
	store    *history.Store
	journal  Journal
	writer   clip.Writer
	queue    chan func()
	log      *slog.Logger
}

// NewDispatcher returns a Dispatcher. Call Run to start processing.
func NewDispatcher(p *Pipeline, r *Restorer) *Dispatcher {
	return &Dispatcher{
		pipeline: p,
		restorer: r,
		store:    p.store,
		journal:  p.journal,
		writer:   r.writer,
		queue:    make(chan func(), queueDepth),
		log:      logging.For("dispatch"),
	}
}

// Run processes queued work until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.log.Debug("dispatcher started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-d.queue:
			job()
		}
	}
}

// Pump posts a capture for every signal on watch until ctx is cancelled.
func (d *Dispatcher) Pump(ctx context.Context, watch <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-watch:
			if err := d.post(ctx, func() { d.pipeline.Handle() }); err != nil {
				return
			}
		}
	}
}

// Restore puts the i-th newest entry back on the clipboard. See
// Restorer.RestoreIndex for want.
func (d *Dispatcher) Restore(ctx context.Context, i int, want *entry.Entry) (entry.Entry, error) {
	var e entry.Entry
	err := d.do(ctx, func() error {
		var err error
		e, err = d.restorer.RestoreIndex(i, want)
		return err
	})
	return e, err
}

// Copy writes text to the clipboard without arming the gate, so the
// change is captured like any other copy.
func (d *Dispatcher) Copy(ctx context.Context, text string) error {
	return d.do(ctx, func() error {
		if err := d.writer.WriteText(text); err != nil {
			return fmt.Errorf("copy: %w", err)
		}
		return nil
	})
}

// Clear empties the in-memory history and truncates the durable log.
func (d *Dispatcher) Clear(ctx context.Context) error {
	return d.do(ctx, func() error {
		d.store.Clear()
		if err := d.journal.Clear(); err != nil {
			return fmt.Errorf("clear history log: %w", err)
		}
		d.log.Info("history cleared")
		return nil
	})
}

// SetCapacity resizes the in-memory history.
func (d *Dispatcher) SetCapacity(ctx context.Context, n int) error {
	return d.do(ctx, func() error {
		before := d.store.Capacity()
		d.store.SetCapacity(n)
		if after := d.store.Capacity(); after != before {
			d.log.Info("history capacity changed", "from", before, "to", after, "entries", d.store.Count())
		}
		return nil
	})
}

// do runs fn on the dispatch goroutine and waits for its result.
func (d *Dispatcher) do(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	if err := d.post(ctx, func() { done <- fn() }); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) post(ctx context.Context, job func()) error {
	select {
	case d.queue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
