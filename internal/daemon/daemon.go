// Package daemon wires the history, durable log, clipboard backend and
// capture pipeline together and serves the IPC protocol to CLI clients.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"go.klb.dev/clipjar/internal/capture"
	"go.klb.dev/clipjar/internal/clip"
	"go.klb.dev/clipjar/internal/histlog"
	"go.klb.dev/clipjar/internal/history"
	"go.klb.dev/clipjar/internal/hub"
	"go.klb.dev/clipjar/internal/logging"
)

// Config holds the daemon's collaborators.
type Config struct {
	Log       histlog.Log
	Clipboard clip.Backend
	Capacity  int
	Store     string // durable backend name, reported by STATUS
	Version   string
}

// Daemon owns one clipboard history.
type Daemon struct {
	cfg        Config
	store      *history.Store
	gate       *capture.Gate
	hub        *hub.Hub
	dispatcher *capture.Dispatcher
	startedAt  time.Time
	nextWatch  atomic.Uint64
	log        *slog.Logger
}

// New initialises the durable log and replays it into a fresh history. A
// log that cannot be initialised is fatal; one that cannot be read only
// costs the previous session's entries.
func New(cfg Config) (*Daemon, error) {
	log := logging.For("daemon")
	if err := cfg.Log.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize history log %s: %w", cfg.Log.Path(), err)
	}

	store := history.New(cfg.Capacity)
	saved, err := cfg.Log.Load(store.Capacity())
	if err != nil {
		log.Warn("history log unreadable, starting empty", "path", cfg.Log.Path(), "err", err)
	}
	for i := len(saved) - 1; i >= 0; i-- {
		store.AddEntry(saved[i])
	}

	d := &Daemon{
		cfg:       cfg,
		store:     store,
		gate:      &capture.Gate{},
		hub:       hub.New(),
		startedAt: time.Now(),
		log:       log,
	}
	pipeline := capture.NewPipeline(store, cfg.Log, d.gate, cfg.Clipboard,
		capture.WithOnChange(d.hub.Publish))
	restorer := capture.NewRestorer(store, d.gate, cfg.Clipboard)
	d.dispatcher = capture.NewDispatcher(pipeline, restorer)

	log.Info("history loaded",
		"entries", store.Count(),
		"capacity", store.Capacity(),
		"store", cfg.Store,
		"path", cfg.Log.Path(),
	)
	return d, nil
}

// Store returns the in-memory history.
func (d *Daemon) Store() *history.Store { return d.store }

// Start launches the dispatch loop and the clipboard watcher. They stop
// when ctx is cancelled.
func (d *Daemon) Start(ctx context.Context) {
	go func() {
		if err := d.dispatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			d.log.Error("dispatcher stopped", "err", err)
		}
	}()
	go d.dispatcher.Pump(ctx, d.cfg.Clipboard.Watch())
	d.log.Info("watching clipboard", "backend", d.cfg.Clipboard.Name())
}

// Run starts the daemon and serves IPC connections on ln until ctx is
// cancelled.
func (d *Daemon) Run(ctx context.Context, ln net.Listener) error {
	d.Start(ctx)

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	d.log.Info("IPC socket listening", "addr", ln.Addr())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			d.log.Error("accept failed", "err", err)
			continue
		}
		go d.HandleConn(ctx, conn)
	}
}

// SetCapacity resizes the history on the dispatch goroutine.
func (d *Daemon) SetCapacity(ctx context.Context, n int) error {
	return d.dispatcher.SetCapacity(ctx, n)
}
