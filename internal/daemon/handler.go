package daemon

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"go.klb.dev/clipjar/internal/entry"
	"go.klb.dev/clipjar/internal/hub"
	"go.klb.dev/clipjar/internal/message"
	"go.klb.dev/clipjar/internal/wire"
)

const (
	requestTimeout = 5 * time.Second
	watchBuffer    = 16
)

// HandleConn serves a single IPC request on conn and closes it.
func (d *Daemon) HandleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	wc := wire.New(conn)

	wc.SetReadDeadline(requestTimeout)
	msg, err := wc.ReadMsg()
	if err != nil {
		if err != io.EOF {
			d.log.Debug("ipc: bad request", "err", err)
		}
		return
	}
	wc.SetReadDeadline(0)
	d.log.Debug("ipc: request", "type", msg.Type)

	if msg.Type == message.TypeWatch {
		d.watch(ctx, wc)
		return
	}
	if err := wc.WriteMsg(d.reply(ctx, msg)); err != nil {
		d.log.Debug("ipc: write failed", "err", err)
	}
}

func (d *Daemon) reply(ctx context.Context, msg *message.Message) *message.Message {
	switch msg.Type {
	case message.TypeList:
		hits := d.store.Find(msg.Query)
		if msg.Limit > 0 && len(hits) > msg.Limit {
			hits = hits[:msg.Limit]
		}
		entries := make([]message.Entry, len(hits))
		for i, h := range hits {
			entries[i] = message.FromEntry(h.Index, h.Entry)
		}
		return &message.Message{Type: message.TypeHistory, Entries: entries}

	case message.TypeRestore:
		var want *entry.Entry
		if msg.Entry != nil {
			e := msg.Entry.Entry()
			want = &e
		}
		e, err := d.dispatcher.Restore(ctx, msg.Index, want)
		if err != nil {
			return message.Errorf("%v", err)
		}
		we := message.FromEntry(msg.Index, e)
		return &message.Message{Type: message.TypeOK, Entry: &we}

	case message.TypeClear:
		if err := d.dispatcher.Clear(ctx); err != nil {
			return message.Errorf("%v", err)
		}
		return &message.Message{Type: message.TypeOK}

	case message.TypeCopy:
		if msg.Text == "" {
			return message.Errorf("nothing to copy")
		}
		if err := d.dispatcher.Copy(ctx, msg.Text); err != nil {
			return message.Errorf("%v", err)
		}
		return &message.Message{Type: message.TypeOK}

	case message.TypeStatus:
		return &message.Message{Type: message.TypeStatusResponse, Status: d.status()}

	default:
		return message.Errorf("unsupported request %q", msg.Type)
	}
}

func (d *Daemon) status() *message.Status {
	st := &message.Status{
		Version:   d.cfg.Version,
		PID:       os.Getpid(),
		Clipboard: d.cfg.Clipboard.Name(),
		Store:     d.cfg.Store,
		LogPath:   d.cfg.Log.Path(),
		Entries:   d.store.Count(),
		Capacity:  d.store.Capacity(),
		Watchers:  d.hub.Count(),
		StartedAt: d.startedAt,
	}
	if e, ok := d.hub.Latest(); ok {
		at := e.CapturedAt
		st.LastCapture = &at
	}
	return st
}

// watch streams every captured entry to the client until it disconnects.
func (d *Daemon) watch(ctx context.Context, wc *wire.Conn) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sub := hub.NewChanSubscriber(fmt.Sprintf("watch-%d", d.nextWatch.Add(1)), watchBuffer)
	d.hub.Register(sub)
	defer d.hub.Unregister(sub)

	if err := wc.WriteMsg(&message.Message{Type: message.TypeOK}); err != nil {
		return
	}

	// Watch clients never send again; a read returning means they hung up.
	go func() {
		_, _ = wc.ReadMsg()
		cancel()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case e := <-sub.C():
			we := message.FromEntry(0, e)
			if err := wc.WriteMsg(&message.Message{Type: message.TypeEntry, Entry: &we}); err != nil {
				return
			}
		}
	}
}
