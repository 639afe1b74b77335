package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"go.klb.dev/clipjar/internal/entry"
	"go.klb.dev/clipjar/internal/history"
	"go.klb.dev/clipjar/internal/ipc"
	"go.klb.dev/clipjar/internal/message"
	"go.klb.dev/clipjar/internal/wire"
)

// daemonRequest sends one request to the running daemon and returns its
// reply. ERROR replies are returned as errors.
func daemonRequest(ctx context.Context, msg *message.Message) (*message.Message, error) {
	conn, err := ipc.Dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	wc := wire.New(conn)
	if err := wc.WriteMsg(msg); err != nil {
		return nil, fmt.Errorf("send %s: %w", msg.Type, err)
	}
	reply, err := wc.ReadMsg()
	if err != nil {
		return nil, fmt.Errorf("read %s reply: %w", msg.Type, err)
	}
	if err := reply.Err(); err != nil {
		return nil, err
	}
	return reply, nil
}

// fetchHistory returns matching entries from the daemon if one is running,
// otherwise straight from the history log.
func fetchHistory(ctx context.Context, v *viper.Viper, query string, limit int) ([]message.Entry, error) {
	if ipc.IsRunning() {
		reply, err := daemonRequest(ctx, &message.Message{Type: message.TypeList, Query: query, Limit: limit})
		if err == nil {
			return reply.Entries, nil
		}
		slog.Warn("daemon list failed, reading history log", "err", err)
	}
	return readHistoryLog(v, query, limit)
}

// readHistoryLog replays the history log into a store the same way the
// daemon does at startup, so indexes match what a daemon would report.
func readHistoryLog(v *viper.Viper, query string, limit int) ([]message.Entry, error) {
	l, err := openLog(v)
	if err != nil {
		return nil, err
	}
	defer l.Close()
	if err := l.Initialize(); err != nil {
		return nil, fmt.Errorf("open history %s: %w", l.Path(), err)
	}

	store := history.New(v.GetInt("max-entries"))
	saved, err := l.Load(store.Capacity())
	if err != nil {
		return nil, fmt.Errorf("load history %s: %w", l.Path(), err)
	}
	replay(store, saved)

	hits := store.Find(query)
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]message.Entry, len(hits))
	for i, h := range hits {
		out[i] = message.FromEntry(h.Index, h.Entry)
	}
	return out, nil
}

// replay adds newest-first entries to store oldest-first.
func replay(store *history.Store, saved []entry.Entry) {
	for i := len(saved) - 1; i >= 0; i-- {
		store.AddEntry(saved[i])
	}
}
