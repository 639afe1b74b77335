package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipjar/internal/ipc"
	"go.klb.dev/clipjar/internal/message"
	"go.klb.dev/clipjar/internal/wire"
)

func newWatchCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print clipboard captures as they happen",
		Long: `Streams every entry the daemon captures until interrupted. Restored
entries are not captured and so are not printed.

Requires a running daemon.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runWatch(cmd, v) },
	}

	f := cmd.Flags()
	f.StringP("output", "o", outputPlain, "output format: plain|json")
	f.Int("width", 0, "preview width in columns (default: fit the terminal, or 80)")

	return cmd
}

func runWatch(cmd *cobra.Command, v *viper.Viper) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := ipc.Dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	wc := wire.New(conn)
	if err := wc.WriteMsg(&message.Message{Type: message.TypeWatch}); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	ack, err := wc.ReadMsg()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := ack.Err(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	format := v.GetString("output")
	width := previewWidth(out, v.GetInt("width"), format)
	return streamEntries(ctx, wc, func(we message.Entry) error {
		return renderHistory(out, []message.Entry{we}, format, width)
	})
}

// streamEntries calls fn for each ENTRY message until the connection ends.
func streamEntries(ctx context.Context, wc *wire.Conn, fn func(message.Entry) error) error {
	for {
		msg, err := wc.ReadMsg()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		}
		if msg.Type != message.TypeEntry || msg.Entry == nil {
			continue
		}
		if err := fn(*msg.Entry); err != nil {
			return err
		}
	}
}
