package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipjar/internal/ipc"
	"go.klb.dev/clipjar/internal/message"
)

func newClearCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the clipboard history",
		Long: `Empties the in-memory history of the running daemon and truncates the
history log. Without a daemon only the log is truncated.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runClear(cmd, v) },
	}

	addStoreFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runClear(cmd *cobra.Command, v *viper.Viper) error {
	if ipc.IsRunning() {
		_, err := daemonRequest(cmd.Context(), &message.Message{Type: message.TypeClear})
		if err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
			return nil
		}
		slog.Warn("daemon clear failed, truncating history log", "err", err)
	}

	l, err := openLog(v)
	if err != nil {
		return err
	}
	defer l.Close()
	if err := l.Initialize(); err != nil {
		return fmt.Errorf("open history %s: %w", l.Path(), err)
	}
	if err := l.Clear(); err != nil {
		return fmt.Errorf("clear history %s: %w", l.Path(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "history log %s cleared\n", l.Path())
	return nil
}
