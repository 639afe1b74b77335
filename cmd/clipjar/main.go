// clipjar: clipboard history for the desktop.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.klb.dev/clipjar/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "clipjar",
		Short: "Clipboard history",
		Long: `clipjar records everything you copy and lets you put it back.

Run "clipjar daemon" in your session. It watches the system clipboard, keeps
the most recent entries in memory and appends every capture to a history log
that survives restarts. Use "clipjar list/paste/restore/clear/copy/status/watch"
from any terminal to work with the history.

Config file search order (first found wins):
  /etc/clipjar/clipjar.toml
  $HOME/.config/clipjar/clipjar.toml
  path supplied via --config

All flags can be set via CLIPJAR_<FLAG> env vars or config-file keys.
See "clipjar daemon --help" for the full flag reference.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newDaemonCmd(),
		newListCmd(),
		newPasteCmd(),
		newRestoreCmd(),
		newClearCmd(),
		newCopyCmd(),
		newStatusCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "clipjar %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
func resolveLogging(interactive bool, formatStr, levelStr string) {
	format := logging.ParseFormat(formatStr)
	level := logging.ParseLevel(levelStr)
	if levelStr == "" {
		if interactive {
			level = logging.ParseLevel("debug")
		} else {
			level = logging.ParseLevel("info")
		}
	}
	logging.Setup(os.Stderr, format, level)
}
