package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipjar/internal/clip"
	"go.klb.dev/clipjar/internal/daemon"
	"go.klb.dev/clipjar/internal/histlog"
	"go.klb.dev/clipjar/internal/ipc"
)

func newDaemonCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Watch the clipboard and record its history",
		Long: `Starts the clipjar daemon. Every change to the system clipboard is added
to the front of the history (unless it repeats the newest entry) and appended
to the history log. The last --max-entries entries of the log are loaded on
start.

Other clipjar commands talk to the daemon over a Unix socket at
$CLIPJAR_SOCKET, $XDG_RUNTIME_DIR/clipjar.sock or $TMPDIR/clipjar.sock.

Changing max-entries in the config file takes effect without a restart.

Config file search order:
  /etc/clipjar/clipjar.toml
  $HOME/.config/clipjar/clipjar.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → CLIPJAR_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runDaemon(cmd.Context(), v) },
	}

	f := cmd.Flags()
	f.Bool("memory-clipboard", false, "use a process-local clipboard instead of the system one")
	addStoreFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runDaemon(ctx context.Context, v *viper.Viper) error {
	setupLogging(v)

	hl, err := openLog(v)
	if err != nil {
		return err
	}
	defer hl.Close()

	var backend clip.Backend
	if v.GetBool("memory-clipboard") {
		backend = clip.NewMemory()
	} else {
		backend = clip.New()
	}
	defer backend.Close()

	store := strings.ToLower(v.GetString("store"))
	if store == "" {
		store = histlog.BackendFile
	}

	slog.Info("clipjar daemon starting",
		"version", Version,
		"store", store,
		"history", hl.Path(),
		"max_entries", v.GetInt("max-entries"),
		"clipboard", backend.Name(),
	)

	d, err := daemon.New(daemon.Config{
		Log:       hl,
		Clipboard: backend,
		Capacity:  v.GetInt("max-entries"),
		Store:     store,
		Version:   Version,
	})
	if err != nil {
		return err
	}

	ln, err := ipc.Listen()
	if err != nil {
		return fmt.Errorf("ipc: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watchConfig(ctx, v, d)

	err = d.Run(ctx, ln)
	slog.Info("clipjar daemon stopped")
	return err
}

// watchConfig applies max-entries changes from the config file while the
// daemon runs.
func watchConfig(ctx context.Context, v *viper.Viper, d *daemon.Daemon) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		n := v.GetInt("max-entries")
		slog.Info("config file changed", "file", e.Name, "max_entries", n)
		if err := d.SetCapacity(ctx, n); err != nil {
			slog.Warn("applying max-entries failed", "err", err)
		}
	})
	v.WatchConfig()
	slog.Debug("watching config file", "file", v.ConfigFileUsed())
}
