package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipjar/internal/histlog"
	"go.klb.dev/clipjar/internal/history"
	"go.klb.dev/clipjar/internal/logging"
)

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and CLIPJAR_* env var prefix.
//
// Precedence (lowest → highest): defaults → config file → CLIPJAR_* env vars → flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("clipjar")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/clipjar/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "clipjar"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix("CLIPJAR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// addLoggingFlags adds the standard logging flags to a command.
func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-background", false, "run interactively: tinter logs + debug level")
	cmd.Flags().String("log-format", "auto", "log format: auto|text|json")
	cmd.Flags().String("log-level", "", "log level: debug|info|warn|error (default: info for service, debug for interactive)")
}

// addConfigFlag adds the --config flag to a command.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file (overrides auto-discovery)")
}

// addStoreFlags adds the flags that locate the durable history.
func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", histlog.BackendFile, "history backend: file|sqlite|badger")
	cmd.Flags().String("history-file", "", "history location (default: $XDG_DATA_HOME/clipjar/history.<ext>)")
	cmd.Flags().Int("max-entries", history.DefaultCapacity, "number of entries kept in history")
}

// setupLogging reads logging flags from viper and configures slog.
func setupLogging(v *viper.Viper) {
	interactive := v.GetBool("no-background") || logging.IsTTY(os.Stderr)
	resolveLogging(interactive, v.GetString("log-format"), v.GetString("log-level"))
}

// openLog opens, but does not initialise, the configured history backend.
func openLog(v *viper.Viper) (histlog.Log, error) {
	backend := v.GetString("store")
	path := v.GetString("history-file")
	if path == "" {
		path = histlog.DefaultPath(backend)
	}
	return histlog.Open(backend, path)
}
