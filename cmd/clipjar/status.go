package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipjar/internal/ipc"
	"go.klb.dev/clipjar/internal/message"
)

func newStatusCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and history status",
		Long: `Reports whether a daemon is running and, if so, its clipboard backend,
history store and entry counts. Without a daemon the history log is
inspected directly.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runStatus(cmd, v) },
	}

	f := cmd.Flags()
	f.Bool("json", false, "output raw JSON")
	addStoreFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runStatus(cmd *cobra.Command, v *viper.Viper) error {
	w := cmd.OutOrStdout()

	if ipc.IsRunning() {
		reply, err := daemonRequest(cmd.Context(), &message.Message{Type: message.TypeStatus})
		if err != nil {
			return fmt.Errorf("status: %w", err)
		}
		if reply.Status == nil {
			return fmt.Errorf("status: empty response")
		}
		if v.GetBool("json") {
			return writeJSON(w, reply.Status)
		}
		printStatus(w, reply.Status)
		return nil
	}

	l, err := openLog(v)
	if err != nil {
		return err
	}
	defer l.Close()
	offline := struct {
		Running bool   `json:"running"`
		Socket  string `json:"socket"`
		LogPath string `json:"log_path"`
		Records int    `json:"records"`
	}{Socket: ipc.SocketPath(), LogPath: l.Path()}
	if err := l.Initialize(); err == nil {
		offline.Records, _ = l.Count()
	}

	if v.GetBool("json") {
		return writeJSON(w, offline)
	}
	tw := newKVTable(w)
	tw.AppendRows([]table.Row{
		{"Daemon", "not running"},
		{"Socket", offline.Socket},
		{"History", offline.LogPath},
		{"Records", offline.Records},
	})
	_ = tw.Render()
	return nil
}

func printStatus(w io.Writer, st *message.Status) {
	tw := newKVTable(w)
	tw.AppendRows([]table.Row{
		{"Daemon", fmt.Sprintf("running (pid %d, %s)", st.PID, st.Version)},
		{"Up", fmtAge(st.StartedAt)},
		{"Socket", ipc.SocketPath()},
		{"Clipboard", st.Clipboard},
		{"Store", st.Store},
		{"History", st.LogPath},
		{"Entries", fmt.Sprintf("%d / %d", st.Entries, st.Capacity)},
		{"Watchers", st.Watchers},
	})
	if st.LastCapture != nil {
		tw.AppendRow(table.Row{"Last capture", fmtAge(*st.LastCapture) + " ago"})
	}
	_ = tw.Render()
}

func newKVTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateColumns = false
	return tw
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fmtAge(t time.Time) string {
	age := time.Since(t).Round(time.Second)
	switch {
	case age < time.Minute:
		return fmt.Sprintf("%ds", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("%dm", int(age.Minutes()))
	case age < 48*time.Hour:
		return fmt.Sprintf("%dh%02dm", int(age.Hours()), int(age.Minutes())%60)
	default:
		return t.Local().Format("2006-01-02 15:04")
	}
}
