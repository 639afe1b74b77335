package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"

	"go.klb.dev/clipjar/internal/entry"
	"go.klb.dev/clipjar/internal/message"
)

const (
	outputTable = "table"
	outputPlain = "plain"
	outputJSON  = "json"
)

// renderHistory writes entries in the requested output format.
func renderHistory(w io.Writer, entries []message.Entry, format string, width int) error {
	switch strings.ToLower(format) {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if entries == nil {
			entries = []message.Entry{}
		}
		return enc.Encode(entries)
	case outputPlain:
		return writeHistoryPlain(w, entries, width)
	case outputTable, "":
		writeHistoryTable(w, entries, width)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, plain or json)", format)
	}
}

func writeHistoryPlain(w io.Writer, entries []message.Entry, width int) error {
	for _, we := range entries {
		e := we.Entry()
		if _, err := fmt.Fprintf(w, "%d: %s %s\n", we.Index, e.Kind.Label(), e.Preview(width)); err != nil {
			return err
		}
	}
	return nil
}

func writeHistoryTable(w io.Writer, entries []message.Entry, width int) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateHeader = true
	tw.Style().Options.DrawBorder = true

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
	})
	tw.AppendHeader(table.Row{"#", "Kind", "Captured", "Content"})

	for _, we := range entries {
		e := we.Entry()
		tw.AppendRow(table.Row{
			we.Index,
			e.Kind.Label(),
			formatCaptured(e.CapturedAt),
			e.Preview(width),
		})
	}
	if len(entries) == 0 {
		tw.AppendRow(table.Row{"-", "-", "-", "(history is empty)"})
	}
	_ = tw.Render()
}

const (
	minPreviewWidth = 20
	plainOverhead   = 12 // "NN: [FILES] "
	tableOverhead   = 44 // index, kind and time columns plus borders
)

// previewWidth picks the content width: the --width flag if set, else what
// fits the terminal, else entry.DefaultPreviewWidth.
func previewWidth(w io.Writer, flag int, format string) int {
	if flag > 0 {
		return flag
	}
	f, ok := w.(*os.File)
	if !ok {
		return entry.DefaultPreviewWidth
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 {
		return entry.DefaultPreviewWidth
	}
	overhead := plainOverhead
	if strings.EqualFold(format, outputTable) || format == "" {
		overhead = tableOverhead
	}
	return max(cols-overhead, minPreviewWidth)
}

// formatCaptured shows the time of day for today's entries and the date
// otherwise.
func formatCaptured(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	t = t.Local()
	now := time.Now()
	if y, m, d := t.Date(); y == now.Year() && m == now.Month() && d == now.Day() {
		return t.Format("15:04:05")
	}
	return t.Format("2006-01-02 15:04")
}

// entryPayload is what paste prints for an entry: text verbatim, file
// lists one path per line.
func entryPayload(e entry.Entry) string {
	if e.Kind == entry.KindFiles {
		return strings.Join(e.Files(), "\n") + "\n"
	}
	return e.Content
}
