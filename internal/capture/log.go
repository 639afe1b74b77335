package capture

import (
	"context"
	"log/slog"

	"go.klb.dev/clipjar/internal/entry"
)

const logPreviewWidth = 120

// logEntry logs a captured entry at INFO (kind, size) and, at DEBUG, a
// single-line preview of its content.
func logEntry(log *slog.Logger, event string, e entry.Entry) {
	log.Info(event, "kind", e.Kind.String(), "bytes", len(e.Content))
	if !log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	log.Debug("entry content", "kind", e.Kind.String(), "preview", e.Preview(logPreviewWidth))
}
