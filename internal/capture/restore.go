package capture

import (
	"errors"
	"fmt"
	"log/slog"

	"go.klb.dev/clipjar/internal/clip"
	"go.klb.dev/clipjar/internal/entry"
	"go.klb.dev/clipjar/internal/history"
	"go.klb.dev/clipjar/internal/logging"
)

var (
	// ErrNoEntry is returned when restoring an index outside the history.
	ErrNoEntry = errors.New("capture: no such history entry")

	// ErrStale is returned when the entry at an index is no longer the one
	// the caller listed.
	ErrStale = errors.New("capture: history changed since it was listed")

	errNoFiles = errors.New("capture: files entry holds no paths")
)

// Restorer writes history entries back onto the clipboard, arming the
// gate so the resulting notification is not captured again.
type Restorer struct {
	store  *history.Store
	gate   *Gate
	writer clip.Writer
	log    *slog.Logger
}

// NewRestorer wires a Restorer to its collaborators.
func NewRestorer(store *history.Store, gate *Gate, writer clip.Writer) *Restorer {
	return &Restorer{
		store:  store,
		gate:   gate,
		writer: writer,
		log:    logging.For("restore"),
	}
}

// RestoreIndex restores the i-th newest entry. A non-nil want pins the
// entry: unless the entry at i has the same content and, when want has one,
// the same capture time, nothing is written and ErrStale is returned.
func (r *Restorer) RestoreIndex(i int, want *entry.Entry) (entry.Entry, error) {
	e, ok := r.store.Get(i)
	if !ok {
		return entry.Entry{}, fmt.Errorf("restore %d: %w", i, ErrNoEntry)
	}
	if want != nil && !pinned(e, *want) {
		return entry.Entry{}, fmt.Errorf("restore %d: %w", i, ErrStale)
	}
	return e, r.Restore(e)
}

func pinned(got, want entry.Entry) bool {
	if !got.SameContent(want) {
		return false
	}
	return want.CapturedAt.IsZero() || got.CapturedAt.Equal(want.CapturedAt)
}

// Restore places e on the clipboard. Files entries are written as a file
// list, everything else as text. If the write fails the gate is disarmed
// before the error is returned.
func (r *Restorer) Restore(e entry.Entry) error {
	var paths []string
	if e.Kind == entry.KindFiles {
		if paths = e.Files(); len(paths) == 0 {
			return errNoFiles
		}
	}

	if err := r.gate.Arm(); err != nil {
		return err
	}

	var err error
	if paths != nil {
		err = r.writer.WriteFiles(paths)
	} else {
		err = r.writer.WriteText(e.Content)
	}
	if err != nil {
		r.gate.Disarm()
		return fmt.Errorf("restore %s entry: %w", e.Kind, err)
	}

	logEntry(r.log, "clipboard restored", e)
	return nil
}
