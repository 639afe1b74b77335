// Package capture turns clipboard notifications into history entries and
// writes history entries back onto the clipboard.
//
// All work that touches the clipboard runs on a single Dispatcher goroutine,
// so a capture always completes before the next notification, restore or
// clear is handled.
package capture

import (
	"fmt"
	"log/slog"

	"go.klb.dev/clipjar/internal/clip"
	"go.klb.dev/clipjar/internal/entry"
	"go.klb.dev/clipjar/internal/history"
	"go.klb.dev/clipjar/internal/logging"
)

// Journal is the part of the durable log the capture side writes to.
// histlog.Log satisfies it.
type Journal interface {
	Append(entry.Entry) error
	Clear() error
}

// Pipeline handles one clipboard-change notification at a time.
type Pipeline struct {
	store    *history.Store
	journal  Journal
	gate     *Gate
	reader   clip.Reader
	onChange func(entry.Entry)
	log      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithOnChange sets the callback fired after each captured entry.
func WithOnChange(fn func(entry.Entry)) Option {
	return func(p *Pipeline) { p.onChange = fn }
}

// NewPipeline wires a pipeline to its collaborators.
func NewPipeline(store *history.Store, journal Journal, gate *Gate, reader clip.Reader, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:   store,
		journal: journal,
		gate:    gate,
		reader:  reader,
		log:     logging.For("capture"),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Handle runs the pipeline for one notification. It returns the captured
// entry and true when the history changed.
func (p *Pipeline) Handle() (entry.Entry, bool) {
	if p.gate.Consume() {
		p.log.Debug("notification suppressed after restore")
		return entry.Entry{}, false
	}

	kind, ok := Classify(p.reader.Formats())
	if !ok {
		return entry.Entry{}, false
	}
	content, err := Extract(p.reader, kind)
	if err != nil {
		p.log.Warn("clipboard read failed", "kind", kind.String(), "err", err)
		return entry.Entry{}, false
	}
	if content == "" {
		return entry.Entry{}, false
	}

	e := entry.New(content, kind)
	if !p.store.AddEntry(e) {
		return entry.Entry{}, false
	}
	if err := p.journal.Append(e); err != nil {
		// The in-memory entry stands; the next capture gets its own attempt.
		p.log.Warn("history append failed", "err", err)
	}
	logEntry(p.log, "clipboard captured", e)

	if p.onChange != nil {
		p.onChange(e)
	}
	return e, true
}

// Classify picks the entry kind for the formats on offer. Files win over
// images, images over text.
func Classify(fs clip.Formats) (entry.Kind, bool) {
	switch {
	case fs.Has(clip.FormatFiles):
		return entry.KindFiles, true
	case fs.Has(clip.FormatImage):
		return entry.KindImage, true
	case fs.Has(clip.FormatText):
		return entry.KindText, true
	default:
		return entry.KindText, false
	}
}

// Extract reads the clipboard content for kind. Images are never read;
// they are recorded as entry.ImagePlaceholder.
func Extract(r clip.Reader, kind entry.Kind) (string, error) {
	switch kind {
	case entry.KindFiles:
		paths, err := r.ReadFiles()
		if err != nil {
			return "", fmt.Errorf("read files: %w", err)
		}
		return entry.JoinFiles(paths), nil
	case entry.KindImage:
		return entry.ImagePlaceholder, nil
	default:
		text, err := r.ReadText()
		if err != nil {
			return "", fmt.Errorf("read text: %w", err)
		}
		return text, nil
	}
}
