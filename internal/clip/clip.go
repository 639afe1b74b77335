// Package clip provides a unified interface to the system clipboard across
// platforms. Build constraints select the appropriate implementation:
//
//	clip_darwin.go   macOS via golang.design/x/clipboard + cgo changeCount
//	clip_windows.go  Windows via golang.design/x/clipboard + AddClipboardFormatListener
//	clip_linux.go    Linux via golang.design/x/clipboard, polling only
//	clip_other.go    everything else, in-memory clipboard
//
// File lists travel as text/uri-list (one file:// URI per line), which is
// what file managers put on the text clipboard when files are copied. On
// Windows the native CF_HDROP format is read and written instead.
package clip

import "errors"

var (
	// ErrUnsupported is returned for clipboard operations a backend cannot perform.
	ErrUnsupported = errors.New("clip: unsupported operation")

	// ErrWriteFailed is returned when the system clipboard refused a write,
	// for example because another process holds it open.
	ErrWriteFailed = errors.New("clip: clipboard write failed")
)

// Format is one representation the clipboard can currently offer.
type Format uint8

const (
	FormatText Format = 1 << iota
	FormatImage
	FormatFiles
)

// Formats is the set of representations currently on the clipboard.
type Formats uint8

// Has reports whether f is in the set.
func (fs Formats) Has(f Format) bool { return fs&Formats(f) != 0 }

// With returns the set with f added.
func (fs Formats) With(f Format) Formats { return fs | Formats(f) }

// Reader reads the current clipboard contents.
type Reader interface {
	// Formats returns the representations currently available.
	Formats() Formats

	// ReadText returns the clipboard text, or "" if there is none.
	ReadText() (string, error)

	// ReadFiles returns the absolute paths of copied files.
	ReadFiles() ([]string, error)
}

// Writer replaces the clipboard contents.
type Writer interface {
	WriteText(text string) error
	WriteFiles(paths []string) error
}

// Backend is the interface that all platform clipboard implementations satisfy.
type Backend interface {
	Reader
	Writer

	// Name returns a human-readable name for the backend.
	Name() string

	// Watch returns a channel that receives a signal whenever the clipboard
	// changes, including changes made through this backend's Writer. The
	// channel is never closed. The caller should consult the Reader when it
	// receives from the channel.
	Watch() <-chan struct{}

	// Close releases any resources held by the backend.
	Close()
}

// notify performs a non-blocking send on a watch channel. A pending signal
// already covers the new change.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
