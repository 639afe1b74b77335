//go:build linux

package clip

import (
	"bytes"
	"log/slog"
	"sync"
	"time"

	"golang.design/x/clipboard"
)

const linuxPollInterval = 250 * time.Millisecond

type linuxBackend struct {
	watchCh chan struct{}
	done    chan struct{}

	mu       sync.Mutex
	lastText []byte
	lastImg  []byte
}

// New returns the Linux clipboard backend, or an in-memory backend if the
// display environment is unavailable (e.g. a headless server without X11
// or Wayland). clipboard.Init is called here rather than in init() so that
// CLI sub-commands that never watch the clipboard don't trigger the warning.
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, using in-memory clipboard", "err", err)
		return NewMemory()
	}
	b := &linuxBackend{
		watchCh:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		lastText: clipboard.Read(clipboard.FmtText),
		lastImg:  clipboard.Read(clipboard.FmtImage),
	}
	go b.poll()
	return b
}

func (b *linuxBackend) Name() string { return "Linux clipboard (poll)" }

func (b *linuxBackend) poll() {
	t := time.NewTicker(linuxPollInterval)
	defer t.Stop()
	for {
		select {
		case <-b.done:
			return
		case <-t.C:
			text := clipboard.Read(clipboard.FmtText)
			img := clipboard.Read(clipboard.FmtImage)
			b.mu.Lock()
			changed := !bytes.Equal(text, b.lastText) || !bytes.Equal(img, b.lastImg)
			if changed {
				b.lastText = text
				b.lastImg = img
			}
			b.mu.Unlock()
			if changed {
				notify(b.watchCh)
			}
		}
	}
}

func (b *linuxBackend) Formats() Formats             { return systemFormats() }
func (b *linuxBackend) ReadText() (string, error)    { return systemReadText() }
func (b *linuxBackend) ReadFiles() ([]string, error) { return systemReadFiles() }

// WriteText replaces the clipboard text. Polling cannot see a write that
// leaves the text unchanged, so a successful write signals Watch itself and
// the poller is told the new contents up front; every write yields exactly
// one notification. A failed write yields none.
func (b *linuxBackend) WriteText(text string) error {
	data, err := systemWriteText(text)
	if err != nil {
		return err
	}
	b.written(data)
	return nil
}

func (b *linuxBackend) WriteFiles(paths []string) error {
	data, err := systemWriteFiles(paths)
	if err != nil {
		return err
	}
	b.written(data)
	return nil
}

func (b *linuxBackend) written(text []byte) {
	b.mu.Lock()
	b.lastText = text
	b.lastImg = nil
	b.mu.Unlock()
	notify(b.watchCh)
}

func (b *linuxBackend) Watch() <-chan struct{} { return b.watchCh }
func (b *linuxBackend) Close()                 { close(b.done) }
