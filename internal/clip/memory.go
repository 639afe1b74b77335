package clip

import (
	"fmt"
	"slices"
	"sync"
)

// Memory is a process-local clipboard. It stands in for the system
// clipboard on headless hosts and in tests. The Set methods simulate a copy
// made by another application; both they and the Writer methods signal
// Watch.
type Memory struct {
	watchCh chan struct{}

	mu       sync.Mutex
	text     string
	files    []string
	image    bool
	writeErr error
	writes   int
}

var _ Backend = (*Memory)(nil)

// NewMemory returns an empty in-memory clipboard.
func NewMemory() *Memory {
	return &Memory{watchCh: make(chan struct{}, 1)}
}

func (m *Memory) Name() string { return "in-memory" }

// Set places text on the clipboard.
func (m *Memory) Set(text string) {
	m.mu.Lock()
	m.text, m.files, m.image = text, nil, false
	m.mu.Unlock()
	notify(m.watchCh)
}

// SetFiles places a file list on the clipboard. Like a file manager, it
// also offers the list as uri-list text.
func (m *Memory) SetFiles(paths ...string) {
	m.mu.Lock()
	m.text, m.files, m.image = FormatURIList(paths), slices.Clone(paths), false
	m.mu.Unlock()
	notify(m.watchCh)
}

// SetImage places an image on the clipboard.
func (m *Memory) SetImage() {
	m.mu.Lock()
	m.text, m.files, m.image = "", nil, true
	m.mu.Unlock()
	notify(m.watchCh)
}

// FailWrites makes every subsequent write return err. A nil err restores
// normal behaviour.
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	m.writeErr = err
	m.mu.Unlock()
}

// Writes returns the number of successful writes made through the Writer.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *Memory) Formats() Formats {
	m.mu.Lock()
	defer m.mu.Unlock()
	var fs Formats
	if m.text != "" {
		fs = fs.With(FormatText)
	}
	if len(m.files) > 0 {
		fs = fs.With(FormatFiles)
	}
	if m.image {
		fs = fs.With(FormatImage)
	}
	return fs
}

func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *Memory) ReadFiles() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.files) == 0 {
		return nil, fmt.Errorf("clipboard holds no file list: %w", ErrUnsupported)
	}
	return slices.Clone(m.files), nil
}

func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	if err := m.writeErr; err != nil {
		m.mu.Unlock()
		return err
	}
	m.text, m.files, m.image = text, nil, false
	m.writes++
	m.mu.Unlock()
	notify(m.watchCh)
	return nil
}

func (m *Memory) WriteFiles(paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no files to write: %w", ErrUnsupported)
	}
	m.mu.Lock()
	if err := m.writeErr; err != nil {
		m.mu.Unlock()
		return err
	}
	m.text, m.files, m.image = FormatURIList(paths), slices.Clone(paths), false
	m.writes++
	m.mu.Unlock()
	notify(m.watchCh)
	return nil
}

func (m *Memory) Watch() <-chan struct{} { return m.watchCh }
func (m *Memory) Close()                 {}
