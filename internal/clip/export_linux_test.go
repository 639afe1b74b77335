//go:build linux

package clip

import "golang.design/x/clipboard"

// NewUnpolledLinux returns the Linux backend without initialising the
// display or starting its poller.
func NewUnpolledLinux() Backend {
	return &linuxBackend{watchCh: make(chan struct{}, 1), done: make(chan struct{})}
}

// StubSystemWrites replaces the system clipboard write for the test. A
// refused write behaves like clipboard.Write when the clipboard is held.
func StubSystemWrites(refuse bool) (restore func()) {
	prev := clipboardWrite
	clipboardWrite = func(clipboard.Format, []byte) <-chan struct{} {
		if refuse {
			return nil
		}
		return make(chan struct{})
	}
	return func() { clipboardWrite = prev }
}
