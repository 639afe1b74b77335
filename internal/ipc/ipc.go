// Package ipc provides helpers for the local Unix-socket IPC channel used by
// CLI sub-commands (list, restore, clear, copy, status, watch) to talk to a
// running clipjar daemon.
//
// The socket carries newline-delimited JSON messages (see package message).
// Windows 10 and later support AF_UNIX, so the same transport is used
// everywhere.
package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

const dialTimeout = 2 * time.Second

// ErrNotRunning is returned by Dial when no daemon is listening.
var ErrNotRunning = errors.New("clipjar daemon is not running")

// SocketPath returns the path of the IPC socket:
//
//   - $CLIPJAR_SOCKET if set
//   - $XDG_RUNTIME_DIR/clipjar.sock on systems that provide it
//   - $TMPDIR/clipjar.sock otherwise
func SocketPath() string {
	if s := os.Getenv("CLIPJAR_SOCKET"); s != "" {
		return s
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "clipjar.sock")
	}
	return filepath.Join(os.TempDir(), "clipjar.sock")
}

// IsRunning reports whether a daemon appears to be listening on the IPC
// socket. It does a cheap dial-and-close; no data is exchanged.
func IsRunning() bool {
	c, err := Dial(context.Background())
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Dial connects to the daemon's IPC socket.
func Dial(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: dialTimeout}
	c, err := d.DialContext(ctx, "unix", SocketPath())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotRunning, err)
	}
	return c, nil
}

// Listen creates a net.Listener on the IPC socket path. A stale socket
// left by a crashed daemon is removed first; a live one is an error.
func Listen() (net.Listener, error) {
	path := SocketPath()
	if IsRunning() {
		return nil, fmt.Errorf("another daemon is listening on %s", path)
	}
	_ = os.Remove(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create socket dir: %w", err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", path, err)
	}
	return ln, nil
}
