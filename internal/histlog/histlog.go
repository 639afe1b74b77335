// Package histlog persists clipboard history across restarts.
//
// Every backend satisfies the same Log contract so the rest of clipjar does
// not care where history lives:
//
//	file    append-only line log (default; see codec.go for the format)
//	sqlite  single-table SQLite database (modernc.org/sqlite, no cgo)
//	badger  Badger key-value directory
//
// Persistence is best effort per write. A failed Append is reported to the
// caller, which keeps its in-memory history regardless.
package histlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.klb.dev/clipjar/internal/entry"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("histlog: unknown backend")

// Log is the durable history contract.
type Log interface {
	// Initialize prepares the storage location, creating it if absent.
	// An error means the location is unusable and startup must stop.
	Initialize() error

	// Append persists one entry after the existing ones.
	Append(e entry.Entry) error

	// Load returns at most limit of the most recently appended entries,
	// newest first. limit <= 0 means no limit. Records that cannot be
	// decoded are skipped.
	Load(limit int) ([]entry.Entry, error)

	// Clear removes every persisted entry.
	Clear() error

	// Count returns the number of persisted records.
	Count() (int, error)

	// Path returns the storage location.
	Path() string

	// Close releases held resources.
	Close() error
}

// Open returns an uninitialised Log for backend at path.
func Open(backend, path string) (Log, error) {
	switch strings.ToLower(backend) {
	case "", BackendFile:
		return NewFile(path), nil
	case BackendSQLite:
		return NewSQLite(path), nil
	case BackendBadger:
		return NewBadger(path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// DefaultPath returns the default history location for backend:
// $XDG_DATA_HOME/clipjar/<name>, falling back to ~/.local/share/clipjar.
func DefaultPath(backend string) string {
	name := "history.log"
	switch strings.ToLower(backend) {
	case BackendSQLite:
		name = "history.db"
	case BackendBadger:
		name = "history.badger"
	}
	return filepath.Join(dataDir(), name)
}

func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "clipjar")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "clipjar")
	}
	return filepath.Join(os.TempDir(), "clipjar")
}

// ensureDir creates the parent directory of path with owner-only permissions.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
