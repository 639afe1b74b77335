package histlog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"go.klb.dev/clipjar/internal/entry"
)

// sqliteSchemaVersion is the latest schema version. Bump it when adding a
// migration.
const sqliteSchemaVersion = 1

var errNotInitialized = errors.New("histlog: not initialized")

// SQLite keeps history in a single SQLite table. Insertion order is the
// rowid, so newest first is ORDER BY id DESC.
type SQLite struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// NewSQLite returns a SQLite log at path. Call Initialize before use.
func NewSQLite(path string) *SQLite {
	return &SQLite{path: path}
}

func (s *SQLite) Path() string { return s.path }

// Initialize opens (creating if needed) the database and applies migrations.
func (s *SQLite) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}

	if err := ensureDir(s.path); err != nil {
		return fmt.Errorf("histlog: %w", err)
	}

	dsn := s.path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("histlog: open database: %w", err)
	}
	// One writer; the daemon serialises access anyway.
	db.SetMaxOpenConns(1)

	if err := migrateSQLite(db); err != nil {
		_ = db.Close()
		return err
	}
	_ = os.Chmod(s.path, 0o600)

	s.db = db
	return nil
}

func migrateSQLite(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return fmt.Errorf("histlog: get user_version: %w", err)
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS entries (
		  id          INTEGER PRIMARY KEY AUTOINCREMENT,
		  captured_at INTEGER NOT NULL,
		  kind        INTEGER NOT NULL,
		  content     TEXT NOT NULL
		);`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("histlog: migration 1 failed: %w", err)
		}
	}

	if version < sqliteSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", sqliteSchemaVersion)); err != nil {
			return fmt.Errorf("histlog: set user_version: %w", err)
		}
	}
	return nil
}

func (s *SQLite) conn() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, errNotInitialized
	}
	return s.db, nil
}

func (s *SQLite) Append(e entry.Entry) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(
		"INSERT INTO entries (captured_at, kind, content) VALUES (?, ?, ?)",
		e.CapturedAt.Unix(), int(e.Kind), e.Content,
	)
	if err != nil {
		return fmt.Errorf("histlog: insert: %w", err)
	}
	return nil
}

func (s *SQLite) Load(limit int) ([]entry.Entry, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := db.Query(
		"SELECT captured_at, kind, content FROM entries WHERE content != '' ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("histlog: query: %w", err)
	}
	defer rows.Close()

	var out []entry.Entry
	for rows.Next() {
		var (
			ts      int64
			kind    int
			content string
		)
		if err := rows.Scan(&ts, &kind, &content); err != nil {
			return nil, fmt.Errorf("histlog: scan: %w", err)
		}
		k := entry.Kind(kind)
		if !k.Valid() {
			k = entry.KindText
		}
		out = append(out, entry.Entry{
			Kind:       k,
			Content:    content,
			CapturedAt: time.Unix(ts, 0),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("histlog: rows: %w", err)
	}
	return out, nil
}

func (s *SQLite) Clear() error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if _, err := db.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("histlog: clear: %w", err)
	}
	return nil
}

func (s *SQLite) Count() (int, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("histlog: count: %w", err)
	}
	return n, nil
}

func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
