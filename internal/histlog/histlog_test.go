package histlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/clipjar/internal/entry"
)

// backends returns one initialised Log per backend, each in its own temp dir.
func backends(t *testing.T) map[string]Log {
	t.Helper()
	out := make(map[string]Log)
	for _, name := range []string{BackendFile, BackendSQLite, BackendBadger} {
		dir := t.TempDir()
		l, err := Open(name, filepath.Join(dir, "nested", "history"))
		require.NoError(t, err)
		require.NoError(t, l.Initialize(), name)
		t.Cleanup(func() { _ = l.Close() })
		out[name] = l
	}
	return out
}

func sample(n int) []entry.Entry {
	base := time.Unix(1700000000, 0)
	out := make([]entry.Entry, n)
	for i := range n {
		out[i] = entry.Entry{
			Kind:       entry.Kind(i % 3),
			Content:    fmt.Sprintf("entry %d | with pipe\nand newline", i),
			CapturedAt: base.Add(time.Duration(i) * time.Second),
		}
	}
	return out
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("postgres", "/tmp/x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownBackend))
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, filepath.Join("/data", "clipjar", "history.log"), DefaultPath(BackendFile))
	assert.Equal(t, filepath.Join("/data", "clipjar", "history.db"), DefaultPath(BackendSQLite))
	assert.Equal(t, filepath.Join("/data", "clipjar", "history.badger"), DefaultPath(BackendBadger))
}

func TestRoundTrip(t *testing.T) {
	for name, l := range backends(t) {
		t.Run(name, func(t *testing.T) {
			in := sample(7)
			for _, e := range in {
				require.NoError(t, l.Append(e))
			}

			n, err := l.Count()
			require.NoError(t, err)
			assert.Equal(t, 7, n)

			got, err := l.Load(5)
			require.NoError(t, err)
			require.Len(t, got, 5)
			for i, e := range got {
				want := in[len(in)-1-i]
				assert.Equal(t, want.Kind, e.Kind)
				assert.Equal(t, want.Content, e.Content)
				assert.Equal(t, want.CapturedAt.Unix(), e.CapturedAt.Unix())
			}

			all, err := l.Load(0)
			require.NoError(t, err)
			assert.Len(t, all, 7)
		})
	}
}

func TestClear(t *testing.T) {
	for name, l := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, e := range sample(3) {
				require.NoError(t, l.Append(e))
			}
			require.NoError(t, l.Clear())

			n, err := l.Count()
			require.NoError(t, err)
			assert.Equal(t, 0, n)

			got, err := l.Load(10)
			require.NoError(t, err)
			assert.Empty(t, got)

			// Appending after a clear still works.
			require.NoError(t, l.Append(sample(1)[0]))
			n, err = l.Count()
			require.NoError(t, err)
			assert.Equal(t, 1, n)
		})
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	for name, l := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, l.Append(sample(1)[0]))
			require.NoError(t, l.Initialize())
			n, err := l.Count()
			require.NoError(t, err)
			assert.Equal(t, 1, n)
		})
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	for _, name := range []string{BackendFile, BackendSQLite, BackendBadger} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "history")
			l, err := Open(name, path)
			require.NoError(t, err)
			require.NoError(t, l.Initialize())
			for _, e := range sample(2) {
				require.NoError(t, l.Append(e))
			}
			require.NoError(t, l.Close())

			l2, err := Open(name, path)
			require.NoError(t, err)
			require.NoError(t, l2.Initialize())
			defer l2.Close()
			require.NoError(t, l2.Append(entry.Entry{Content: "third", CapturedAt: time.Unix(1800000000, 0)}))

			got, err := l2.Load(0)
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, "third", got[0].Content)
		})
	}
}

func TestFileInitializeFailsOnBadPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	l := NewFile(filepath.Join(blocker, "history.log"))
	assert.Error(t, l.Initialize())
}

func TestFileLegacyLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.log")
	require.NoError(t, os.WriteFile(path, []byte("1600000000|old text\n"), 0o600))

	got, err := NewFile(path).Load(10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entry.KindText, got[0].Kind)
	assert.Equal(t, "old text", got[0].Content)
	assert.Equal(t, int64(1600000000), got[0].CapturedAt.Unix())
}

func TestFileSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.log")
	data := "1600000000|0|first\n" +
		"this line has no delimiter\n" +
		"1600000001|2|/a;/b\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	l := NewFile(path)
	got, err := l.Load(10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "/a;/b", got[0].Content)
	assert.Equal(t, entry.KindFiles, got[0].Kind)
	assert.Equal(t, "first", got[1].Content)

	// Count is a line count, not a parse.
	n, err := l.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestFileCountIgnoresBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.log")
	require.NoError(t, os.WriteFile(path, []byte("1|0|a\n\n\r\n2|0|b"), 0o600))

	n, err := NewFile(path).Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFileMissingIsEmpty(t *testing.T) {
	l := NewFile(filepath.Join(t.TempDir(), "absent.log"))
	got, err := l.Load(10)
	require.NoError(t, err)
	assert.Empty(t, got)
	n, err := l.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestFileAppendFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.log")
	l := NewFile(path)
	require.NoError(t, l.Initialize())
	require.NoError(t, l.Append(entry.Entry{Kind: entry.KindText, Content: "a|b", CapturedAt: time.Unix(42, 0)}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, FileHeader+"\n42|0|a\\pb\n", string(data))
}

func TestFileRoundTripsBackslashes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.log")
	l := NewFile(path)
	require.NoError(t, l.Initialize())
	e := entry.Entry{Kind: entry.KindText, Content: `literal \n and \p and \\share`, CapturedAt: time.Unix(42, 0)}
	require.NoError(t, l.Append(e))

	got, err := l.Load(1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, e, got[0])

	n, err := l.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFileLegacyUNCPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.log")
	require.NoError(t, os.WriteFile(path, []byte(`1600000000|2|\\server\share\a.txt`+"\n"), 0o600))

	got, err := NewFile(path).Load(10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, `\\server\share\a.txt`, got[0].Content)
}

func TestFileAppendKeepsLegacyEscaping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.log")
	require.NoError(t, os.WriteFile(path, []byte("1600000000|0|old\n"), 0o600))

	l := NewFile(path)
	require.NoError(t, l.Initialize())
	require.NoError(t, l.Append(entry.Entry{Kind: entry.KindFiles, Content: `\\server\share`, CapturedAt: time.Unix(1600000001, 0)}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1600000000|0|old\n1600000001|2|\\\\server\\share\n", string(data))

	got, err := l.Load(10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, `\\server\share`, got[0].Content)
}

func TestFileClearWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.log")
	require.NoError(t, os.WriteFile(path, []byte("1600000000|0|old\n"), 0o600))

	l := NewFile(path)
	require.NoError(t, l.Clear())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, FileHeader+"\n", string(data))

	n, err := l.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestUninitialisedEmbeddedBackendsFail(t *testing.T) {
	dir := t.TempDir()
	for _, l := range []Log{NewSQLite(filepath.Join(dir, "x.db")), NewBadger(filepath.Join(dir, "x.badger"))} {
		assert.Error(t, l.Append(sample(1)[0]))
		_, err := l.Load(1)
		assert.Error(t, err)
		assert.NoError(t, l.Close())
	}
}
