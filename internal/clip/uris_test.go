package clip

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURIListRoundTrip(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}
	paths := []string{"/tmp/a b.txt", "/home/user/report.pdf"}
	list := FormatURIList(paths)
	assert.Equal(t, "file:///tmp/a%20b.txt\r\nfile:///home/user/report.pdf\r\n", list)

	got, ok := ParseURIList(list)
	require.True(t, ok)
	assert.Equal(t, paths, got)
}

func TestParseURIList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
		ok   bool
	}{
		{"single", "file:///etc/hosts", []string{filepath.FromSlash("/etc/hosts")}, true},
		{"localhost", "file://localhost/etc/hosts\n", []string{filepath.FromSlash("/etc/hosts")}, true},
		{"comments", "# copied by nautilus\nfile:///a\n\nfile:///b\n", []string{filepath.FromSlash("/a"), filepath.FromSlash("/b")}, true},
		{"plain text", "hello world", nil, false},
		{"mixed", "file:///a\nhttp://example.com/b", nil, false},
		{"remote host", "file://server/share/x", nil, false},
		{"empty", "", nil, false},
		{"only comments", "# nothing\n", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseURIList(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseURIListWindowsDrive(t *testing.T) {
	got, ok := ParseURIList("file:///C:/Users/me/a.txt")
	require.True(t, ok)
	assert.Equal(t, []string{filepath.FromSlash("C:/Users/me/a.txt")}, got)
}

func TestFormatURIListSkipsEmpty(t *testing.T) {
	assert.Equal(t, "", FormatURIList(nil))
	assert.Equal(t, "", FormatURIList([]string{""}))
}
