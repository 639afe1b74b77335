package clip

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDropListRoundTrip(t *testing.T) {
	paths := []string{`C:\Users\me\a.txt`, `\\server\share\b.txt`, `D:\données\ü.png`}
	buf, err := encodeDropList(paths)
	require.NoError(t, err)
	// Double NUL terminator.
	assert.Equal(t, []uint16{0, 0}, buf[len(buf)-2:])
	assert.Equal(t, paths, decodeDropList(buf))
}

func TestEncodeDropListSkipsEmpty(t *testing.T) {
	buf, err := encodeDropList([]string{"", "a", ""})
	require.NoError(t, err)
	assert.Equal(t, []uint16{'a', 0, 0}, buf)
}

func TestEncodeDropListRejects(t *testing.T) {
	_, err := encodeDropList(nil)
	assert.True(t, errors.Is(err, ErrUnsupported))

	_, err = encodeDropList([]string{"bad\x00path"})
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestDecodeDropList(t *testing.T) {
	assert.Empty(t, decodeDropList(nil))
	assert.Empty(t, decodeDropList([]uint16{0, 0}))
	assert.Equal(t, []string{"a", "b"}, decodeDropList([]uint16{'a', 0, 'b', 0, 0, 'x', 0}))
	assert.Equal(t, []string{"a", "bc"}, decodeDropList([]uint16{'a', 0, 'b', 'c'}))
}
