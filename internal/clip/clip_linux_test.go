//go:build linux

package clip

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinuxWriteSignalsWatch(t *testing.T) {
	defer StubSystemWrites(false)()
	b := NewUnpolledLinux().(*linuxBackend)

	require.NoError(t, b.WriteText("hello"))
	waitSignal(t, b.Watch())
	assert.Equal(t, []byte("hello"), b.lastText)

	require.NoError(t, b.WriteFiles([]string{"/tmp/a"}))
	waitSignal(t, b.Watch())
	assert.Equal(t, []byte(FormatURIList([]string{"/tmp/a"})), b.lastText)
}

func TestLinuxRefusedWriteReportsError(t *testing.T) {
	defer StubSystemWrites(true)()
	b := NewUnpolledLinux().(*linuxBackend)
	b.lastText = []byte("before")

	err := b.WriteText("hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWriteFailed))

	err = b.WriteFiles([]string{"/tmp/a"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWriteFailed))

	noSignal(t, b.Watch())
	assert.Equal(t, []byte("before"), b.lastText)
}
