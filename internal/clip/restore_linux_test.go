//go:build linux

package clip_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/clipjar/internal/capture"
	"go.klb.dev/clipjar/internal/clip"
	"go.klb.dev/clipjar/internal/entry"
	"go.klb.dev/clipjar/internal/history"
)

func TestRefusedSystemWriteDisarmsGate(t *testing.T) {
	defer clip.StubSystemWrites(true)()
	b := clip.NewUnpolledLinux()

	store := history.New(10)
	store.Add("/tmp/a;/tmp/b", entry.KindFiles)
	store.Add("hello", entry.KindText)

	gate := &capture.Gate{}
	r := capture.NewRestorer(store, gate, b)

	for i := range 2 {
		_, err := r.RestoreIndex(i, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, clip.ErrWriteFailed))
		assert.False(t, gate.Armed(), "index %d", i)
	}

	select {
	case <-b.Watch():
		t.Fatal("refused write signalled a change")
	default:
	}
}
