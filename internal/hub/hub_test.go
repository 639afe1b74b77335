package hub

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/clipjar/internal/entry"
)

func TestPublishFansOut(t *testing.T) {
	h := New()
	a := NewChanSubscriber("a", 4)
	b := NewChanSubscriber("b", 4)
	h.Register(a)
	h.Register(b)
	assert.Equal(t, 2, h.Count())

	e := entry.New("hello", entry.KindText)
	h.Publish(e)

	for _, s := range []*ChanSubscriber{a, b} {
		select {
		case got := <-s.C():
			assert.Equal(t, "hello", got.Content)
		default:
			t.Fatalf("%s received nothing", s.ID())
		}
	}

	latest, ok := h.Latest()
	require.True(t, ok)
	assert.Equal(t, e, latest)
}

func TestUnregister(t *testing.T) {
	h := New()
	s := NewChanSubscriber("gone", 1)
	h.Register(s)
	h.Unregister(s)
	assert.Equal(t, 0, h.Count())

	h.Publish(entry.New("x", entry.KindText))
	assert.Empty(t, s.C())
}

func TestFullSubscriberDoesNotBlock(t *testing.T) {
	h := New()
	s := NewChanSubscriber("slow", 1)
	h.Register(s)

	h.Publish(entry.New("one", entry.KindText))
	h.Publish(entry.New("two", entry.KindText))

	got := <-s.C()
	assert.Equal(t, "one", got.Content)
	assert.Empty(t, s.C())
}

func TestLatestEmpty(t *testing.T) {
	_, ok := New().Latest()
	assert.False(t, ok)
}

func TestDroppedEntryLogsUnderHubComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	s := NewChanSubscriber("slow", 1)
	s.Send(entry.New("one", entry.KindText))
	s.Send(entry.New("two", entry.KindText))

	out := buf.String()
	assert.Contains(t, out, `"component":"hub"`)
	assert.Contains(t, out, `"subscriber":"slow"`)
}
