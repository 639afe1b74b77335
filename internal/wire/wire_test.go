package wire

import (
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/clipjar/internal/message"
)

func pipe(t *testing.T) (*Conn, *Conn) {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() {
		_ = a.Close()
		_ = b.Close()
	})
	return New(a), New(b)
}

func TestRoundTrip(t *testing.T) {
	client, server := pipe(t)

	go func() {
		_ = client.WriteMsg(&message.Message{Type: message.TypeList, Query: "needle", Limit: 5})
	}()
	got, err := server.ReadMsg()
	require.NoError(t, err)
	assert.Equal(t, message.TypeList, got.Type)
	assert.Equal(t, "needle", got.Query)
	assert.Equal(t, 5, got.Limit)
}

func TestContentWithNewlines(t *testing.T) {
	client, server := pipe(t)
	text := strings.Repeat("line\n", 10000)

	go func() {
		_ = server.WriteMsg(&message.Message{Type: message.TypeCopy, Text: text})
	}()
	got, err := client.ReadMsg()
	require.NoError(t, err)
	assert.Equal(t, text, got.Text)
}

func TestReadMalformed(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	go func() { _, _ = a.Write([]byte("{broken\n")) }()
	_, err := New(b).ReadMsg()
	assert.Error(t, err)
}
