// Package message defines the clipjar IPC protocol.
//
// All messages are newline-delimited JSON. Each message is exactly one
// line: <json>\n. A client sends one request and reads the reply; WATCH
// replies with a stream of ENTRY messages until the client disconnects.
package message

import (
	"encoding/json"
	"fmt"
	"time"

	"go.klb.dev/clipjar/internal/entry"
)

// Type identifies the kind of message.
type Type string

const (
	TypeList           Type = "LIST"
	TypeHistory        Type = "HISTORY"
	TypeRestore        Type = "RESTORE"
	TypeClear          Type = "CLEAR"
	TypeCopy           Type = "COPY"
	TypeStatus         Type = "STATUS"
	TypeStatusResponse Type = "STATUS_RESPONSE"
	TypeWatch          Type = "WATCH"
	TypeEntry          Type = "ENTRY"
	TypeOK             Type = "OK"
	TypeError          Type = "ERROR"
)

// Entry is a history entry as it travels over IPC.
type Entry struct {
	Index      int       `json:"index"`
	Kind       string    `json:"kind"`
	Content    string    `json:"content"`
	CapturedAt time.Time `json:"captured_at"`
}

// FromEntry converts the i-th newest history entry for the wire.
func FromEntry(i int, e entry.Entry) Entry {
	return Entry{
		Index:      i,
		Kind:       e.Kind.String(),
		Content:    e.Content,
		CapturedAt: e.CapturedAt,
	}
}

// Entry converts back to a history entry.
func (e Entry) Entry() entry.Entry {
	return entry.Entry{
		Kind:       entry.ParseKind(e.Kind),
		Content:    e.Content,
		CapturedAt: e.CapturedAt,
	}
}

// Status describes a running daemon.
type Status struct {
	Version     string     `json:"version"`
	PID         int        `json:"pid"`
	Clipboard   string     `json:"clipboard"`
	Store       string     `json:"store"`
	LogPath     string     `json:"log_path"`
	Entries     int        `json:"entries"`
	Capacity    int        `json:"capacity"`
	Watchers    int        `json:"watchers"`
	StartedAt   time.Time  `json:"started_at"`
	LastCapture *time.Time `json:"last_capture,omitempty"`
}

// Message is the top-level wire envelope.
type Message struct {
	Type Type `json:"type"`

	// LIST
	Query string `json:"query,omitempty"`
	Limit int    `json:"limit,omitempty"`

	// RESTORE
	Index int `json:"index,omitempty"`

	// COPY
	Text string `json:"text,omitempty"`

	// HISTORY
	Entries []Entry `json:"entries,omitempty"`

	// ENTRY, OK after a RESTORE, and optionally the entry a RESTORE expects
	// to find at Index
	Entry *Entry `json:"entry,omitempty"`

	// STATUS_RESPONSE
	Status *Status `json:"status,omitempty"`

	// ERROR
	Error string `json:"error,omitempty"`
}

// Encode serialises the message to JSON without a trailing newline.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Decode deserialises a message from raw JSON bytes.
func Decode(b []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("message decode: %w", err)
	}
	if m.Type == "" {
		return nil, fmt.Errorf("message decode: missing type")
	}
	return &m, nil
}

// Errorf builds an ERROR message.
func Errorf(format string, args ...any) *Message {
	return &Message{Type: TypeError, Error: fmt.Sprintf(format, args...)}
}

// Err returns the error carried by an ERROR message, or nil.
func (m *Message) Err() error {
	if m.Type != TypeError {
		return nil
	}
	return &RemoteError{Msg: m.Error}
}

// RemoteError is an error reported by the daemon.
type RemoteError struct {
	Msg string
}

func (e *RemoteError) Error() string { return "daemon: " + e.Msg }
