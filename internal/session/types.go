package session

import (
	"encoding/json"
	"time"
)

// SessionFile represents a discovered Claude Code session log
type SessionFile struct {
	ID      string    // Filename without .jsonl
	Path    string    // Full path to JSONL file
	Kind    string    // "session", "agent" or "other"
	Size    int64     // File size in bytes
	ModTime time.Time // File modification time
}

// Record represents a single JSONL line from a Claude Code session log.
// Timestamps are kept raw: user and assistant entries have historically
// used different encodings (ISO-8601 strings and Unix milliseconds).
type Record struct {
	Type       string          `json:"type"` // "user", "assistant", "summary", "file-history-snapshot"
	Timestamp  json.RawMessage `json:"timestamp,omitempty"`
	TS         json.RawMessage `json:"ts,omitempty"`
	RawMessage json.RawMessage `json:"message,omitempty"`

	Source string `json:"-"` // Path of the file the record was read from
}

// Message contains the prompt/response content of a record
type Message struct {
	RawContent json.RawMessage `json:"content"`
}

// RawTimestamp returns the record's timestamp value, preferring the
// "timestamp" key and falling back to "ts" when the former is absent or empty.
func (r Record) RawTimestamp() json.RawMessage {
	if !isEmptyValue(r.Timestamp) {
		return r.Timestamp
	}
	if !isEmptyValue(r.TS) {
		return r.TS
	}
	return nil
}

// Message decodes the record's message object.
// Returns nil when the message is absent or not an object.
func (r Record) Message() *Message {
	if len(r.RawMessage) == 0 {
		return nil
	}
	var msg Message
	if err := json.Unmarshal(r.RawMessage, &msg); err != nil {
		return nil
	}
	return &msg
}

// isEmptyValue reports whether a raw JSON value is missing or falsy
// (null, "", 0, false, [] or {}).
func isEmptyValue(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return true
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return true
	}
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case float64:
		return val == 0
	case bool:
		return !val
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}
