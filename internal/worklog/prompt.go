package worklog

import (
	"bytes"
	"encoding/json"

	"github.com/QuesmaOrg/worklog/internal/session"
)

// toolResultKey marks a content part that echoes a tool result back to the model.
const toolResultKey = "tool_use_id"

// IsGenuinePrompt reports whether a user record was typed by a human rather
// than being a tool result wrapped in a user turn. Anything that cannot be
// proven to be a tool result counts as genuine.
func IsGenuinePrompt(rec session.Record) bool {
	msg := rec.Message()
	if msg == nil {
		return true
	}
	return !hasToolResultMarker(msg.RawContent)
}

// hasToolResultMarker checks content that is either a list of parts or a
// single part object for the tool result marker.
func hasToolResultMarker(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}

	switch raw[0] {
	case '[':
		var parts []json.RawMessage
		if err := json.Unmarshal(raw, &parts); err != nil {
			return false
		}
		for _, part := range parts {
			if objectHasKey(part, toolResultKey) {
				return true
			}
		}
	case '{':
		return objectHasKey(raw, toolResultKey)
	}
	return false
}

func objectHasKey(raw json.RawMessage, key string) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	_, ok := obj[key]
	return ok
}
