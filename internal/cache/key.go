package cache

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"usadba-bot/internal/llm"
)

// keyWindowPairs bounds how many trailing user/assistant pairs take
// part in the fingerprint. Older context is deliberately excluded so a
// long conversation can still produce cache hits on repeated questions.
const keyWindowPairs = 3

// keyPayload fields are declared in sorted key order, which makes the
// marshalled form canonical.
type keyPayload struct {
	History     []llm.Message `json:"history"`
	UserMessage string        `json:"user_message"`
}

// DeriveKey produces the fingerprint for a (message, history) pair.
// The second return value is false for an empty message, meaning the
// cache must not be consulted at all. Equal inputs always yield equal
// fingerprints; any change to the message or the windowed history
// (including order) changes the result.
func DeriveKey(message string, history []llm.Message) (string, bool) {
	if message == "" {
		return "", false
	}
	data, err := json.Marshal(keyPayload{History: keyWindow(history), UserMessage: message})
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), true
}

// keyWindow keeps the system message plus the trailing window when the
// history is longer than system + keyWindowPairs pairs.
func keyWindow(history []llm.Message) []llm.Message {
	maxLen := keyWindowPairs*2 + 1
	if len(history) <= maxLen {
		return history
	}
	window := make([]llm.Message, 0, maxLen)
	window = append(window, history[0])
	window = append(window, history[len(history)-maxLen+1:]...)
	return window
}
