package storage

import "time"

// Event records one completed chat turn. Events are appended in
// chronological order and feed the daily usage report.
type Event struct {
	Timestamp         time.Time `json:"timestamp"`
	ChatID            int64     `json:"chat_id"`
	Intent            string    `json:"intent"`
	UserMessage       string    `json:"user_message"`
	AssistantResponse string    `json:"assistant_response"`
	FromCache         bool      `json:"from_cache"`
}

// Recorder abstracts persistence of turn events. Implementations must
// be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}
