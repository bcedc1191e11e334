package history

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"usadba-bot/internal/llm"
)

// Store persists one JSON file per conversation under dir. Persistence
// is best-effort: read failures yield an empty history and write
// failures are logged, never surfaced to the caller.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(chatID int64) string {
	return filepath.Join(s.dir, fmt.Sprintf("chat_%d.json", chatID))
}

// Load returns the persisted history for the conversation, or an empty
// slice when nothing is stored or the record is unreadable.
func (s *Store) Load(chatID int64) []llm.Message {
	data, err := os.ReadFile(s.path(chatID))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("failed to load history for chat %d: %v", chatID, err)
		}
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var msgs []llm.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		log.Printf("failed to parse history for chat %d: %v", chatID, err)
		return nil
	}
	return msgs
}

// Save overwrites the whole record for the conversation.
func (s *Store) Save(chatID int64, msgs []llm.Message) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Printf("failed to ensure history dir: %v", err)
		return
	}
	data, err := json.MarshalIndent(msgs, "", "  ")
	if err != nil {
		log.Printf("failed to encode history for chat %d: %v", chatID, err)
		return
	}
	if err := os.WriteFile(s.path(chatID), data, 0o644); err != nil {
		log.Printf("failed to save history for chat %d: %v", chatID, err)
	}
}

// Delete removes the persisted record, used by the context reset flow.
func (s *Store) Delete(chatID int64) {
	if err := os.Remove(s.path(chatID)); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to delete history for chat %d: %v", chatID, err)
	}
}
