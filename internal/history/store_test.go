package history

import (
	"os"
	"path/filepath"
	"testing"

	"usadba-bot/internal/llm"
)

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())
	msgs := []llm.Message{
		{Role: "system", Content: "промпт"},
		{Role: "user", Content: "вопрос"},
		{Role: "assistant", Content: "ответ"},
	}
	s.Save(42, msgs)

	got := s.Load(42)
	if len(got) != 3 {
		t.Fatalf("want 3 messages, got %d", len(got))
	}
	if got[0].Role != "system" || got[2].Content != "ответ" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestStore_LoadMissingIsEmpty(t *testing.T) {
	s := NewStore(t.TempDir())
	if got := s.Load(1); len(got) != 0 {
		t.Fatalf("missing record should load empty, got %+v", got)
	}
}

func TestStore_LoadCorruptIsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "chat_7.json"), []byte("not json"), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	s := NewStore(dir)
	if got := s.Load(7); len(got) != 0 {
		t.Fatalf("corrupt record should load empty, got %+v", got)
	}
}

func TestStore_ConversationsAreIndependent(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Save(1, []llm.Message{{Role: "user", Content: "первый"}})
	s.Save(2, []llm.Message{{Role: "user", Content: "второй"}})

	if got := s.Load(1); len(got) != 1 || got[0].Content != "первый" {
		t.Fatalf("chat 1 mismatch: %+v", got)
	}
	if got := s.Load(2); len(got) != 1 || got[0].Content != "второй" {
		t.Fatalf("chat 2 mismatch: %+v", got)
	}
}

func TestStore_Delete(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Save(5, []llm.Message{{Role: "user", Content: "вопрос"}})
	s.Delete(5)
	if got := s.Load(5); len(got) != 0 {
		t.Fatalf("record survived delete: %+v", got)
	}
	// Deleting a missing record is not an error.
	s.Delete(5)
}
