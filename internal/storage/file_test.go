package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileRecorder_AppendAndLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "events.jsonl")
	rec, err := NewFileRecorder(p)
	if err != nil {
		t.Fatalf("init recorder: %v", err)
	}

	ev1 := Event{Timestamp: time.Unix(1, 0).UTC(), ChatID: 1, Intent: "buyer", UserMessage: "вопрос", AssistantResponse: "ответ"}
	ev2 := Event{Timestamp: time.Unix(2, 0).UTC(), ChatID: 2, Intent: "general", UserMessage: "ещё", AssistantResponse: "ответ", FromCache: true}
	if err := rec.AppendInteraction(ev1); err != nil {
		t.Fatalf("append1: %v", err)
	}
	if err := rec.AppendInteraction(ev2); err != nil {
		t.Fatalf("append2: %v", err)
	}

	events, err := rec.LoadInteractions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("want 2, got %d", len(events))
	}
	if events[0].ChatID != 1 || events[1].ChatID != 2 {
		t.Fatalf("order mismatch: %+v", events)
	}
	if !events[1].FromCache || events[1].Intent != "general" {
		t.Fatalf("fields lost: %+v", events[1])
	}

	st, err := os.Stat(p)
	if err != nil || st.Size() == 0 {
		t.Fatalf("file not written")
	}
}

func TestFileRecorder_SkipsCorruptLines(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "events.jsonl")
	rec, err := NewFileRecorder(p)
	if err != nil {
		t.Fatalf("init recorder: %v", err)
	}
	if err := rec.AppendInteraction(Event{ChatID: 1}); err != nil {
		t.Fatalf("append: %v", err)
	}
	f, err := os.OpenFile(p, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.WriteString("not json\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = f.Close()
	if err := rec.AppendInteraction(Event{ChatID: 2}); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := rec.LoadInteractions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("corrupt line not skipped: %+v", events)
	}
}
