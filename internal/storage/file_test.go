package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileRecorderAppendLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "chat_log.jsonl")
	r, err := NewFileRecorder(path)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	first := Event{
		Timestamp:         time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		UserID:            1,
		ConversationID:    "conv-1",
		Intent:            "add",
		UserMessage:       "add task to buy groceries",
		AssistantResponse: "Added task: ⏳ Buy groceries",
	}
	second := Event{
		Timestamp:         time.Date(2025, 1, 1, 12, 1, 0, 0, time.UTC),
		UserID:            1,
		ConversationID:    "conv-1",
		Intent:            "chat",
		UserMessage:       "thanks",
		AssistantResponse: "You're welcome!",
		Model:             "gpt-4o-mini",
		TotalTokens:       42,
	}

	if err := r.AppendInteraction(first); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := r.AppendInteraction(second); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := r.LoadInteractions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("want 2 events, got %d", len(events))
	}
	if events[0].Intent != "add" || events[1].Intent != "chat" {
		t.Fatalf("order lost: %+v", events)
	}
	if events[1].TotalTokens != 42 || events[1].Model != "gpt-4o-mini" {
		t.Fatalf("fields lost: %+v", events[1])
	}
}

func TestFileRecorderSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_log.jsonl")
	content := `{"user_id":1,"intent":"add"}
not json at all
{"user_id":2,"intent":"chat"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r, err := NewFileRecorder(path)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	events, err := r.LoadInteractions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("want 2 parseable events, got %d", len(events))
	}
	if events[0].UserID != 1 || events[1].UserID != 2 {
		t.Fatalf("unexpected events: %+v", events)
	}
}
