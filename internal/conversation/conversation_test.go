package conversation

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPreview(t *testing.T) {
	c := Conversation{Messages: []Message{
		{Role: RoleUser, Content: "add task to buy groceries"},
		{Role: RoleAssistant, Content: "Added task"},
	}}
	if got := c.Preview(); got != "add task to buy groceries" {
		t.Fatalf("preview = %q", got)
	}

	long := strings.Repeat("a", 60)
	c = Conversation{Messages: []Message{{Role: RoleUser, Content: long}}}
	got := c.Preview()
	if got != strings.Repeat("a", 50)+"..." {
		t.Fatalf("long preview = %q", got)
	}

	if got := (Conversation{}).Preview(); got != "New conversation" {
		t.Fatalf("empty preview = %q", got)
	}

	// Assistant-only history still counts as fresh
	c = Conversation{Messages: []Message{{Role: RoleAssistant, Content: "hi"}}}
	if got := c.Preview(); got != "New conversation" {
		t.Fatalf("assistant-only preview = %q", got)
	}
}

func TestMemoryStoreAppendTurn(t *testing.T) {
	s := NewMemoryStore()
	created, err := s.Create(7)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("missing conversation id")
	}
	if len(created.Messages) != 0 {
		t.Fatalf("new conversation not empty")
	}

	updated, err := s.AppendTurn(created.ID, 7, "hello", "hi there")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(updated.Messages) != 2 {
		t.Fatalf("want 2 messages, got %d", len(updated.Messages))
	}
	u, a := updated.Messages[0], updated.Messages[1]
	if u.Role != RoleUser || u.Content != "hello" {
		t.Fatalf("unexpected user message: %+v", u)
	}
	if a.Role != RoleAssistant || a.Content != "hi there" {
		t.Fatalf("unexpected assistant message: %+v", a)
	}
	// Both halves of a turn share one timestamp, in UTC
	if !u.Timestamp.Equal(a.Timestamp) {
		t.Fatalf("turn timestamps differ: %v vs %v", u.Timestamp, a.Timestamp)
	}
	if u.Timestamp.Location() != time.UTC {
		t.Fatalf("timestamp not UTC: %v", u.Timestamp)
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Fatalf("UpdatedAt not bumped")
	}
}

func TestMemoryStoreOwnership(t *testing.T) {
	s := NewMemoryStore()
	c, _ := s.Create(1)

	if _, err := s.Get(c.ID, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign get: want ErrNotFound, got %v", err)
	}
	if _, err := s.AppendTurn(c.ID, 2, "x", "y"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign append: want ErrNotFound, got %v", err)
	}
	if err := s.Delete(c.ID, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign delete: want ErrNotFound, got %v", err)
	}

	// Still intact for the owner
	if _, err := s.Get(c.ID, 1); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if err := s.Delete(c.ID, 1); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := s.Get(c.ID, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: want ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreListByUserOrder(t *testing.T) {
	s := NewMemoryStore()
	first, _ := s.Create(1)
	time.Sleep(2 * time.Millisecond)
	second, _ := s.Create(1)
	s.Create(2)

	time.Sleep(2 * time.Millisecond)
	if _, err := s.AppendTurn(first.ID, 1, "hello", "hi"); err != nil {
		t.Fatalf("append: %v", err)
	}

	list, err := s.ListByUser(1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 conversations, got %d", len(list))
	}
	// Most recently updated first: the append moved `first` ahead
	if list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("unexpected order: %s, %s", list[0].ID, list[1].ID)
	}
}
