package conversation

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFileRepositoryPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "conversations.json")
	r, err := NewFileRepository(path)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	created, err := r.Create(1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := r.AppendTurn(created.ID, 1, "hello", "hi there"); err != nil {
		t.Fatalf("append: %v", err)
	}

	r2, err := NewFileRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := r2.Get(created.ID, 1)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("want 2 messages, got %d", len(got.Messages))
	}
	if got.Messages[0].Content != "hello" || got.Messages[1].Content != "hi there" {
		t.Fatalf("messages lost: %+v", got.Messages)
	}

	if err := r2.Delete(created.ID, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := r2.Get(created.ID, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: want ErrNotFound, got %v", err)
	}
}
