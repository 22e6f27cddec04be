package task

import (
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreListActiveCreationOrder(t *testing.T) {
	s := NewMemoryStore()
	s.Create(Task{UserID: 1, Title: "First", Status: StatusPending, Priority: PriorityMedium})
	time.Sleep(time.Millisecond)
	s.Create(Task{UserID: 1, Title: "Second", Status: StatusPending, Priority: PriorityMedium})

	active, err := s.ListActive(1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 2 || active[0].Title != "First" || active[1].Title != "Second" {
		t.Fatalf("unexpected order: %+v", active)
	}
}

func TestMemoryStoreUpdate(t *testing.T) {
	s := NewMemoryStore()
	created, _ := s.Create(Task{UserID: 1, Title: "Before", Status: StatusPending, Priority: PriorityMedium})

	created.Title = "After"
	created.Status = StatusCompleted
	updated, err := s.Update(created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "After" || updated.Status != StatusCompleted {
		t.Fatalf("unexpected task: %+v", updated)
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Fatalf("CreatedAt must survive updates")
	}

	missing := Task{ID: 99, UserID: 1}
	if _, err := s.Update(missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreHistoryNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	a, _ := s.Create(Task{UserID: 1, Title: "A", Status: StatusPending, Priority: PriorityMedium})
	b, _ := s.Create(Task{UserID: 1, Title: "B", Status: StatusPending, Priority: PriorityMedium})

	s.SoftDelete(a.ID, 1)
	time.Sleep(time.Millisecond)
	s.SoftDelete(b.ID, 1)

	history, _ := s.History(1)
	if len(history) != 2 || history[0].Title != "B" || history[1].Title != "A" {
		t.Fatalf("unexpected history order: %+v", history)
	}
}
