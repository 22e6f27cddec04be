package task

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process Store. It backs tests and deployments
// that run without a data file.
type MemoryStore struct {
	mu     sync.RWMutex
	tasks  []Task
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Create(t Task) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	t.ID = s.nextID
	s.nextID++
	t.CreatedAt = now
	t.UpdatedAt = now
	t.DeletedAt = nil
	s.tasks = append(s.tasks, t)
	return t, nil
}

func (s *MemoryStore) Get(id, userID int64) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, x := range s.tasks {
		if x.ID == id && x.UserID == userID {
			return x, nil
		}
	}
	return Task{}, ErrNotFound
}

func (s *MemoryStore) ListActive(userID int64) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Task
	for _, x := range s.tasks {
		if x.UserID == userID && !x.Deleted() {
			out = append(out, x)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) History(userID int64) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Task
	for _, x := range s.tasks {
		if x.UserID == userID && x.Deleted() {
			out = append(out, x)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeletedAt.After(*out[j].DeletedAt) })
	return out, nil
}

func (s *MemoryStore) Update(t Task) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, x := range s.tasks {
		if x.ID == t.ID && x.UserID == t.UserID {
			t.CreatedAt = x.CreatedAt
			t.UpdatedAt = time.Now().UTC()
			s.tasks[i] = t
			return t, nil
		}
	}
	return Task{}, ErrNotFound
}

func (s *MemoryStore) SoftDelete(id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, x := range s.tasks {
		if x.ID == id && x.UserID == userID && !x.Deleted() {
			now := time.Now().UTC()
			s.tasks[i].DeletedAt = &now
			s.tasks[i].UpdatedAt = now
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) Restore(id, userID int64) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, x := range s.tasks {
		if x.ID == id && x.UserID == userID && x.Deleted() {
			s.tasks[i].DeletedAt = nil
			s.tasks[i].UpdatedAt = time.Now().UTC()
			return s.tasks[i], nil
		}
	}
	return Task{}, ErrNotFound
}

func (s *MemoryStore) ClearCompleted(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for i, x := range s.tasks {
		if x.UserID == userID && x.Status == StatusCompleted && !x.Deleted() {
			d := now
			s.tasks[i].DeletedAt = &d
			s.tasks[i].UpdatedAt = now
		}
	}
	return nil
}

func (s *MemoryStore) PurgeHistory(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.tasks[:0]
	for _, x := range s.tasks {
		if x.UserID == userID && x.Deleted() {
			continue
		}
		out = append(out, x)
	}
	s.tasks = out
	return nil
}
