package conversation

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for tests and file-less runs.
type MemoryStore struct {
	mu    sync.RWMutex
	convs map[string]*Conversation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{convs: make(map[string]*Conversation)}
}

func (s *MemoryStore) Create(userID int64) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	c := Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.convs[c.ID] = &c
	return c, nil
}

func (s *MemoryStore) Get(id string, userID int64) (Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.convs[id]
	if !ok || c.UserID != userID {
		return Conversation{}, ErrNotFound
	}
	return *c, nil
}

func (s *MemoryStore) AppendTurn(id string, userID int64, userMessage, assistantMessage string) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[id]
	if !ok || c.UserID != userID {
		return Conversation{}, ErrNotFound
	}
	now := time.Now().UTC()
	c.Messages = append(c.Messages,
		Message{Role: RoleUser, Content: userMessage, Timestamp: now},
		Message{Role: RoleAssistant, Content: assistantMessage, Timestamp: now},
	)
	c.UpdatedAt = now
	return *c, nil
}

func (s *MemoryStore) ListByUser(userID int64) ([]Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Conversation
	for _, c := range s.convs {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *MemoryStore) Delete(id string, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[id]
	if !ok || c.UserID != userID {
		return ErrNotFound
	}
	delete(s.convs, id)
	return nil
}
