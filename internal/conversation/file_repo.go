package conversation

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileRepository persists conversations in a single JSON file.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) Create(userID int64) (Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	convs, _ := r.loadUnlocked()
	now := time.Now().UTC()
	c := Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	convs = append(convs, c)
	if err := r.saveUnlocked(convs); err != nil {
		return Conversation{}, err
	}
	return c, nil
}

func (r *FileRepository) Get(id string, userID int64) (Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	convs, _ := r.loadUnlocked()
	for _, c := range convs {
		if c.ID == id && c.UserID == userID {
			return c, nil
		}
	}
	return Conversation{}, ErrNotFound
}

func (r *FileRepository) AppendTurn(id string, userID int64, userMessage, assistantMessage string) (Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	convs, _ := r.loadUnlocked()
	for i, c := range convs {
		if c.ID == id && c.UserID == userID {
			now := time.Now().UTC()
			convs[i].Messages = append(convs[i].Messages,
				Message{Role: RoleUser, Content: userMessage, Timestamp: now},
				Message{Role: RoleAssistant, Content: assistantMessage, Timestamp: now},
			)
			convs[i].UpdatedAt = now
			if err := r.saveUnlocked(convs); err != nil {
				return Conversation{}, err
			}
			return convs[i], nil
		}
	}
	return Conversation{}, ErrNotFound
}

func (r *FileRepository) ListByUser(userID int64) ([]Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	convs, _ := r.loadUnlocked()
	var out []Conversation
	for _, c := range convs {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *FileRepository) Delete(id string, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	convs, _ := r.loadUnlocked()
	for i, c := range convs {
		if c.ID == id && c.UserID == userID {
			convs = append(convs[:i], convs[i+1:]...)
			return r.saveUnlocked(convs)
		}
	}
	return ErrNotFound
}

func (r *FileRepository) loadUnlocked() ([]Conversation, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	var convs []Conversation
	dec := json.NewDecoder(f)
	if err := dec.Decode(&convs); err != nil {
		if err == io.EOF {
			return []Conversation{}, nil
		}
		// empty or malformed -> start fresh
		return []Conversation{}, nil
	}
	return convs, nil
}

func (r *FileRepository) saveUnlocked(convs []Conversation) error {
	f, err := os.OpenFile(r.path, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(convs)
}
