package task

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileRepository keeps all tasks in a single JSON file, rewritten on
// every mutation. Fine for a single-process personal deployment.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	// Touch file if not exists
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) Create(t Task) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks, _ := r.loadUnlocked()
	var maxID int64
	for _, x := range tasks {
		if x.ID > maxID {
			maxID = x.ID
		}
	}
	now := time.Now().UTC()
	t.ID = maxID + 1
	t.CreatedAt = now
	t.UpdatedAt = now
	t.DeletedAt = nil
	tasks = append(tasks, t)
	if err := r.saveUnlocked(tasks); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (r *FileRepository) Get(id, userID int64) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks, _ := r.loadUnlocked()
	for _, x := range tasks {
		if x.ID == id && x.UserID == userID {
			return x, nil
		}
	}
	return Task{}, ErrNotFound
}

func (r *FileRepository) ListActive(userID int64) ([]Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks, _ := r.loadUnlocked()
	var out []Task
	for _, x := range tasks {
		if x.UserID == userID && !x.Deleted() {
			out = append(out, x)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *FileRepository) History(userID int64) ([]Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks, _ := r.loadUnlocked()
	var out []Task
	for _, x := range tasks {
		if x.UserID == userID && x.Deleted() {
			out = append(out, x)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeletedAt.After(*out[j].DeletedAt) })
	return out, nil
}

func (r *FileRepository) Update(t Task) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks, _ := r.loadUnlocked()
	for i, x := range tasks {
		if x.ID == t.ID && x.UserID == t.UserID {
			t.CreatedAt = x.CreatedAt
			t.UpdatedAt = time.Now().UTC()
			tasks[i] = t
			if err := r.saveUnlocked(tasks); err != nil {
				return Task{}, err
			}
			return t, nil
		}
	}
	return Task{}, ErrNotFound
}

func (r *FileRepository) SoftDelete(id, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks, _ := r.loadUnlocked()
	for i, x := range tasks {
		if x.ID == id && x.UserID == userID && !x.Deleted() {
			now := time.Now().UTC()
			tasks[i].DeletedAt = &now
			tasks[i].UpdatedAt = now
			return r.saveUnlocked(tasks)
		}
	}
	return ErrNotFound
}

func (r *FileRepository) Restore(id, userID int64) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks, _ := r.loadUnlocked()
	for i, x := range tasks {
		if x.ID == id && x.UserID == userID && x.Deleted() {
			tasks[i].DeletedAt = nil
			tasks[i].UpdatedAt = time.Now().UTC()
			if err := r.saveUnlocked(tasks); err != nil {
				return Task{}, err
			}
			return tasks[i], nil
		}
	}
	return Task{}, ErrNotFound
}

func (r *FileRepository) ClearCompleted(userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks, _ := r.loadUnlocked()
	now := time.Now().UTC()
	for i, x := range tasks {
		if x.UserID == userID && x.Status == StatusCompleted && !x.Deleted() {
			d := now
			tasks[i].DeletedAt = &d
			tasks[i].UpdatedAt = now
		}
	}
	return r.saveUnlocked(tasks)
}

func (r *FileRepository) PurgeHistory(userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks, _ := r.loadUnlocked()
	var out []Task
	for _, x := range tasks {
		if x.UserID == userID && x.Deleted() {
			continue
		}
		out = append(out, x)
	}
	return r.saveUnlocked(out)
}

func (r *FileRepository) loadUnlocked() ([]Task, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	var tasks []Task
	dec := json.NewDecoder(f)
	if err := dec.Decode(&tasks); err != nil {
		if err == io.EOF {
			return []Task{}, nil
		}
		// empty or malformed -> start fresh
		return []Task{}, nil
	}
	return tasks, nil
}

func (r *FileRepository) saveUnlocked(tasks []Task) error {
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
	return enc.Encode(tasks)
}
