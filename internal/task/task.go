package task

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func ValidStatus(s Status) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

func ValidPriority(p Priority) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// ErrNotFound is returned for missing tasks and for tasks owned by a
// different user alike, so callers cannot probe other users' ids.
var ErrNotFound = errors.New("task not found")

type Task struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

func (t Task) Deleted() bool { return t.DeletedAt != nil }

// Store abstracts task persistence. Implementations must be safe for
// concurrent use. ListActive and History return tasks scoped to one user:
// ListActive in creation order, History by deletion time, newest first.
type Store interface {
	Create(t Task) (Task, error)
	Get(id, userID int64) (Task, error)
	ListActive(userID int64) ([]Task, error)
	History(userID int64) ([]Task, error)
	Update(t Task) (Task, error)
	SoftDelete(id, userID int64) error
	Restore(id, userID int64) (Task, error)
	ClearCompleted(userID int64) error
	PurgeHistory(userID int64) error
}
