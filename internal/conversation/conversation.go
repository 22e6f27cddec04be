package conversation

import (
	"errors"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const previewLimit = 50

// ErrNotFound covers both nonexistent conversations and conversations
// owned by another user, so ids cannot be probed across accounts.
var ErrNotFound = errors.New("conversation not found")

// Message is immutable once appended to a conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type Conversation struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Preview returns the list-view summary line: the first user message,
// truncated to 50 runes, or a placeholder for a fresh conversation.
func (c Conversation) Preview() string {
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			r := []rune(m.Content)
			if len(r) > previewLimit {
				return string(r[:previewLimit]) + "..."
			}
			return m.Content
		}
	}
	return "New conversation"
}

// Store abstracts conversation persistence. Implementations must be safe
// for concurrent use. ListByUser returns conversations ordered by most
// recent update first. AppendTurn appends exactly one user and one
// assistant message, both stamped with the same UTC time, and bumps
// UpdatedAt.
type Store interface {
	Create(userID int64) (Conversation, error)
	Get(id string, userID int64) (Conversation, error)
	AppendTurn(id string, userID int64, userMessage, assistantMessage string) (Conversation, error)
	ListByUser(userID int64) ([]Conversation, error)
	Delete(id string, userID int64) error
}
