// Package chat orchestrates one chat turn end to end: rate check,
// session load, agent execution, session append, audit record. Both the
// HTTP endpoint and the Telegram gateway go through the same Service.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"task-chatter/internal/agent"
	"task-chatter/internal/conversation"
	"task-chatter/internal/llm"
	"task-chatter/internal/ratelimit"
	"task-chatter/internal/storage"
)

// ErrRateLimited is returned when the user's per-minute turn quota is
// exhausted. The transport maps it to its own rejection (HTTP 429, a
// Telegram reply, ...).
var ErrRateLimited = errors.New("rate limit exceeded")

type Service struct {
	agent         *agent.Agent
	conversations conversation.Store
	limiter       *ratelimit.Limiter
	recorder      storage.Recorder // optional
	contextLimit  int
	turnTimeout   time.Duration
}

func NewService(
	ag *agent.Agent,
	conversations conversation.Store,
	limiter *ratelimit.Limiter,
	recorder storage.Recorder,
	contextLimit int,
	turnTimeout time.Duration,
) *Service {
	if contextLimit <= 0 {
		contextLimit = 20
	}
	if turnTimeout <= 0 {
		turnTimeout = 30 * time.Second
	}
	return &Service{
		agent:         ag,
		conversations: conversations,
		limiter:       limiter,
		recorder:      recorder,
		contextLimit:  contextLimit,
		turnTimeout:   turnTimeout,
	}
}

func (s *Service) RateLimit() int { return s.limiter.Limit() }

// Turn is the outcome of one processed chat message.
type Turn struct {
	Response       string
	ConversationID string
}

// HandleTurn processes one inbound message for the user. A supplied
// conversation id is reused when it exists and belongs to the user;
// anything else starts a fresh conversation. The user message and the
// assistant reply are appended together after the response is produced.
func (s *Service) HandleTurn(ctx context.Context, userID int64, conversationID, message string) (Turn, error) {
	if !s.limiter.Allow(userID) {
		return Turn{}, ErrRateLimited
	}

	conv, err := s.getOrCreate(conversationID, userID)
	if err != nil {
		return Turn{}, fmt.Errorf("load conversation: %w", err)
	}

	history := historyContext(conv.Messages, s.contextLimit)

	ctx, cancel := context.WithTimeout(ctx, s.turnTimeout)
	defer cancel()
	res := s.agent.Respond(ctx, userID, message, history)

	if _, err := s.conversations.AppendTurn(conv.ID, userID, message, res.Text); err != nil {
		return Turn{}, fmt.Errorf("append turn: %w", err)
	}

	if s.recorder != nil {
		ev := storage.Event{
			Timestamp:         time.Now().UTC(),
			UserID:            userID,
			ConversationID:    conv.ID,
			Intent:            string(res.Intent),
			UserMessage:       message,
			AssistantResponse: res.Text,
			Model:             res.Model,
			TotalTokens:       res.TotalTokens,
		}
		if err := s.recorder.AppendInteraction(ev); err != nil {
			log.Printf("failed to record interaction: %v", err)
		}
	}

	return Turn{Response: res.Text, ConversationID: conv.ID}, nil
}

func (s *Service) getOrCreate(conversationID string, userID int64) (conversation.Conversation, error) {
	if conversationID != "" {
		conv, err := s.conversations.Get(conversationID, userID)
		if err == nil {
			return conv, nil
		}
		if !errors.Is(err, conversation.ErrNotFound) {
			return conversation.Conversation{}, err
		}
		// Unknown or foreign id: silently start over, as the original
		// endpoint did.
	}
	return s.conversations.Create(userID)
}

// historyContext converts the most recent stored messages, oldest first,
// into the llm message shape for the fallback path.
func historyContext(msgs []conversation.Message, limit int) []llm.Message {
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, llm.Message{Role: m.Role, Content: m.Content})
	}
	return out
}
