package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"task-chatter/internal/chat"
	"task-chatter/internal/conversation"
)

type chatRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

type chatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
}

type conversationSummary struct {
	ID        string    `json:"id"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, userID int64) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusUnprocessableEntity, "Message must not be empty")
		return
	}
	if len([]rune(req.Message)) > s.maxMessageLen {
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("Message too long (max %d characters)", s.maxMessageLen))
		return
	}

	turn, err := s.chatSvc.HandleTurn(r.Context(), userID, req.ConversationID, req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrRateLimited) {
			writeError(w, http.StatusTooManyRequests,
				fmt.Sprintf("Rate limit exceeded. Maximum %d messages per minute.", s.chatSvc.RateLimit()))
			return
		}
		log.Printf("❌ chat turn for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to process message: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:       turn.Response,
		ConversationID: turn.ConversationID,
	})
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request, userID int64) {
	convs, err := s.conversations.ListByUser(userID)
	if err != nil {
		log.Printf("❌ list conversations for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list conversations")
		return
	}

	summaries := make([]conversationSummary, 0, len(convs))
	for _, c := range convs {
		summaries = append(summaries, conversationSummary{
			ID:        c.ID,
			Preview:   c.Preview(),
			CreatedAt: c.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": summaries})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request, userID int64) {
	conv, err := s.conversations.Get(r.PathValue("id"), userID)
	if err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		log.Printf("❌ get conversation for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to load conversation")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":         conv.ID,
		"messages":   conv.Messages,
		"created_at": conv.CreatedAt,
	})
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request, userID int64) {
	err := s.conversations.Delete(r.PathValue("id"), userID)
	if err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		log.Printf("❌ delete conversation for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete conversation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
