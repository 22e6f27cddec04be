// Package httpapi exposes the task manager and its chat agent over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"task-chatter/internal/auth"
	"task-chatter/internal/chat"
	"task-chatter/internal/conversation"
	"task-chatter/internal/task"
)

type Server struct {
	chatSvc       *chat.Service
	tasks         task.Store
	conversations conversation.Store
	authSvc       *auth.Service
	corsOrigins   []string
	maxMessageLen int

	server    *http.Server
	port      int
	startTime time.Time
}

func NewServer(
	port int,
	authSvc *auth.Service,
	chatSvc *chat.Service,
	tasks task.Store,
	conversations conversation.Store,
	corsOrigins []string,
	maxMessageLen int,
) *Server {
	if maxMessageLen <= 0 {
		maxMessageLen = 2000
	}
	return &Server{
		chatSvc:       chatSvc,
		tasks:         tasks,
		conversations: conversations,
		authSvc:       authSvc,
		corsOrigins:   corsOrigins,
		maxMessageLen: maxMessageLen,
		port:          port,
		startTime:     time.Now(),
	}
}

// Handler builds the full route table with middleware applied. Exposed
// separately from Start so tests can drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/status", s.handleStatus)

	mux.HandleFunc("POST /api/v1/chat", s.authed(s.handleChat))
	mux.HandleFunc("GET /api/v1/conversations", s.authed(s.handleListConversations))
	mux.HandleFunc("GET /api/v1/conversations/{id}", s.authed(s.handleGetConversation))
	mux.HandleFunc("DELETE /api/v1/conversations/{id}", s.authed(s.handleDeleteConversation))

	mux.HandleFunc("POST /api/tasks", s.authed(s.handleCreateTask))
	mux.HandleFunc("GET /api/tasks", s.authed(s.handleListTasks))
	mux.HandleFunc("GET /api/tasks/history", s.authed(s.handleTaskHistory))
	mux.HandleFunc("DELETE /api/tasks/history", s.authed(s.handleClearHistory))
	mux.HandleFunc("POST /api/tasks/clear-completed", s.authed(s.handleClearCompleted))
	mux.HandleFunc("GET /api/tasks/{id}", s.authed(s.handleGetTask))
	mux.HandleFunc("PUT /api/tasks/{id}", s.authed(s.handleUpdateTask))
	mux.HandleFunc("DELETE /api/tasks/{id}", s.authed(s.handleDeleteTask))
	mux.HandleFunc("POST /api/tasks/{id}/restore", s.authed(s.handleRestoreTask))

	return s.recover(s.cors(mux))
}

// Start runs the HTTP server until Stop or a listen error.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("🌐 Starting task-chatter API on http://localhost:%d", s.port)
	return s.server.ListenAndServe()
}

func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "running",
		"service": "task-chatter",
		"uptime":  time.Since(s.startTime).Round(time.Second).String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// writeError emits the {"detail": ...} error shape the frontend expects.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
