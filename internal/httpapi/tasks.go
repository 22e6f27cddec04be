package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"task-chatter/internal/task"
)

type taskCreateRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      task.Status   `json:"status"`
	Priority    task.Priority `json:"priority"`
}

type taskUpdateRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Status      *task.Status   `json:"status"`
	Priority    *task.Priority `json:"priority"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request, userID int64) {
	var req taskCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusUnprocessableEntity, "Title must not be empty")
		return
	}
	if req.Status == "" {
		req.Status = task.StatusPending
	}
	if req.Priority == "" {
		req.Priority = task.PriorityMedium
	}
	if !task.ValidStatus(req.Status) {
		writeError(w, http.StatusUnprocessableEntity,
			"status must be 'pending', 'in_progress', or 'completed'")
		return
	}
	if !task.ValidPriority(req.Priority) {
		writeError(w, http.StatusUnprocessableEntity,
			"priority must be 'low', 'medium', or 'high'")
		return
	}

	created, err := s.tasks.Create(task.Task{
		UserID:      userID, // always from the token, never the body
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		log.Printf("❌ create task for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request, userID int64) {
	statusFilter := r.URL.Query().Get("status_filter")
	sortOrder := r.URL.Query().Get("sort_order")
	if sortOrder == "" {
		sortOrder = "asc"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		writeError(w, http.StatusBadRequest, "sort_order must be 'asc' or 'desc'")
		return
	}
	if statusFilter != "" && !task.ValidStatus(task.Status(statusFilter)) {
		writeError(w, http.StatusBadRequest,
			"status_filter must be 'pending', 'in_progress', or 'completed'")
		return
	}

	active, err := s.tasks.ListActive(userID)
	if err != nil {
		log.Printf("❌ list tasks for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list tasks")
		return
	}

	out := make([]task.Task, 0, len(active))
	for _, t := range active {
		if statusFilter == "" || t.Status == task.Status(statusFilter) {
			out = append(out, t)
		}
	}
	// ListActive is already in creation order (oldest first)
	if sortOrder == "desc" {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": out})
}

func (s *Server) handleTaskHistory(w http.ResponseWriter, r *http.Request, userID int64) {
	deleted, err := s.tasks.History(userID)
	if err != nil {
		log.Printf("❌ task history for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	if deleted == nil {
		deleted = []task.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": deleted})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request, userID int64) {
	if err := s.tasks.PurgeHistory(userID); err != nil {
		log.Printf("❌ clear history for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to clear history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearCompleted(w http.ResponseWriter, r *http.Request, userID int64) {
	if err := s.tasks.ClearCompleted(userID); err != nil {
		log.Printf("❌ clear completed for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to clear completed tasks")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	t, err := s.tasks.Get(id, userID)
	if err != nil {
		taskError(w, userID, err, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	var req taskUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status != nil && !task.ValidStatus(*req.Status) {
		writeError(w, http.StatusUnprocessableEntity,
			"status must be 'pending', 'in_progress', or 'completed'")
		return
	}
	if req.Priority != nil && !task.ValidPriority(*req.Priority) {
		writeError(w, http.StatusUnprocessableEntity,
			"priority must be 'low', 'medium', or 'high'")
		return
	}

	t, err := s.tasks.Get(id, userID)
	if err != nil {
		taskError(w, userID, err, "Task not found")
		return
	}
	// Partial update: only supplied fields change
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}

	updated, err := s.tasks.Update(t)
	if err != nil {
		taskError(w, userID, err, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	if err := s.tasks.SoftDelete(id, userID); err != nil {
		taskError(w, userID, err, "Task not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRestoreTask(w http.ResponseWriter, r *http.Request, userID int64) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	restored, err := s.tasks.Restore(id, userID)
	if err != nil {
		taskError(w, userID, err, "Task not found in history")
		return
	}
	writeJSON(w, http.StatusOK, restored)
}

func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id")
		return 0, false
	}
	return id, true
}

// taskError keeps the 404 shape identical for missing and foreign tasks.
func taskError(w http.ResponseWriter, userID int64, err error, notFoundDetail string) {
	if errors.Is(err, task.ErrNotFound) {
		writeError(w, http.StatusNotFound, notFoundDetail)
		return
	}
	log.Printf("❌ task store error for user %d: %v", userID, err)
	writeError(w, http.StatusInternalServerError, "Task store failure")
}
