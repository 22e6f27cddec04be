// tasks-mcp-server exposes the task store as MCP tools over stdio, so
// any MCP-capable agent can manage the same tasks as the chat endpoint.
// The server is personal: it operates on behalf of the single user named
// by TASKS_MCP_USER_ID.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"task-chatter/internal/agent"
	"task-chatter/internal/task"
)

type AddTaskParams struct {
	Title       string `json:"title" mcp:"the title of the task to create"`
	Description string `json:"description,omitempty" mcp:"optional detailed description"`
	Status      string `json:"status,omitempty" mcp:"initial status: pending, in_progress or completed (default pending)"`
	Priority    string `json:"priority,omitempty" mcp:"priority: low, medium or high (default medium)"`
}

type ListTasksParams struct {
	StatusFilter string `json:"status_filter,omitempty" mcp:"filter by status: all, pending, in_progress or completed"`
}

type TaskIdentifierParams struct {
	TaskIdentifier string `json:"task_identifier" mcp:"the task title (or part of it) to act on"`
}

type UpdateTaskParams struct {
	TaskIdentifier string `json:"task_identifier" mcp:"the task title (or part of it) to update"`
	Title          string `json:"title,omitempty" mcp:"new title if changing"`
	Description    string `json:"description,omitempty" mcp:"new description if changing"`
	Status         string `json:"status,omitempty" mcp:"new status if changing"`
}

// TaskToolServer adapts the task store to MCP tool calls for one user.
type TaskToolServer struct {
	store  task.Store
	userID int64
}

func (s *TaskToolServer) AddTask(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[AddTaskParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	if strings.TrimSpace(args.Title) == "" {
		return toolError("title is required"), nil
	}
	st := task.Status(args.Status)
	if args.Status == "" {
		st = task.StatusPending
	}
	if !task.ValidStatus(st) {
		return toolError(fmt.Sprintf("invalid status %q", args.Status)), nil
	}
	pr := task.Priority(args.Priority)
	if args.Priority == "" {
		pr = task.PriorityMedium
	}
	if !task.ValidPriority(pr) {
		return toolError(fmt.Sprintf("invalid priority %q", args.Priority)), nil
	}

	created, err := s.store.Create(task.Task{
		UserID:      s.userID,
		Title:       args.Title,
		Description: args.Description,
		Status:      st,
		Priority:    pr,
	})
	if err != nil {
		return toolError(fmt.Sprintf("failed to create task: %v", err)), nil
	}
	return toolText(fmt.Sprintf("✅ Created task #%d %q (%s, %s priority)", created.ID, created.Title, created.Status, created.Priority)), nil
}

func (s *TaskToolServer) ListTasks(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ListTasksParams]) (*mcp.CallToolResultFor[any], error) {
	filter := params.Arguments.StatusFilter
	if filter != "" && filter != "all" && !task.ValidStatus(task.Status(filter)) {
		return toolError(fmt.Sprintf("invalid status filter %q", filter)), nil
	}

	active, err := s.store.ListActive(s.userID)
	if err != nil {
		return toolError(fmt.Sprintf("failed to list tasks: %v", err)), nil
	}

	var b strings.Builder
	n := 0
	for _, t := range active {
		if filter != "" && filter != "all" && t.Status != task.Status(filter) {
			continue
		}
		fmt.Fprintf(&b, "#%d [%s] %s\n", t.ID, t.Status, t.Title)
		n++
	}
	if n == 0 {
		return toolText("No tasks found."), nil
	}
	return toolText(fmt.Sprintf("%d task(s):\n%s", n, strings.TrimRight(b.String(), "\n"))), nil
}

func (s *TaskToolServer) CompleteTask(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[TaskIdentifierParams]) (*mcp.CallToolResultFor[any], error) {
	target, res := s.resolve(params.Arguments.TaskIdentifier)
	if res != nil {
		return res, nil
	}
	target.Status = task.StatusCompleted
	if _, err := s.store.Update(target); err != nil {
		return toolError(fmt.Sprintf("failed to complete task: %v", err)), nil
	}
	return toolText(fmt.Sprintf("✅ Marked %q as completed", target.Title)), nil
}

func (s *TaskToolServer) UpdateTask(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[UpdateTaskParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	target, res := s.resolve(args.TaskIdentifier)
	if res != nil {
		return res, nil
	}
	if args.Title != "" {
		target.Title = args.Title
	}
	if args.Description != "" {
		target.Description = args.Description
	}
	if args.Status != "" {
		st := task.Status(args.Status)
		if !task.ValidStatus(st) {
			return toolError(fmt.Sprintf("invalid status %q", args.Status)), nil
		}
		target.Status = st
	}
	updated, err := s.store.Update(target)
	if err != nil {
		return toolError(fmt.Sprintf("failed to update task: %v", err)), nil
	}
	return toolText(fmt.Sprintf("✏️ Updated task #%d: %q [%s]", updated.ID, updated.Title, updated.Status)), nil
}

func (s *TaskToolServer) DeleteTask(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[TaskIdentifierParams]) (*mcp.CallToolResultFor[any], error) {
	target, res := s.resolve(params.Arguments.TaskIdentifier)
	if res != nil {
		return res, nil
	}
	if err := s.store.SoftDelete(target.ID, s.userID); err != nil {
		return toolError(fmt.Sprintf("failed to delete task: %v", err)), nil
	}
	return toolText(fmt.Sprintf("🗑 Deleted %q (moved to history)", target.Title)), nil
}

// resolve applies the same fuzzy matching the chat agent uses.
func (s *TaskToolServer) resolve(identifier string) (task.Task, *mcp.CallToolResultFor[any]) {
	active, err := s.store.ListActive(s.userID)
	if err != nil {
		return task.Task{}, toolError(fmt.Sprintf("failed to list tasks: %v", err))
	}
	target, ok := agent.MatchTask(active, identifier)
	if !ok {
		return task.Task{}, toolError(fmt.Sprintf("no task matching %q", identifier))
	}
	return target, nil
}

func toolText(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: "❌ " + text}},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	userID, err := strconv.ParseInt(os.Getenv("TASKS_MCP_USER_ID"), 10, 64)
	if err != nil {
		log.Fatal("❌ TASKS_MCP_USER_ID environment variable is required")
	}
	tasksPath := os.Getenv("TASKS_FILE_PATH")
	if tasksPath == "" {
		tasksPath = "data/tasks.json"
	}

	store, err := task.NewFileRepository(tasksPath)
	if err != nil {
		log.Fatalf("❌ failed to open task store: %v", err)
	}

	log.Printf("🚀 Starting task-chatter MCP server for user %d (store: %s)", userID, tasksPath)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "task-chatter-tasks-mcp",
		Version: "1.0.0",
	}, nil)

	toolServer := &TaskToolServer{store: store, userID: userID}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_task",
		Description: "Create a new task. Use this when the user wants to add, create, or make a new task.",
	}, toolServer.AddTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks, optionally filtered by status. Use when the user asks to see, show, list, or view their tasks.",
	}, toolServer.ListTasks)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "complete_task",
		Description: "Mark a task as completed. Use when the user says they finished, completed, or are done with a task.",
	}, toolServer.CompleteTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_task",
		Description: "Update a task's title, description, or status.",
	}, toolServer.UpdateTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task (moves to history, can be restored).",
	}, toolServer.DeleteTask)

	log.Printf("📋 Registered %d tools: add_task, list_tasks, complete_task, update_task, delete_task", 5)
	log.Printf("🔗 Starting server on stdin/stdout...")

	transport := mcp.NewStdioTransport()
	if err := server.Run(context.Background(), transport); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
