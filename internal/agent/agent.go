package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"task-chatter/internal/llm"
	"task-chatter/internal/task"
)

// DefaultSystemPrompt is used for the general-chat fallback when no
// prompt file is configured.
const DefaultSystemPrompt = "You are a friendly assistant inside a personal task manager. " +
	"Answer briefly and helpfully. When the user seems to be talking about their tasks, " +
	"remind them they can say things like \"add task to buy groceries\", \"list my tasks\", " +
	"\"complete groceries\" or \"rename groceries to weekly shopping\"."

const (
	listLimit = 10

	storeApology = "Sorry, something went wrong while working with your tasks. Please try again."
	chatApology  = "Sorry, I'm having trouble responding right now. Please try again."

	onboardingMessage = "You don't have any tasks yet! Try \"add task to buy groceries\" to create your first one."
)

// Agent turns a free-text chat message into one task-store operation, or
// falls back to the language model for general conversation.
type Agent struct {
	tasks        task.Store
	llmClient    llm.Client
	systemPrompt string
	contextLimit int
}

// Result is one processed turn. Model and TotalTokens stay zero for
// turns that never reached the language model.
type Result struct {
	Text        string
	Intent      Intent
	Model       string
	TotalTokens int
}

func New(tasks task.Store, llmClient llm.Client, systemPrompt string, contextLimit int) *Agent {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	if contextLimit <= 0 {
		contextLimit = 20
	}
	return &Agent{
		tasks:        tasks,
		llmClient:    llmClient,
		systemPrompt: systemPrompt,
		contextLimit: contextLimit,
	}
}

// Respond processes one utterance for the given user. Collaborator
// failures never escape: they are logged and converted to an apology, so
// the returned text is always suitable for the end user.
func (a *Agent) Respond(ctx context.Context, userID int64, message string, history []llm.Message) Result {
	intent := Classify(message)
	res := Result{Intent: intent}

	switch intent {
	case IntentAdd:
		res.Text = a.addTask(userID, message)
	case IntentEdit:
		res.Text = a.editTask(userID, message)
	case IntentDelete:
		res.Text = a.deleteTask(userID, message)
	case IntentComplete:
		res.Text = a.completeTask(userID, message)
	case IntentList:
		res.Text = a.listTasks(userID)
	default:
		res = a.generalChat(ctx, message, history)
	}
	return res
}

func (a *Agent) addTask(userID int64, message string) string {
	slots, _ := Extract(message, IntentAdd)
	created, err := a.tasks.Create(task.Task{
		UserID:   userID,
		Title:    slots.Title,
		Status:   slots.Status,
		Priority: slots.Priority,
	})
	if err != nil {
		log.Printf("❌ add task for user %d: %v", userID, err)
		return storeApology
	}
	text := fmt.Sprintf("Added task: %s %s", statusGlyph(created.Status), created.Title)
	if created.Priority != task.PriorityMedium {
		text += fmt.Sprintf(" (%s priority)", created.Priority)
	}
	return text
}

func (a *Agent) editTask(userID int64, message string) string {
	slots, err := Extract(message, IntentEdit)
	if err != nil {
		return "I couldn't work out which task to rename. Try: \"edit <old title> to <new title>\"."
	}
	active, err := a.tasks.ListActive(userID)
	if err != nil {
		log.Printf("❌ list tasks for user %d: %v", userID, err)
		return storeApology
	}
	target, ok := MatchTask(active, slots.OldTitle)
	if !ok {
		return fmt.Sprintf("I couldn't find a task matching %q.", slots.OldTitle)
	}
	oldTitle := target.Title
	target.Title = Capitalize(slots.NewTitle)
	updated, err := a.tasks.Update(target)
	if err != nil {
		log.Printf("❌ update task %d for user %d: %v", target.ID, userID, err)
		return storeApology
	}
	return fmt.Sprintf("Renamed %q to %q.", oldTitle, updated.Title)
}

func (a *Agent) deleteTask(userID int64, message string) string {
	slots, err := Extract(message, IntentDelete)
	if err != nil {
		return "Which task should I delete? Try: \"delete <task title>\"."
	}
	active, err := a.tasks.ListActive(userID)
	if err != nil {
		log.Printf("❌ list tasks for user %d: %v", userID, err)
		return storeApology
	}
	target, ok := MatchTask(active, slots.Title)
	if !ok {
		return fmt.Sprintf("I couldn't find a task matching %q.", slots.Title)
	}
	if err := a.tasks.SoftDelete(target.ID, userID); err != nil {
		log.Printf("❌ delete task %d for user %d: %v", target.ID, userID, err)
		return storeApology
	}
	return fmt.Sprintf("Deleted %q. You can restore it from history.", target.Title)
}

func (a *Agent) completeTask(userID int64, message string) string {
	slots, err := Extract(message, IntentComplete)
	if err != nil {
		return "Which task is done? Try: \"complete <task title>\"."
	}
	active, err := a.tasks.ListActive(userID)
	if err != nil {
		log.Printf("❌ list tasks for user %d: %v", userID, err)
		return storeApology
	}
	target, ok := MatchTask(active, slots.Title)
	if !ok {
		return fmt.Sprintf("I couldn't find a task matching %q.", slots.Title)
	}
	target.Status = task.StatusCompleted
	if _, err := a.tasks.Update(target); err != nil {
		log.Printf("❌ complete task %d for user %d: %v", target.ID, userID, err)
		return storeApology
	}
	return fmt.Sprintf("Nice! Marked %q as completed %s", target.Title, statusGlyph(task.StatusCompleted))
}

func (a *Agent) listTasks(userID int64) string {
	active, err := a.tasks.ListActive(userID)
	if err != nil {
		log.Printf("❌ list tasks for user %d: %v", userID, err)
		return storeApology
	}
	if len(active) == 0 {
		return onboardingMessage
	}

	var b strings.Builder
	b.WriteString("Here are your tasks:\n")
	shown := active
	if len(shown) > listLimit {
		shown = shown[:listLimit]
	}
	for _, t := range shown {
		fmt.Fprintf(&b, "%s %s\n", statusGlyph(t.Status), t.Title)
	}
	if rest := len(active) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "...and %d more", rest)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *Agent) generalChat(ctx context.Context, message string, history []llm.Message) Result {
	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.Message{Role: "system", Content: a.systemPrompt})
	if len(history) > a.contextLimit {
		history = history[len(history)-a.contextLimit:]
	}
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.Message{Role: "user", Content: message})

	resp, err := a.llmClient.Generate(ctx, msgs)
	if err != nil {
		log.Printf("❌ llm fallback failed: %v", err)
		return Result{Text: chatApology, Intent: IntentChat}
	}
	return Result{
		Text:        resp.Content,
		Intent:      IntentChat,
		Model:       resp.Model,
		TotalTokens: resp.TotalTokens,
	}
}

// MatchTask resolves a user-supplied key to one active task. An exact
// case-insensitive title match wins; otherwise the first task (in
// creation order) whose title contains the key, or is contained by it,
// is taken. The bidirectional containment tolerates partial phrasing on
// either side.
func MatchTask(tasks []task.Task, key string) (task.Task, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return task.Task{}, false
	}
	for _, t := range tasks {
		if strings.ToLower(t.Title) == key {
			return t, true
		}
	}
	for _, t := range tasks {
		title := strings.ToLower(t.Title)
		if strings.Contains(title, key) || strings.Contains(key, title) {
			return t, true
		}
	}
	return task.Task{}, false
}

func statusGlyph(s task.Status) string {
	switch s {
	case task.StatusCompleted:
		return "✅"
	case task.StatusInProgress:
		return "🔄"
	default:
		return "⏳"
	}
}
