package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"task-chatter/internal/llm"
	"task-chatter/internal/task"
)

type fakeLLM struct {
	resp llm.Response
	err  error
	last []llm.Message
}

func (f *fakeLLM) Generate(_ context.Context, messages []llm.Message) (llm.Response, error) {
	f.last = messages
	return f.resp, f.err
}

func newTestAgent(t *testing.T) (*Agent, *task.MemoryStore, *fakeLLM) {
	t.Helper()
	store := task.NewMemoryStore()
	fake := &fakeLLM{resp: llm.Response{Content: "Hello there", Model: "test-model", TotalTokens: 7}}
	return New(store, fake, "", 20), store, fake
}

func TestRespondAddTask(t *testing.T) {
	ag, store, _ := newTestAgent(t)

	res := ag.Respond(context.Background(), 1, "add task to buy groceries", nil)
	if res.Intent != IntentAdd {
		t.Fatalf("intent = %q, want add", res.Intent)
	}
	if res.Text != "Added task: ⏳ Buy groceries" {
		t.Fatalf("unexpected confirmation: %q", res.Text)
	}

	active, _ := store.ListActive(1)
	if len(active) != 1 {
		t.Fatalf("want 1 task, got %d", len(active))
	}
	if active[0].Title != "Buy groceries" || active[0].Status != task.StatusPending || active[0].Priority != task.PriorityMedium {
		t.Fatalf("unexpected task: %+v", active[0])
	}
}

func TestRespondAddTaskMentionsPriority(t *testing.T) {
	ag, _, _ := newTestAgent(t)

	res := ag.Respond(context.Background(), 1, "add task to buy milk urgent", nil)
	if res.Text != "Added task: ⏳ Buy milk (high priority)" {
		t.Fatalf("unexpected confirmation: %q", res.Text)
	}
}

func TestRespondEditRenames(t *testing.T) {
	ag, store, _ := newTestAgent(t)
	seed(t, store, 1, "Read book")

	res := ag.Respond(context.Background(), 1, "rename read book to learn python", nil)
	if res.Intent != IntentEdit {
		t.Fatalf("intent = %q, want edit", res.Intent)
	}
	if !strings.Contains(res.Text, "Learn python") {
		t.Fatalf("confirmation should carry the new title: %q", res.Text)
	}

	active, _ := store.ListActive(1)
	if active[0].Title != "Learn python" {
		t.Fatalf("title not updated: %q", active[0].Title)
	}
}

func TestRespondEditNoMatchLeavesStoreAlone(t *testing.T) {
	ag, store, _ := newTestAgent(t)
	seed(t, store, 1, "Read book")

	res := ag.Respond(context.Background(), 1, "edit walk dog to feed cat", nil)
	if !strings.Contains(res.Text, "couldn't find") {
		t.Fatalf("unexpected response: %q", res.Text)
	}

	active, _ := store.ListActive(1)
	if active[0].Title != "Read book" {
		t.Fatalf("store mutated on failed match: %q", active[0].Title)
	}
}

func TestRespondEditMalformedUtterance(t *testing.T) {
	ag, _, _ := newTestAgent(t)

	res := ag.Respond(context.Background(), 1, "edit something", nil)
	if !strings.Contains(res.Text, "edit <old title> to <new title>") {
		t.Fatalf("want usage hint, got %q", res.Text)
	}
}

func TestRespondDeleteMovesToHistory(t *testing.T) {
	ag, store, _ := newTestAgent(t)
	seed(t, store, 1, "Buy groceries")

	res := ag.Respond(context.Background(), 1, "delete groceries", nil)
	if !strings.Contains(res.Text, "Deleted") {
		t.Fatalf("unexpected response: %q", res.Text)
	}

	active, _ := store.ListActive(1)
	if len(active) != 0 {
		t.Fatalf("task still active after delete")
	}
	history, _ := store.History(1)
	if len(history) != 1 {
		t.Fatalf("task missing from history")
	}
}

func TestRespondComplete(t *testing.T) {
	ag, store, _ := newTestAgent(t)
	seed(t, store, 1, "Buy groceries")

	res := ag.Respond(context.Background(), 1, "mark groceries as done", nil)
	if res.Intent != IntentComplete {
		t.Fatalf("intent = %q, want complete", res.Intent)
	}
	if !strings.Contains(res.Text, "completed") {
		t.Fatalf("unexpected response: %q", res.Text)
	}

	active, _ := store.ListActive(1)
	if active[0].Status != task.StatusCompleted {
		t.Fatalf("status = %q, want completed", active[0].Status)
	}
}

func TestRespondListEmpty(t *testing.T) {
	ag, _, _ := newTestAgent(t)

	res := ag.Respond(context.Background(), 1, "list my tasks", nil)
	if res.Text != onboardingMessage {
		t.Fatalf("want onboarding message, got %q", res.Text)
	}
}

func TestRespondListTruncates(t *testing.T) {
	ag, store, _ := newTestAgent(t)
	for i := 1; i <= 12; i++ {
		seed(t, store, 1, fmt.Sprintf("Chore %d", i))
	}

	res := ag.Respond(context.Background(), 1, "list my tasks", nil)
	if !strings.Contains(res.Text, "...and 2 more") {
		t.Fatalf("missing truncation line: %q", res.Text)
	}
	// header + 10 task lines + trailer
	if lines := strings.Split(res.Text, "\n"); len(lines) != 12 {
		t.Fatalf("want 12 lines, got %d:\n%s", len(lines), res.Text)
	}
}

func TestRespondListScopedToUser(t *testing.T) {
	ag, store, _ := newTestAgent(t)
	seed(t, store, 1, "Mine")
	seed(t, store, 2, "Theirs")

	res := ag.Respond(context.Background(), 1, "list my tasks", nil)
	if strings.Contains(res.Text, "Theirs") {
		t.Fatalf("another user's task leaked: %q", res.Text)
	}
}

func TestRespondChatFallback(t *testing.T) {
	ag, _, fake := newTestAgent(t)
	history := []llm.Message{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}

	res := ag.Respond(context.Background(), 1, "how's the weather", history)
	if res.Intent != IntentChat {
		t.Fatalf("intent = %q, want chat", res.Intent)
	}
	if res.Text != "Hello there" || res.Model != "test-model" || res.TotalTokens != 7 {
		t.Fatalf("llm result not passed through: %+v", res)
	}

	if fake.last[0].Role != "system" {
		t.Fatalf("first message should be the system prompt, got %q", fake.last[0].Role)
	}
	if last := fake.last[len(fake.last)-1]; last.Role != "user" || last.Content != "how's the weather" {
		t.Fatalf("last message should be the new utterance, got %+v", last)
	}
	if len(fake.last) != 4 {
		t.Fatalf("want system + 2 history + user, got %d messages", len(fake.last))
	}
}

func TestRespondChatApologyOnLLMError(t *testing.T) {
	ag, _, fake := newTestAgent(t)
	fake.err = errors.New("provider down")

	res := ag.Respond(context.Background(), 1, "how's the weather", nil)
	if res.Text != chatApology {
		t.Fatalf("want chat apology, got %q", res.Text)
	}
}

func TestMatchTask(t *testing.T) {
	tasks := []task.Task{
		{ID: 1, Title: "Groceries run"},
		{ID: 2, Title: "Groceries"},
		{ID: 3, Title: "Call mom"},
	}

	// Exact case-insensitive title wins over an earlier substring hit
	got, ok := MatchTask(tasks, "groceries")
	if !ok || got.ID != 2 {
		t.Fatalf("exact match: got %+v ok=%v", got, ok)
	}

	// Otherwise the first containment in creation order
	got, ok = MatchTask(tasks, "grocer")
	if !ok || got.ID != 1 {
		t.Fatalf("substring match: got %+v ok=%v", got, ok)
	}

	// Key containing the title also matches
	got, ok = MatchTask(tasks, "call mom tonight")
	if !ok || got.ID != 3 {
		t.Fatalf("reverse containment: got %+v ok=%v", got, ok)
	}

	if _, ok := MatchTask(tasks, "dentist"); ok {
		t.Fatalf("unexpected match")
	}
	if _, ok := MatchTask(tasks, "  "); ok {
		t.Fatalf("blank key matched")
	}
}

func seed(t *testing.T, store *task.MemoryStore, userID int64, title string) task.Task {
	t.Helper()
	created, err := store.Create(task.Task{
		UserID:   userID,
		Title:    title,
		Status:   task.StatusPending,
		Priority: task.PriorityMedium,
	})
	if err != nil {
		t.Fatalf("seed %q: %v", title, err)
	}
	return created
}
