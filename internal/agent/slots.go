package agent

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"task-chatter/internal/task"
)

// Slots carries the pieces of information extracted from an utterance
// that the matched intent's action needs.
type Slots struct {
	Title    string
	OldTitle string
	NewTitle string
	Status   task.Status
	Priority task.Priority
}

// ErrNoEditPattern means an EDIT utterance did not fit any of the
// "<verb> [task] <old> to <new>" templates.
var ErrNoEditPattern = errors.New("no edit pattern matched")

// ErrNoTarget means a DELETE/COMPLETE utterance was nothing but filler
// words, leaving no task reference to match against.
var ErrNoTarget = errors.New("no task reference in utterance")

// Leading command phrases stripped from ADD utterances, longest first so
// "add task to" wins over "add".
var addLeadPhrases = []string{
	"add task to", "create task to", "remind me to",
	"add task", "create task", "new task", "add",
}

// Status/priority markers removed from the remaining title text.
var markerPhrases = []string{
	"on progress", "in progress", "high priority", "low priority",
	"completed", "pending", "urgent",
}

// The four interchangeable EDIT templates, tried in order. The old-title
// group is non-greedy so the first " to " splits old from new.
var editPatterns = []*regexp.Regexp{
	regexp.MustCompile(`edit (?:task )?(.+?) to (.+)`),
	regexp.MustCompile(`update (?:task )?(.+?) to (.+)`),
	regexp.MustCompile(`change (?:task )?(.+?) to (.+)`),
	regexp.MustCompile(`rename (?:task )?(.+?) to (.+)`),
}

var deleteFillers = []string{"delete", "remove", "cancel", "task"}
var completeFillers = []string{"complete", "done", "finish", "mark", "as", "task"}

// Extract derives the slots an intent needs from the raw utterance.
// LIST and CHAT need none and always succeed.
func Extract(utterance string, intent Intent) (Slots, error) {
	lower := strings.ToLower(strings.TrimSpace(utterance))

	switch intent {
	case IntentAdd:
		return extractAdd(lower), nil
	case IntentEdit:
		return extractEdit(lower)
	case IntentDelete:
		return extractTarget(lower, deleteFillers)
	case IntentComplete:
		return extractTarget(lower, completeFillers)
	default:
		return Slots{}, nil
	}
}

func extractAdd(lower string) Slots {
	title := lower
	for _, p := range addLeadPhrases {
		if strings.HasPrefix(title, p) {
			title = strings.TrimPrefix(title, p)
			break
		}
	}
	for _, m := range markerPhrases {
		title = strings.ReplaceAll(title, m, "")
	}
	title = normalizeSpace(title)
	if title == "" {
		title = "New Task"
	} else {
		title = Capitalize(title)
	}

	s := Slots{Title: title, Status: task.StatusPending, Priority: task.PriorityMedium}
	if strings.Contains(lower, "in progress") || strings.Contains(lower, "on progress") {
		s.Status = task.StatusInProgress
	} else if strings.Contains(lower, "completed") || strings.Contains(lower, "done") {
		s.Status = task.StatusCompleted
	}
	if strings.Contains(lower, "high priority") || strings.Contains(lower, "urgent") {
		s.Priority = task.PriorityHigh
	} else if strings.Contains(lower, "low priority") {
		s.Priority = task.PriorityLow
	}
	return s
}

func extractEdit(lower string) (Slots, error) {
	for _, re := range editPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			return Slots{
				OldTitle: strings.TrimSpace(m[1]),
				NewTitle: strings.TrimSpace(m[2]),
			}, nil
		}
	}
	return Slots{}, ErrNoEditPattern
}

// extractTarget strips intent filler words and keeps the remainder as the
// fuzzy-match key.
func extractTarget(lower string, fillers []string) (Slots, error) {
	var kept []string
	for _, w := range strings.Fields(lower) {
		filler := false
		for _, f := range fillers {
			if w == f {
				filler = true
				break
			}
		}
		if !filler {
			kept = append(kept, w)
		}
	}
	key := strings.Join(kept, " ")
	if key == "" {
		return Slots{}, ErrNoTarget
	}
	return Slots{Title: key}, nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Capitalize upper-cases the first rune, leaving the rest untouched.
func Capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
