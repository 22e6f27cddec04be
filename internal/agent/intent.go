package agent

import "strings"

// Intent is the closed set of actions an utterance can map to.
type Intent string

const (
	IntentAdd      Intent = "add"
	IntentEdit     Intent = "edit"
	IntentDelete   Intent = "delete"
	IntentComplete Intent = "complete"
	IntentList     Intent = "list"
	IntentChat     Intent = "chat"
)

// Keyword sets in precedence order: the first set with any hit wins,
// regardless of where the keyword sits in the sentence. Destructive and
// specific intents come first so an incidental "new" or "show" later in
// the utterance cannot shadow them.
var intentKeywords = []struct {
	intent   Intent
	keywords []string
}{
	{IntentEdit, []string{"edit", "update", "change", "modify", "rename"}},
	{IntentDelete, []string{"delete", "remove", "cancel"}},
	{IntentComplete, []string{"complete", "done", "finish", "mark done", "mark as done"}},
	{IntentList, []string{"list", "show", "my tasks", "what tasks", "all tasks"}},
	{IntentAdd, []string{"add", "create", "new", "remind"}},
}

// Classify assigns an intent to a raw utterance by keyword presence.
// Pure and case-insensitive. An utterance with no keyword at all is
// general chat and goes to the language model.
func Classify(utterance string) Intent {
	lower := strings.ToLower(utterance)
	for _, set := range intentKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				return set.intent
			}
		}
	}
	return IntentChat
}
