package agent

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		utterance string
		want      Intent
	}{
		{"add task to buy groceries", IntentAdd},
		{"create a task for tomorrow", IntentAdd},
		{"remind me to call mom", IntentAdd},
		{"edit groceries to weekly shopping", IntentEdit},
		{"rename report to quarterly report", IntentEdit},
		{"please update the deadline", IntentEdit},
		{"delete the groceries task", IntentDelete},
		{"remove old stuff", IntentDelete},
		{"cancel my dentist appointment", IntentDelete},
		{"complete groceries", IntentComplete},
		{"I'm done with the report", IntentComplete},
		{"mark groceries as done", IntentComplete},
		{"list my tasks", IntentList},
		{"show me everything", IntentList},
		{"what tasks do I have", IntentList},
		{"hello there", IntentChat},
		{"how's the weather", IntentChat},
		{"", IntentChat},
	}

	for _, c := range cases {
		if got := Classify(c.utterance); got != c.want {
			t.Fatalf("Classify(%q) = %q, want %q", c.utterance, got, c.want)
		}
	}
}

// The first keyword set with a hit wins, regardless of keyword position.
func TestClassifyPrecedence(t *testing.T) {
	cases := []struct {
		utterance string
		want      Intent
	}{
		// EDIT beats DELETE even when the delete keyword comes first
		{"delete the updated task", IntentEdit},
		// COMPLETE beats ADD
		{"add a note that the report is done", IntentComplete},
		// DELETE beats ADD
		{"remove the new entry", IntentDelete},
		// LIST beats ADD
		{"show my new stuff", IntentList},
	}

	for _, c := range cases {
		if got := Classify(c.utterance); got != c.want {
			t.Fatalf("Classify(%q) = %q, want %q", c.utterance, got, c.want)
		}
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	if got := Classify("ADD TASK TO BUY MILK"); got != IntentAdd {
		t.Fatalf("uppercase utterance: got %q, want %q", got, IntentAdd)
	}
	if got := Classify("Delete That One"); got != IntentDelete {
		t.Fatalf("mixed case utterance: got %q, want %q", got, IntentDelete)
	}
}
