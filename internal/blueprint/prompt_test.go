package blueprint

import (
	"strings"
	"testing"
)

func TestBuildPrompt_ContainsLabelsAndTopic(t *testing.T) {
	prompt := BuildPrompt("a text adventure")

	if !strings.Contains(prompt, "a text adventure") {
		t.Error("prompt should contain the topic")
	}
	for _, label := range []string{"SCRIPT:", "REQS:", "README:"} {
		if !strings.Contains(prompt, label) {
			t.Errorf("prompt should instruct label %q", label)
		}
	}
}

func TestBuildPrompt_EmptyTopic(t *testing.T) {
	prompt := BuildPrompt("  ")
	if !strings.Contains(prompt, "a topic of your choice") {
		t.Error("blank topic should fall back to model's choice")
	}
}

// The prompt's label instructions must round-trip through the parser.
func TestBuildPrompt_LabelsMatchParser(t *testing.T) {
	for _, label := range []string{"SCRIPT", "REQS", "README"} {
		if MatchCanonical(label) == "" {
			t.Errorf("instructed label %q is not a known section", label)
		}
	}
}

func TestRandomTopic(t *testing.T) {
	topics := []string{"alpha", "beta", "gamma"}
	seen := make(map[string]bool)
	for range 100 {
		topic := RandomTopic(topics)
		seen[topic] = true
		found := false
		for _, want := range topics {
			if topic == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("RandomTopic returned %q, not in pool", topic)
		}
	}
	if len(seen) < 2 {
		t.Error("RandomTopic should vary across draws")
	}
}

func TestRandomTopic_EmptyPool(t *testing.T) {
	if got := RandomTopic(nil); got != "" {
		t.Errorf("RandomTopic(nil) = %q, want empty", got)
	}
}
