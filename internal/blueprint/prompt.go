package blueprint

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// promptTemplate instructs the labeled-section wire convention that Parse
// enforces. The labels must stay in sync with the canonical section names.
const promptTemplate = `Generate a unique, useful, self-contained educational Python project about %s.
The code must be complete and runnable with Python 3.

Respond in plain text with exactly three sections, each introduced by its label
alone on its own line, in this order:

SCRIPT:
the complete contents of main.py

REQS:
pip package names, one per line (leave the section empty if the standard library suffices)

README:
a Markdown README explaining what the project does and how to run it

Do not wrap any section in code fences and do not add text outside the three sections.`

// BuildPrompt constructs the generation prompt for a topic.
func BuildPrompt(topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = "a topic of your choice"
	}
	return fmt.Sprintf(promptTemplate, topic)
}

// RandomTopic picks a topic from the pool. An empty pool yields the empty
// string, which BuildPrompt treats as "model's choice".
func RandomTopic(topics []string) string {
	if len(topics) == 0 {
		return ""
	}
	return topics[rand.IntN(len(topics))]
}
