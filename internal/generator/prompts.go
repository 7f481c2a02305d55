package generator

import (
	"fmt"
	"strings"
)

var difficultyGuidance = map[int]string{
	1: "Solvable in under a minute by anyone vaguely familiar with the topic. The answer should be the first thing that comes to mind once the riddle clicks.",
	2: "A short chain of reasoning or one piece of general knowledge. Most players solve it on the first or second try.",
	3: "Requires connecting two or three clues. A typical player needs a few attempts or a moment with a search engine.",
	4: "Obscure angle on the topic, or wordplay that hides the subject. Players should expect to think for several minutes.",
	5: "Genuinely hard. Layered wordplay, misdirection, or niche knowledge. Only intended for the final days of a hunt.",
}

// SystemPrompt frames the model as a puzzle author and pins the output format.
func SystemPrompt() string {
	return `You are a puzzle author for a daily treasure hunt game. Players see one riddle-style question per day and type a short free-text answer. Answers are compared case-insensitively after trimming whitespace, so the canonical answer must be a short, unambiguous phrase a player would naturally type.

Rules for every question you write:
- The question is self-contained: no references to earlier days or outside context the player cannot reach.
- Exactly one reasonable answer. If synonyms are likely, pick the most natural one as the canonical answer.
- The hint narrows the search without giving the answer away.
- Never include the answer verbatim inside the question text.

Respond with a single JSON object and nothing else:
{
  "text": "the question shown to players",
  "hint": "a nudge shown on request",
  "answer": "the canonical answer",
  "difficulty": 1-5
}`
}

// BuildUserPrompt asks for one draft on a topic at a target difficulty.
func BuildUserPrompt(topic string, difficulty int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write one treasure hunt question about: %s\n\n", strings.TrimSpace(topic))
	fmt.Fprintf(&b, "Target difficulty: %d out of 5.\n", difficulty)
	if guidance, ok := difficultyGuidance[difficulty]; ok {
		fmt.Fprintf(&b, "At this level: %s\n", guidance)
	}
	b.WriteString("\nReturn only the JSON object.")
	return b.String()
}
