package generator

import (
	"strings"
	"testing"
)

func TestBuildUserPrompt(t *testing.T) {
	prompt := BuildUserPrompt("  local history  ", 4)

	if !strings.Contains(prompt, "local history") {
		t.Error("prompt missing topic")
	}
	if !strings.Contains(prompt, "Target difficulty: 4") {
		t.Error("prompt missing difficulty")
	}
	if !strings.Contains(prompt, difficultyGuidance[4]) {
		t.Error("prompt missing difficulty guidance")
	}
}

func TestSystemPromptPinsFormat(t *testing.T) {
	prompt := SystemPrompt()
	for _, field := range []string{`"text"`, `"hint"`, `"answer"`, `"difficulty"`} {
		if !strings.Contains(prompt, field) {
			t.Errorf("system prompt missing %s field", field)
		}
	}
}
