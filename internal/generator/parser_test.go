package generator

import (
	"context"
	"strings"
	"testing"
)

const validDraftJSON = `{
  "text": "I was built for a fair and meant to be torn down. What am I?",
  "hint": "Think of Paris landmarks.",
  "answer": "the eiffel tower",
  "difficulty": 2
}`

func TestParseDraft(t *testing.T) {
	draft, err := ParseDraft(validDraftJSON)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if draft.Answer != "the eiffel tower" || draft.Difficulty != 2 {
		t.Fatalf("unexpected draft: %+v", draft)
	}
}

func TestParseDraftStripsCodeFences(t *testing.T) {
	fenced := []string{
		"```json\n" + validDraftJSON + "\n```",
		"```\n" + validDraftJSON + "\n```",
		"  " + validDraftJSON + "  ",
	}
	for _, input := range fenced {
		if _, err := ParseDraft(input); err != nil {
			t.Errorf("input %q...: %v", input[:12], err)
		}
	}
}

func TestParseDraftRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "here is your question: what am I?"},
		{"missing text", `{"hint":"h","answer":"a","difficulty":1}`},
		{"missing answer", `{"text":"What am I?","difficulty":1}`},
		{"answer inside question", `{"text":"Is the answer the eiffel tower?","answer":"the eiffel tower","difficulty":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDraft(tt.input); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestMockClientDraftParses(t *testing.T) {
	resp, err := NewMockClient().Generate(context.Background(), "", "")
	if err != nil {
		t.Fatalf("mock generate: %v", err)
	}
	draft, err := ParseDraft(resp.Content)
	if err != nil {
		t.Fatalf("mock draft should parse: %v", err)
	}
	if strings.TrimSpace(draft.Answer) == "" {
		t.Fatal("mock draft missing answer")
	}
}
