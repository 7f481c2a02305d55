package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/treasure-hunt/backend/internal/models"
)

// ParseDraft extracts a question draft from raw model output. Code fences are
// tolerated; anything else that fails to decode is an error.
func ParseDraft(responseBody string) (*models.QuestionDraft, error) {
	cleaned := stripCodeFences(responseBody)

	var draft models.QuestionDraft
	if err := json.Unmarshal([]byte(cleaned), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := validateDraft(&draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

func validateDraft(draft *models.QuestionDraft) error {
	var errs []string
	if strings.TrimSpace(draft.Text) == "" {
		errs = append(errs, "missing question text")
	}
	if strings.TrimSpace(draft.Answer) == "" {
		errs = append(errs, "missing answer")
	}
	if strings.Contains(strings.ToLower(draft.Text), strings.ToLower(strings.TrimSpace(draft.Answer))) && draft.Answer != "" {
		errs = append(errs, "question text contains the answer")
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid draft: %s", strings.Join(errs, "; "))
	}
	return nil
}
