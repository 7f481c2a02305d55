package models

import "time"

// Question is one day of hunt content. The answer field is only ever
// serialized on the admin surface; player-facing views are built from
// QuestionView.
type Question struct {
	Day        int       `json:"day"`
	Text       string    `json:"text"`
	Hint       string    `json:"hint"`
	Answer     string    `json:"answer"`
	Difficulty int       `json:"difficulty"`
	Images     []string  `json:"images"`
	UnlockDate time.Time `json:"unlock_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UpsertQuestionRequest is the admin payload for creating or editing a day.
type UpsertQuestionRequest struct {
	Day        int      `json:"day"`
	Text       string   `json:"text"`
	Hint       string   `json:"hint"`
	Answer     string   `json:"answer"`
	Difficulty int      `json:"difficulty"`
	Images     []string `json:"images"`
	UnlockDate string   `json:"unlock_date"` // RFC 3339
}

// SwapRequest exchanges the content of two existing days.
type SwapRequest struct {
	DayA int `json:"day_a"`
	DayB int `json:"day_b"`
}

// DraftQuestionRequest asks the generator for an editable question draft.
type DraftQuestionRequest struct {
	Topic      string `json:"topic"`
	Difficulty int    `json:"difficulty"`
}

// QuestionDraft is a generated starting point an admin edits before saving.
type QuestionDraft struct {
	Text       string `json:"text"`
	Hint       string `json:"hint"`
	Answer     string `json:"answer"`
	Difficulty int    `json:"difficulty"`
}
