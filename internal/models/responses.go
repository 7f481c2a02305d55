package models

import "time"

// Submission result codes. Handlers map these to HTTP statuses; clients can
// also branch on them directly.
const (
	ResultCorrect          = "correct"
	ResultIncorrect        = "incorrect"
	ResultAlreadyCompleted = "already_completed"
	ResultCooldown         = "cooldown"
	ResultDateLocked       = "locked_date"
	ResultProgressLocked   = "locked_progression"
	ResultTutorialComplete = "tutorial_complete"
)

// SubmitRequest is one answer submission for one day.
type SubmitRequest struct {
	Day    int    `json:"day"`
	Answer string `json:"answer"`
}

// SubmitResponse reports the outcome of a submission. Reason is always
// human-readable so the client can render it without decoding the code.
type SubmitResponse struct {
	Result                 string     `json:"result"`
	Correct                bool       `json:"correct"`
	Reason                 string     `json:"reason,omitempty"`
	CooldownSeconds        int        `json:"cooldownSeconds"`
	AttemptsInPeriod       int        `json:"attemptsInPeriod"`
	AttemptsBeforeCooldown int        `json:"attemptsBeforeCooldown"`
	Locked                 bool       `json:"locked,omitempty"`
	DateLockedUntil        *time.Time `json:"dateLockedUntil,omitempty"`
}

// QuestionView is the player-facing view of one day. Content fields are empty
// whenever the day is locked; locked content never leaves the server.
type QuestionView struct {
	Day                    int        `json:"day"`
	Question               string     `json:"question,omitempty"`
	Hint                   string     `json:"hint,omitempty"`
	Difficulty             int        `json:"difficulty,omitempty"`
	Images                 []string   `json:"images,omitempty"`
	IsCompleted            bool       `json:"isCompleted"`
	CooldownSeconds        int        `json:"cooldownSeconds"`
	AttemptsInPeriod       int        `json:"attemptsInPeriod"`
	AttemptsBeforeCooldown int        `json:"attemptsBeforeCooldown"`
	IsUnlocked             bool       `json:"isUnlocked"`
	LockReason             string     `json:"lockReason,omitempty"`
	IsCatchUp              bool       `json:"isCatchUp"`
	DateLockedUntil        *time.Time `json:"dateLockedUntil,omitempty"`
}

// DayProgress is one row of the progress overview.
type DayProgress struct {
	Day            int    `json:"day"`
	IsCompleted    bool   `json:"isCompleted"`
	IsAccessible   bool   `json:"isAccessible"`
	Reason         string `json:"reason,omitempty"`
	IsDateUnlocked bool   `json:"isDateUnlocked"`
}

// ProgressResponse summarizes a user's position in the hunt.
type ProgressResponse struct {
	CurrentDay              int           `json:"currentDay"`
	Progress                []DayProgress `json:"progress"`
	IsTutorialComplete      bool          `json:"isTutorialComplete"`
	TotalCompleted          int           `json:"totalCompleted"`
	TotalDays               int           `json:"totalDays"`
	NextAvailableDay        int           `json:"nextAvailableDay"`
	AllQuestionsComplete    bool          `json:"allQuestionsComplete"`
	HasIncompleteAccessible bool          `json:"hasIncompleteAccessible"`
}

// LeaderboardEntry is one ranked finisher for a day.
type LeaderboardEntry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CompletedAt time.Time `json:"completedAt"`
	Rank        int       `json:"rank"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
