package models

import (
	"fmt"
	"time"
)

// TutorialKey is the progress-document key for the optional tutorial,
// tracked alongside the numbered days but outside the serial chain.
const TutorialKey = "tutorial"

// DayKey returns the progress-document key for a day. Day 0 is the tutorial.
func DayKey(day int) string {
	if day == 0 {
		return TutorialKey
	}
	return fmt.Sprintf("day%d", day)
}

// CompletionMark records that a day was solved. Timestamp is assigned by the
// store at commit time, never by the client.
type CompletionMark struct {
	Done      bool       `json:"done"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// AttemptState tracks wrong answers inside the current cooldown period.
type AttemptState struct {
	AttemptsInCooldownPeriod int        `json:"attemptsInCooldownPeriod"`
	CooldownUntil            *time.Time `json:"cooldownUntil,omitempty"`
}

// ProgressDoc is the per-user progress document. It is persisted as a single
// JSONB value and mutated only through nested-key patches so sibling fields
// are never clobbered.
type ProgressDoc struct {
	Completed map[string]CompletionMark `json:"completed,omitempty"`
	Attempts  map[string]AttemptState   `json:"attempts,omitempty"`
}

// DayCompleted reports whether the given day (0 = tutorial) is done.
func (d ProgressDoc) DayCompleted(day int) bool {
	mark, ok := d.Completed[DayKey(day)]
	return ok && mark.Done
}

// AttemptsFor returns the stored attempt state for a day, zero-valued when
// the user has never answered wrong on that day.
func (d ProgressDoc) AttemptsFor(day int) AttemptState {
	return d.Attempts[DayKey(day)]
}
