// Package game implements the daily unlock, progression, cooldown, and
// submission logic of the treasure hunt.
package game

import (
	"strings"
	"time"
)

// IsUnlocked reports whether content scheduled for unlockDate is visible at
// now. Evaluated fresh on every request; never cached.
func IsUnlocked(unlockDate, now time.Time) bool {
	return !now.Before(unlockDate)
}

// CurrentDay derives the calendar day of the hunt from the number of
// questions already unlocked. Always at least 1, so the hunt starts on day 1
// even before the first scheduled unlock.
func CurrentDay(unlockedCount int) int {
	if unlockedCount < 1 {
		return 1
	}
	return unlockedCount
}

// NormalizeAnswer prepares an answer for comparison: surrounding whitespace
// is ignored and matching is case-insensitive. No fuzzy matching beyond that.
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
