package game

import (
	"math"
	"time"

	"github.com/treasure-hunt/backend/internal/models"
)

const (
	// MaxAttemptsBeforeCooldown is the number of wrong answers in one period
	// that triggers a lockout.
	MaxAttemptsBeforeCooldown = 10
	// CooldownDuration is how long submissions are rejected after the
	// threshold is reached.
	CooldownDuration = 30 * time.Second
)

// CooldownInfo is the read-derived cooldown view for one user and day.
// Nothing here is persisted; writes happen only on wrong answers.
type CooldownInfo struct {
	InCooldown       bool
	RemainingSeconds int
	AttemptsInPeriod int
}

// CooldownFor inspects the stored attempt state at the given instant.
// An expired cooldown window means the stored counter is stale: it reports
// as zero, and the next wrong answer starts a fresh period at count 1.
func CooldownFor(doc models.ProgressDoc, day int, now time.Time) CooldownInfo {
	state := doc.AttemptsFor(day)
	if state.CooldownUntil != nil {
		if now.Before(*state.CooldownUntil) {
			return CooldownInfo{
				InCooldown:       true,
				RemainingSeconds: int(math.Ceil(state.CooldownUntil.Sub(now).Seconds())),
				AttemptsInPeriod: state.AttemptsInCooldownPeriod,
			}
		}
		return CooldownInfo{}
	}
	return CooldownInfo{AttemptsInPeriod: state.AttemptsInCooldownPeriod}
}
