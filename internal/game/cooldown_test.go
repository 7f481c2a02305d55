package game

import (
	"testing"
	"time"

	"github.com/treasure-hunt/backend/internal/models"
)

func docWithAttempts(day int, count int, cooldownUntil *time.Time) models.ProgressDoc {
	return models.ProgressDoc{
		Attempts: map[string]models.AttemptState{
			models.DayKey(day): {AttemptsInCooldownPeriod: count, CooldownUntil: cooldownUntil},
		},
	}
}

func TestCooldownFor(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no attempts", func(t *testing.T) {
		cd := CooldownFor(models.ProgressDoc{}, 1, now)
		if cd.InCooldown || cd.AttemptsInPeriod != 0 {
			t.Fatalf("unexpected state: %+v", cd)
		}
	})

	t.Run("attempts without cooldown", func(t *testing.T) {
		cd := CooldownFor(docWithAttempts(1, 4, nil), 1, now)
		if cd.InCooldown || cd.AttemptsInPeriod != 4 {
			t.Fatalf("unexpected state: %+v", cd)
		}
	})

	t.Run("active window", func(t *testing.T) {
		until := now.Add(12 * time.Second)
		cd := CooldownFor(docWithAttempts(1, 10, &until), 1, now)
		if !cd.InCooldown || cd.RemainingSeconds != 12 || cd.AttemptsInPeriod != 10 {
			t.Fatalf("unexpected state: %+v", cd)
		}
	})

	t.Run("remaining rounds up", func(t *testing.T) {
		until := now.Add(1500 * time.Millisecond)
		cd := CooldownFor(docWithAttempts(1, 10, &until), 1, now)
		if cd.RemainingSeconds != 2 {
			t.Fatalf("expected ceil to 2s, got %d", cd.RemainingSeconds)
		}
	})

	t.Run("expired window reports zero", func(t *testing.T) {
		until := now.Add(-time.Second)
		cd := CooldownFor(docWithAttempts(1, 10, &until), 1, now)
		if cd.InCooldown || cd.AttemptsInPeriod != 0 {
			t.Fatalf("stale counter must read as zero: %+v", cd)
		}
	})
}
