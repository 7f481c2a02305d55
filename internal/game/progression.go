package game

import (
	"fmt"
	"time"

	"github.com/treasure-hunt/backend/internal/models"
)

// Evaluation is the gating verdict for one user and one day.
type Evaluation struct {
	IsDateUnlocked   bool
	IsSerialUnlocked bool
	IsCompleted      bool
	LockReason       string
}

// Accessible reports whether the day can be displayed and accept submissions.
func (e Evaluation) Accessible() bool {
	return e.IsDateUnlocked && e.IsSerialUnlocked
}

// Evaluate computes the gating verdict. Day 1 never requires a prior
// completion; the tutorial never participates in the serial chain.
func Evaluate(q *models.Question, doc models.ProgressDoc, now time.Time) Evaluation {
	ev := Evaluation{
		IsDateUnlocked:   IsUnlocked(q.UnlockDate, now),
		IsSerialUnlocked: q.Day <= 1 || doc.DayCompleted(q.Day-1),
		IsCompleted:      doc.DayCompleted(q.Day),
	}
	switch {
	case !ev.IsDateUnlocked:
		ev.LockReason = dateLockReason(q.UnlockDate)
	case !ev.IsSerialUnlocked:
		ev.LockReason = serialLockReason(q.Day)
	}
	return ev
}

func dateLockReason(unlockDate time.Time) string {
	return "Unlocks on " + unlockDate.Format("Jan 2, 2006 15:04 MST")
}

func serialLockReason(day int) string {
	return fmt.Sprintf("Complete Day %d first", day-1)
}
