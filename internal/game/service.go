package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/treasure-hunt/backend/internal/clock"
	"github.com/treasure-hunt/backend/internal/models"
)

// CatalogReader is the read-only view of the question catalog the game core
// consumes. Authoring happens elsewhere.
type CatalogReader interface {
	GetByDay(ctx context.Context, day int) (*models.Question, error)
	List(ctx context.Context) ([]models.Question, error)
	CountUnlocked(ctx context.Context, now time.Time) (int, error)
}

// ProgressTx is one atomic read-modify-write unit over a user's progress
// document. All checks and writes for a submission happen under its lock.
type ProgressTx interface {
	Doc() models.ProgressDoc
	Now() time.Time
	Patch(path string, value interface{}) error
	RecordCompletion(day int, displayName string, attempts int) error
	Commit() error
	Rollback() error
}

// ProgressStore persists per-user progress documents.
type ProgressStore interface {
	Read(ctx context.Context, userID string) (models.ProgressDoc, error)
	Begin(ctx context.Context, userID string) (ProgressTx, error)
}

// Service orchestrates question views, progress views, and submissions.
type Service struct {
	catalog    CatalogReader
	progress   ProgressStore
	clock      clock.Clock
	onComplete func(ctx context.Context, day int)
}

func NewService(catalog CatalogReader, progress ProgressStore, clk clock.Clock) *Service {
	return &Service{catalog: catalog, progress: progress, clock: clk}
}

// OnCompletion registers a callback fired after a committed day completion.
// Used to drop stale leaderboard cache entries.
func (s *Service) OnCompletion(fn func(ctx context.Context, day int)) {
	s.onComplete = fn
}

// QuestionView builds the player view of one day. day 0 means "today",
// resolved from the catalog. Content is redacted whenever the day is locked.
func (s *Service) QuestionView(ctx context.Context, userID string, day int) (*models.QuestionView, error) {
	now := s.clock.Now()

	unlocked, err := s.catalog.CountUnlocked(ctx, now)
	if err != nil {
		return nil, err
	}
	currentDay := CurrentDay(unlocked)
	if day == 0 {
		day = currentDay
	}

	q, err := s.catalog.GetByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	doc, err := s.progress.Read(ctx, userID)
	if err != nil {
		return nil, err
	}

	ev := Evaluate(q, doc, now)
	cd := CooldownFor(doc, day, now)

	view := &models.QuestionView{
		Day:              day,
		IsCompleted:      ev.IsCompleted,
		CooldownSeconds:  cd.RemainingSeconds,
		AttemptsInPeriod: cd.AttemptsInPeriod,
		IsUnlocked:       ev.Accessible(),
		LockReason:       ev.LockReason,
		IsCatchUp:        day < currentDay,
	}
	if !cd.InCooldown {
		view.AttemptsBeforeCooldown = MaxAttemptsBeforeCooldown - cd.AttemptsInPeriod
	}
	if !ev.IsDateUnlocked {
		until := q.UnlockDate
		view.DateLockedUntil = &until
		return view, nil
	}
	if !ev.IsSerialUnlocked {
		return view, nil
	}

	view.Question = q.Text
	view.Hint = q.Hint
	view.Difficulty = q.Difficulty
	view.Images = q.Images
	return view, nil
}

// Progress summarizes the user's position across the whole catalog.
func (s *Service) Progress(ctx context.Context, userID string) (*models.ProgressResponse, error) {
	now := s.clock.Now()

	questions, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := s.progress.Read(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &models.ProgressResponse{
		Progress:           []models.DayProgress{},
		TotalDays:          len(questions),
		IsTutorialComplete: doc.DayCompleted(0),
	}

	unlockedCount := 0
	for i := range questions {
		q := &questions[i]
		ev := Evaluate(q, doc, now)
		if ev.IsDateUnlocked {
			unlockedCount++
		}
		if ev.IsCompleted {
			resp.TotalCompleted++
		}
		accessible := ev.Accessible()
		if accessible && !ev.IsCompleted {
			resp.HasIncompleteAccessible = true
			if resp.NextAvailableDay == 0 {
				resp.NextAvailableDay = q.Day
			}
		}
		resp.Progress = append(resp.Progress, models.DayProgress{
			Day:            q.Day,
			IsCompleted:    ev.IsCompleted,
			IsAccessible:   accessible,
			Reason:         ev.LockReason,
			IsDateUnlocked: ev.IsDateUnlocked,
		})
	}

	resp.CurrentDay = CurrentDay(unlockedCount)
	resp.AllQuestionsComplete = len(questions) > 0 && resp.TotalCompleted == len(questions)
	return resp, nil
}

// Submit processes one answer for one day. Every precondition is re-checked
// server-side under the progress row lock; client-reported state is never
// trusted. Rejections commit nothing.
func (s *Service) Submit(ctx context.Context, userID, displayName string, day int, answer string) (*models.SubmitResponse, error) {
	if day < 1 || strings.TrimSpace(answer) == "" {
		return nil, models.ErrMissingInput
	}

	q, err := s.catalog.GetByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(q.Answer) == "" {
		log.Error().Int("day", day).Msg("question has no canonical answer")
		return nil, models.ErrCorruptQuestion
	}

	tx, err := s.progress.Begin(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	doc := tx.Doc()
	now := tx.Now()

	if !IsUnlocked(q.UnlockDate, now) {
		until := q.UnlockDate
		return &models.SubmitResponse{
			Result:          models.ResultDateLocked,
			Reason:          dateLockReason(q.UnlockDate),
			Locked:          true,
			DateLockedUntil: &until,
		}, nil
	}
	if day > 1 && !doc.DayCompleted(day-1) {
		return &models.SubmitResponse{
			Result: models.ResultProgressLocked,
			Reason: serialLockReason(day),
			Locked: true,
		}, nil
	}
	if doc.DayCompleted(day) {
		// Idempotent resubmission: success, no evaluation, no counters.
		return &models.SubmitResponse{
			Result:                 models.ResultAlreadyCompleted,
			Correct:                true,
			Reason:                 "Day already completed",
			AttemptsBeforeCooldown: MaxAttemptsBeforeCooldown,
		}, nil
	}

	cd := CooldownFor(doc, day, now)
	if cd.InCooldown {
		// Rejecting for cooldown is not itself an attempt.
		return &models.SubmitResponse{
			Result:           models.ResultCooldown,
			Reason:           fmt.Sprintf("Too many attempts. Try again in %d seconds", cd.RemainingSeconds),
			CooldownSeconds:  cd.RemainingSeconds,
			AttemptsInPeriod: cd.AttemptsInPeriod,
		}, nil
	}

	key := models.DayKey(day)
	if NormalizeAnswer(answer) == NormalizeAnswer(q.Answer) {
		ts := now
		if err := tx.Patch("completed."+key, models.CompletionMark{Done: true, Timestamp: &ts}); err != nil {
			return nil, err
		}
		if err := tx.RecordCompletion(day, displayName, cd.AttemptsInPeriod+1); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		if s.onComplete != nil {
			s.onComplete(ctx, day)
		}
		return &models.SubmitResponse{
			Result:                 models.ResultCorrect,
			Correct:                true,
			Reason:                 "Correct!",
			AttemptsBeforeCooldown: MaxAttemptsBeforeCooldown,
		}, nil
	}

	// Wrong answer. A stale counter from an expired window reads as zero, so
	// a fresh period starts at 1 here rather than resuming the old count.
	newCount := cd.AttemptsInPeriod + 1
	state := models.AttemptState{AttemptsInCooldownPeriod: newCount}
	resp := &models.SubmitResponse{
		Result:           models.ResultIncorrect,
		Reason:           "Incorrect answer",
		AttemptsInPeriod: newCount,
	}
	if newCount >= MaxAttemptsBeforeCooldown {
		until := now.Add(CooldownDuration)
		state.CooldownUntil = &until
		resp.CooldownSeconds = int(CooldownDuration.Seconds())
		resp.Reason = fmt.Sprintf("Incorrect. Cooldown for %d seconds", resp.CooldownSeconds)
	} else {
		resp.AttemptsBeforeCooldown = MaxAttemptsBeforeCooldown - newCount
	}
	if err := tx.Patch("attempts."+key, state); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return resp, nil
}

// CompleteTutorial marks the tutorial done. No gating, idempotent.
func (s *Service) CompleteTutorial(ctx context.Context, userID string) (*models.SubmitResponse, error) {
	tx, err := s.progress.Begin(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if !tx.Doc().DayCompleted(0) {
		ts := tx.Now()
		if err := tx.Patch("completed."+models.TutorialKey, models.CompletionMark{Done: true, Timestamp: &ts}); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &models.SubmitResponse{
		Result:  models.ResultTutorialComplete,
		Correct: true,
	}, nil
}
