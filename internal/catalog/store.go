// Package catalog owns the day-indexed question records. The game core only
// reads them; all mutation happens through the admin surface.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/treasure-hunt/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const questionColumns = `day, text, hint, answer, difficulty, images, unlock_date, created_at, updated_at`

// GetByDay returns the question for one day, or models.ErrQuestionNotFound.
func (s *Store) GetByDay(ctx context.Context, day int) (*models.Question, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE day = $1`, day)
	q, err := scanQuestion(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrQuestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get question day %d: %w", day, err)
	}
	return q, nil
}

// List returns all questions ordered by day.
func (s *Store) List(ctx context.Context) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+questionColumns+` FROM questions ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// CountUnlocked returns how many questions have an unlock date at or before
// the given instant. The calendar "current day" is derived from this.
func (s *Store) CountUnlocked(ctx context.Context, now time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM questions WHERE unlock_date <= $1`, now,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unlocked: %w", err)
	}
	return count, nil
}

// Upsert creates or fully replaces one day's question.
func (s *Store) Upsert(ctx context.Context, q *models.Question) error {
	images, err := json.Marshal(imagesOrEmpty(q.Images))
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO questions (day, text, hint, answer, difficulty, images, unlock_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (day) DO UPDATE SET
		    text = EXCLUDED.text, hint = EXCLUDED.hint, answer = EXCLUDED.answer,
		    difficulty = EXCLUDED.difficulty, images = EXCLUDED.images,
		    unlock_date = EXCLUDED.unlock_date, updated_at = NOW()`,
		q.Day, q.Text, q.Hint, q.Answer, q.Difficulty, images, q.UnlockDate,
	)
	if err != nil {
		return fmt.Errorf("upsert question day %d: %w", q.Day, err)
	}
	return nil
}

// Delete removes one day's question.
func (s *Store) Delete(ctx context.Context, day int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE day = $1`, day)
	if err != nil {
		return fmt.Errorf("delete question day %d: %w", day, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.ErrQuestionNotFound
	}
	return nil
}

// Swap exchanges content fields between two days inside one transaction.
// Day and unlock date stay put on each side; user progress is untouched, so
// credit for an already-solved day survives a content swap. Both rows must
// exist or nothing changes.
func (s *Store) Swap(ctx context.Context, dayA, dayB int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin swap: %w", err)
	}
	defer tx.Rollback()

	qa, err := lockQuestion(ctx, tx, dayA)
	if err != nil {
		return err
	}
	qb, err := lockQuestion(ctx, tx, dayB)
	if err != nil {
		return err
	}

	if err := writeContent(ctx, tx, dayA, qb); err != nil {
		return err
	}
	if err := writeContent(ctx, tx, dayB, qa); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit swap: %w", err)
	}
	return nil
}

func lockQuestion(ctx context.Context, tx *sql.Tx, day int) (*models.Question, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE day = $1 FOR UPDATE`, day)
	q, err := scanQuestion(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrQuestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock question day %d: %w", day, err)
	}
	return q, nil
}

func writeContent(ctx context.Context, tx *sql.Tx, day int, from *models.Question) error {
	images, err := json.Marshal(imagesOrEmpty(from.Images))
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE questions SET text = $2, hint = $3, answer = $4, difficulty = $5,
		        images = $6, updated_at = NOW()
		 WHERE day = $1`,
		day, from.Text, from.Hint, from.Answer, from.Difficulty, images,
	)
	if err != nil {
		return fmt.Errorf("write swapped content day %d: %w", day, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQuestion(row rowScanner) (*models.Question, error) {
	var q models.Question
	var images []byte
	err := row.Scan(&q.Day, &q.Text, &q.Hint, &q.Answer, &q.Difficulty,
		&images, &q.UnlockDate, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &q.Images); err != nil {
		return nil, fmt.Errorf("unmarshal images: %w", err)
	}
	return &q, nil
}

func imagesOrEmpty(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}
