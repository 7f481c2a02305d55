// Package progress persists per-user hunt progress as a single JSONB
// document per user. Mutations go through nested-key patches applied inside
// a row-locking transaction, so concurrent submissions for the same user
// serialize on the document row and merge writes never clobber siblings.
package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/treasure-hunt/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Read returns the user's progress document, or an empty document when the
// user has never interacted.
func (s *Store) Read(ctx context.Context, userID string) (models.ProgressDoc, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM user_progress WHERE user_id = $1`, userID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return models.ProgressDoc{}, nil
	}
	if err != nil {
		return models.ProgressDoc{}, fmt.Errorf("read progress: %w", err)
	}
	return decodeDoc(userID, raw), nil
}

// Begin opens a transaction that holds the user's progress row locked until
// Commit or Rollback. The row is created lazily on first interaction.
func (s *Store) Begin(ctx context.Context, userID string) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin progress tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_progress (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("ensure progress row: %w", err)
	}

	var raw []byte
	var now time.Time
	if err := tx.QueryRowContext(ctx,
		`SELECT doc, NOW() FROM user_progress WHERE user_id = $1 FOR UPDATE`,
		userID,
	).Scan(&raw, &now); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("lock progress row: %w", err)
	}

	return &Tx{
		tx:     tx,
		ctx:    ctx,
		userID: userID,
		raw:    raw,
		doc:    decodeDoc(userID, raw),
		now:    now,
	}, nil
}

// Tx is one locked read-modify-write unit over a user's progress document.
type Tx struct {
	tx     *sql.Tx
	ctx    context.Context
	userID string
	raw    []byte
	doc    models.ProgressDoc
	now    time.Time
	dirty  bool
	done   bool
}

// Doc returns the document as read under the lock. Patches are not reflected.
func (t *Tx) Doc() models.ProgressDoc { return t.doc }

// Now returns the store-assigned transaction timestamp. Completion marks use
// this value so clients cannot forge leaderboard times.
func (t *Tx) Now() time.Time { return t.now }

// Patch upserts one nested key (e.g. "completed.day3") in the document.
// Sibling keys are untouched.
func (t *Tx) Patch(path string, value interface{}) error {
	raw, err := applyPatch(t.raw, path, value)
	if err != nil {
		return err
	}
	t.raw = raw
	t.dirty = true
	return nil
}

// RecordCompletion inserts the leaderboard row for a solved day in the same
// transaction as the document patch. Idempotent per (user, day).
func (t *Tx) RecordCompletion(day int, displayName string, attempts int) error {
	_, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO completions (user_id, day, display_name, attempts, completed_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, day) DO NOTHING`,
		t.userID, day, displayName, attempts, t.now,
	)
	if err != nil {
		return fmt.Errorf("record completion: %w", err)
	}
	return nil
}

// Commit writes the patched document back and releases the row lock.
func (t *Tx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	if t.dirty {
		if _, err := t.tx.ExecContext(t.ctx,
			`UPDATE user_progress SET doc = $2, updated_at = NOW() WHERE user_id = $1`,
			t.userID, t.raw,
		); err != nil {
			t.tx.Rollback()
			return fmt.Errorf("write progress doc: %w", err)
		}
	}
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit progress tx: %w", err)
	}
	return nil
}

// Rollback abandons the transaction. Safe to call after Commit.
func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Rollback()
}

// decodeDoc parses a stored document, tolerating a corrupt value by starting
// over with an empty document rather than failing every request for the user.
func decodeDoc(userID string, raw []byte) models.ProgressDoc {
	if len(raw) == 0 {
		return models.ProgressDoc{}
	}
	if !gjson.ValidBytes(raw) {
		log.Error().Str("user_id", userID).Msg("corrupt progress document, treating as empty")
		return models.ProgressDoc{}
	}
	var doc models.ProgressDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("undecodable progress document, treating as empty")
		return models.ProgressDoc{}
	}
	return doc
}

// applyPatch sets one nested key in the raw document.
func applyPatch(raw []byte, path string, value interface{}) ([]byte, error) {
	if len(raw) == 0 {
		raw = []byte(`{}`)
	}
	out, err := sjson.SetBytes(raw, path, value)
	if err != nil {
		return nil, fmt.Errorf("patch %s: %w", path, err)
	}
	return out, nil
}
