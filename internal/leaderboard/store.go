// Package leaderboard ranks finishers per day, with a Redis read-through
// cache in front of the completion log.
package leaderboard

import (
	"context"
	"database/sql"
	"time"
)

const maxEntries = 20

// Entry is one ranked finisher as stored, before response shaping.
type Entry struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	CompletedAt time.Time `json:"completedAt"`
	Attempts    int       `json:"attempts"`
	Rank        int       `json:"rank"`
}

// Store reads rankings from the completion log. Ordering is earliest finish
// first, fewer attempts breaking ties.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) TopForDay(ctx context.Context, day, limit int) ([]Entry, error) {
	if limit < 1 || limit > maxEntries {
		limit = maxEntries
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, display_name, completed_at, attempts,
		        ROW_NUMBER() OVER (ORDER BY completed_at ASC, attempts ASC) AS rank
		 FROM completions
		 WHERE day = $1
		 ORDER BY completed_at ASC, attempts ASC
		 LIMIT $2`,
		day, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.UserID, &e.DisplayName, &e.CompletedAt, &e.Attempts, &e.Rank); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
