package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Connect opens and pings the postgres database described by the DSN.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

// Migrate applies the idempotent schema. Safe to run on every startup.
func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS questions (
		day         INT PRIMARY KEY CHECK (day >= 1),
		text        TEXT NOT NULL,
		hint        TEXT NOT NULL DEFAULT '',
		answer      TEXT NOT NULL,
		difficulty  INT NOT NULL DEFAULT 1 CHECK (difficulty >= 1 AND difficulty <= 5),
		images      JSONB NOT NULL DEFAULT '[]',
		unlock_date TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_questions_unlock ON questions(unlock_date);

	CREATE TABLE IF NOT EXISTS user_progress (
		user_id    VARCHAR(128) PRIMARY KEY,
		doc        JSONB NOT NULL DEFAULT '{}',
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS completions (
		user_id      VARCHAR(128) NOT NULL,
		day          INT NOT NULL,
		display_name VARCHAR(100) NOT NULL DEFAULT '',
		attempts     INT NOT NULL DEFAULT 1,
		completed_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, day)
	);

	CREATE INDEX IF NOT EXISTS idx_completions_day ON completions(day, completed_at, attempts);

	CREATE TABLE IF NOT EXISTS admins (
		id         BIGSERIAL PRIMARY KEY,
		email      VARCHAR(255) UNIQUE NOT NULL,
		name       VARCHAR(255) NOT NULL,
		password   VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_admins_email ON admins(email);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}
