package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id      TEXT PRIMARY KEY,
		subject      TEXT UNIQUE NOT NULL,
		username     TEXT UNIQUE NOT NULL,
		name         TEXT NOT NULL DEFAULT '',
		email        TEXT NOT NULL DEFAULT '',
		avatar_url   TEXT NOT NULL DEFAULT '',
		bio          TEXT NOT NULL DEFAULT '',
		location     TEXT NOT NULL DEFAULT '',
		website      TEXT NOT NULL DEFAULT '',
		role         TEXT NOT NULL DEFAULT 'user',
		submission_count INT NOT NULL DEFAULT 0,
		win_count    INT NOT NULL DEFAULT 0,
		vote_count   INT NOT NULL DEFAULT 0,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS competitions (
		competition_id   TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		description      TEXT NOT NULL,
		theme            TEXT NOT NULL,
		rules            TEXT[] NOT NULL DEFAULT '{}',
		prizes           TEXT[] NOT NULL DEFAULT '{}',
		image_url        TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'active',
		start_date       TIMESTAMPTZ NOT NULL,
		deadline         TIMESTAMPTZ NOT NULL,
		community_weight DOUBLE PRECISION NOT NULL DEFAULT 0.6,
		jury_weight      DOUBLE PRECISION NOT NULL DEFAULT 0.4,
		jury_members     TEXT[] NOT NULL DEFAULT '{}',
		participant_count INT NOT NULL DEFAULT 0,
		submission_count  INT NOT NULL DEFAULT 0,
		winners          JSONB,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS submissions (
		submission_id   TEXT PRIMARY KEY,
		competition_id  TEXT NOT NULL REFERENCES competitions(competition_id) ON DELETE CASCADE,
		user_id         TEXT NOT NULL REFERENCES users(user_id),
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		image_url       TEXT NOT NULL,
		community_votes INT NOT NULL DEFAULT 0,
		jury_average    DOUBLE PRECISION NOT NULL DEFAULT 0,
		camera          TEXT NOT NULL DEFAULT '',
		lens            TEXT NOT NULL DEFAULT '',
		settings        TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_competition ON submissions(competition_id)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_user ON submissions(user_id)`,

	`CREATE TABLE IF NOT EXISTS submission_votes (
		submission_id TEXT NOT NULL REFERENCES submissions(submission_id) ON DELETE CASCADE,
		user_id       TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (submission_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS submission_comments (
		comment_id    TEXT PRIMARY KEY,
		submission_id TEXT NOT NULL REFERENCES submissions(submission_id) ON DELETE CASCADE,
		user_id       TEXT NOT NULL,
		username      TEXT NOT NULL,
		body          TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_submission ON submission_comments(submission_id)`,

	`CREATE TABLE IF NOT EXISTS jury_ratings (
		submission_id  TEXT NOT NULL REFERENCES submissions(submission_id) ON DELETE CASCADE,
		juror_username TEXT NOT NULL,
		competition_id TEXT NOT NULL,
		rating         DOUBLE PRECISION NOT NULL,
		comment        TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (submission_id, juror_username)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_competition ON jury_ratings(competition_id)`,
}

// Bootstrap applies the schema inside a single transaction. Statements are
// all IF NOT EXISTS so repeat startups are no-ops.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin schema bootstrap: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range schema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}

	return tx.Commit(ctx)
}
