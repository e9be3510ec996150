package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`DO $$ BEGIN CREATE TYPE session_status AS ENUM ('active', 'paused', 'ended'); EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN CREATE TYPE trigger_type AS ENUM ('time', 'distance'); EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		genre TEXT NOT NULL,
		plot TEXT NOT NULL DEFAULT '',
		trigger_type trigger_type NOT NULL,
		is_carpool_mode BOOLEAN NOT NULL DEFAULT FALSE,
		status session_status NOT NULL DEFAULT 'active',
		started_at TIMESTAMPTZ NOT NULL,
		elapsed_seconds BIGINT NOT NULL DEFAULT 0,
		speed_mph DOUBLE PRECISION NOT NULL DEFAULT 0,
		distance_miles DOUBLE PRECISION NOT NULL DEFAULT 0,
		is_generating BOOLEAN NOT NULL DEFAULT FALSE,
		next_chapter_distance DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_one_current_per_user ON sessions (user_id) WHERE status IN ('active', 'paused')`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_ended ON sessions (user_id, started_at) WHERE status = 'ended'`,
	`CREATE TABLE IF NOT EXISTS chapters (
		id UUID PRIMARY KEY,
		session_id UUID NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		chapter_number INTEGER NOT NULL,
		text TEXT NOT NULL,
		audio_data_uri TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE(session_id, chapter_number)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chapters_session ON chapters (session_id, chapter_number)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
