package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/foxseedlab/monogatarun/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

const sessionColumns = `id, user_id, name, genre, plot, trigger_type, is_carpool_mode, status,
	started_at, elapsed_seconds, speed_mph, distance_miles, is_generating, next_chapter_distance,
	created_at, updated_at`

func (r *PostgresRepository) CreateSession(ctx context.Context, input repository.CreateSessionInput) (*repository.Session, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO sessions (id, user_id, name, genre, plot, trigger_type, is_carpool_mode, status, started_at, next_chapter_distance)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 'active', $8, $9)
		 RETURNING `+sessionColumns,
		uuid.NewString(), input.UserID, input.Name, input.Genre, input.Plot,
		input.TriggerType, input.IsCarpoolMode, input.StartedAt, input.NextChapterDistance)
	return scanSession(row)
}

func (r *PostgresRepository) UpdateSession(ctx context.Context, sessionID string, patch repository.SessionPatch) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{sessionID}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.ElapsedSeconds != nil {
		add("elapsed_seconds", *patch.ElapsedSeconds)
	}
	if patch.SpeedMPH != nil {
		add("speed_mph", *patch.SpeedMPH)
	}
	if patch.DistanceMiles != nil {
		add("distance_miles", *patch.DistanceMiles)
	}
	if patch.IsGenerating != nil {
		add("is_generating", *patch.IsGenerating)
	}
	if patch.NextChapterDistance != nil {
		add("next_chapter_distance", *patch.NextChapterDistance)
	}
	query := "UPDATE sessions SET " + strings.Join(sets, ", ") + " WHERE id = $1"
	_, err := r.pool.Exec(ctx, query, args...)
	return err
}

func (r *PostgresRepository) GetSession(ctx context.Context, userID, sessionID string) (*repository.Session, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1 AND user_id = $2`,
		sessionID, userID)
	s, err := scanSession(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepository) GetCurrentSession(ctx context.Context, userID string) (*repository.Session, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE user_id = $1 AND status IN ('active', 'paused')
		 LIMIT 1`,
		userID)
	s, err := scanSession(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepository) ListEndedSessions(ctx context.Context, userID string) ([]repository.Session, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE user_id = $1 AND status = 'ended'
		 ORDER BY started_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) DeleteSession(ctx context.Context, userID, sessionID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM sessions WHERE id = $1 AND user_id = $2`,
		sessionID, userID)
	return err
}

func (r *PostgresRepository) InsertChapter(ctx context.Context, input repository.InsertChapterInput) (*repository.Chapter, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO chapters (id, session_id, chapter_number, text, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, session_id, chapter_number, text, audio_data_uri, created_at`,
		uuid.NewString(), input.SessionID, input.ChapterNumber, input.Text, input.CreatedAt)
	return scanChapter(row)
}

func (r *PostgresRepository) ListChaptersBySessionID(ctx context.Context, sessionID string) ([]repository.Chapter, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, chapter_number, text, audio_data_uri, created_at
		 FROM chapters WHERE session_id = $1 ORDER BY chapter_number ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.Chapter
	for rows.Next() {
		c, err := scanChapter(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *c)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) UpdateChapterAudio(ctx context.Context, chapterID, audioDataURI string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE chapters SET audio_data_uri = $2 WHERE id = $1`,
		chapterID, audioDataURI)
	return err
}

func scanSession(row pgx.Row) (*repository.Session, error) {
	var s repository.Session
	err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.Genre, &s.Plot, &s.TriggerType,
		&s.IsCarpoolMode, &s.Status, &s.StartedAt, &s.ElapsedSeconds, &s.SpeedMPH,
		&s.DistanceMiles, &s.IsGenerating, &s.NextChapterDistance, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanChapter(row pgx.Row) (*repository.Chapter, error) {
	var c repository.Chapter
	err := row.Scan(&c.ID, &c.SessionID, &c.ChapterNumber, &c.Text, &c.AudioDataURI, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
