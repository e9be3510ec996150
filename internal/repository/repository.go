package repository

import (
	"context"
	"time"
)

type CreateSessionInput struct {
	UserID              string
	Name                string
	Genre               string
	Plot                string
	TriggerType         TriggerType
	IsCarpoolMode       bool
	StartedAt           time.Time
	NextChapterDistance float64
}

// SessionPatch carries a partial update; nil fields are left untouched.
type SessionPatch struct {
	Status              *SessionStatus
	ElapsedSeconds      *int64
	SpeedMPH            *float64
	DistanceMiles       *float64
	IsGenerating        *bool
	NextChapterDistance *float64
}

type InsertChapterInput struct {
	SessionID     string
	ChapterNumber int
	Text          string
	CreatedAt     time.Time
}

type SessionRepository interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*Session, error)
	UpdateSession(ctx context.Context, sessionID string, patch SessionPatch) error
	GetSession(ctx context.Context, userID, sessionID string) (*Session, error)
	// GetCurrentSession returns the user's session in status active or
	// paused, or nil when none exists.
	GetCurrentSession(ctx context.Context, userID string) (*Session, error)
	ListEndedSessions(ctx context.Context, userID string) ([]Session, error)
	DeleteSession(ctx context.Context, userID, sessionID string) error
}

type ChapterRepository interface {
	InsertChapter(ctx context.Context, input InsertChapterInput) (*Chapter, error)
	ListChaptersBySessionID(ctx context.Context, sessionID string) ([]Chapter, error)
	UpdateChapterAudio(ctx context.Context, chapterID, audioDataURI string) error
}

type Repository interface {
	SessionRepository
	ChapterRepository
}
