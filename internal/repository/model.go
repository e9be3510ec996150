package repository

import "time"

type SessionStatus string

const (
	SessionStatusActive SessionStatus = "active"
	SessionStatusPaused SessionStatus = "paused"
	SessionStatusEnded  SessionStatus = "ended"
)

type TriggerType string

const (
	TriggerTypeTime     TriggerType = "time"
	TriggerTypeDistance TriggerType = "distance"
)

type Session struct {
	ID                  string        `json:"id"`
	UserID              string        `json:"userId"`
	Name                string        `json:"name"`
	Genre               string        `json:"genre"`
	Plot                string        `json:"plot,omitempty"`
	TriggerType         TriggerType   `json:"triggerType"`
	IsCarpoolMode       bool          `json:"isCarpoolMode"`
	Status              SessionStatus `json:"status"`
	StartedAt           time.Time     `json:"startTime"`
	ElapsedSeconds      int64         `json:"elapsedTime"`
	SpeedMPH            float64       `json:"speed"`
	DistanceMiles       float64       `json:"distance"`
	IsGenerating        bool          `json:"isGenerating"`
	NextChapterDistance float64       `json:"nextChapterDistance"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`
}

type Chapter struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"sessionId"`
	ChapterNumber int       `json:"chapterNumber"`
	Text          string    `json:"text"`
	AudioDataURI  string    `json:"audioDataUri,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
