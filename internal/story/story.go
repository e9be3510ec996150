package story

import "context"

type OpeningChapterInput struct {
	Genre            string
	Plot             string
	SpeedDescription string
}

type ContinuationChapterInput struct {
	SpeedMPH       float64
	DistanceMiles  float64
	ElapsedMinutes float64
	StoryContext   string
	Genre          string
	Plot           string
	Carpool        bool
}

type SessionSummaryInput struct {
	AvgSpeedMPH   float64
	DistanceMiles float64
	CO2SavedKg    float64
}

// Generator produces narrative text from a hosted language model. All
// methods block until the model responds or ctx is done.
type Generator interface {
	OpeningChapter(ctx context.Context, input OpeningChapterInput) (string, error)
	ContinuationChapter(ctx context.Context, input ContinuationChapterInput) (string, error)
	SessionSummary(ctx context.Context, input SessionSummaryInput) (string, error)
}
