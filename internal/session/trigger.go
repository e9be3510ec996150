package session

import (
	"github.com/foxseedlab/monogatarun/internal/repository"
)

const (
	// chapterTriggerSeconds is the fixed interval between chapters in
	// time mode.
	chapterTriggerSeconds = 600
	// chapterTriggerMiles is the distance between chapters in distance
	// mode.
	chapterTriggerMiles = 1.0
	// carpoolTriggerMiles replaces chapterTriggerMiles in carpool mode,
	// where a mile passes much faster.
	carpoolTriggerMiles = 7.0
)

// DistanceIncrement returns how far the next-chapter threshold advances
// after a distance-mode trigger fires.
func DistanceIncrement(carpoolMode bool) float64 {
	if carpoolMode {
		return carpoolTriggerMiles
	}
	return chapterTriggerMiles
}

// InitialChapterDistance returns the first distance threshold for a new
// session, or 0 for time mode where the threshold is unused.
func InitialChapterDistance(triggerType repository.TriggerType, carpoolMode bool) float64 {
	if triggerType != repository.TriggerTypeDistance {
		return 0
	}
	return DistanceIncrement(carpoolMode)
}

// ShouldTrigger reports whether the tick that produced newElapsed and
// newDistance crosses a chapter boundary. It is evaluated on the exact
// tick where the condition becomes true; skipped ticks are not retried.
func ShouldTrigger(triggerType repository.TriggerType, newElapsed int64, newDistance, nextChapterDistance float64) bool {
	switch triggerType {
	case repository.TriggerTypeTime:
		return newElapsed > 0 && newElapsed%chapterTriggerSeconds == 0
	case repository.TriggerTypeDistance:
		return newDistance >= nextChapterDistance
	default:
		return false
	}
}
