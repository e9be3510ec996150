package session

import (
	"testing"

	"github.com/foxseedlab/monogatarun/internal/repository"
)

func TestShouldTrigger_TimeMode(t *testing.T) {
	tests := []struct {
		name    string
		elapsed int64
		want    bool
	}{
		{name: "zero elapsed never fires", elapsed: 0, want: false},
		{name: "just before interval", elapsed: 599, want: false},
		{name: "exactly on interval", elapsed: 600, want: true},
		{name: "just after interval", elapsed: 601, want: false},
		{name: "second interval", elapsed: 1200, want: true},
		{name: "mid second interval", elapsed: 602, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldTrigger(repository.TriggerTypeTime, tt.elapsed, 0, 0)
			if got != tt.want {
				t.Fatalf("elapsed=%d: got %v, want %v", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestShouldTrigger_DistanceMode(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		next     float64
		want     bool
	}{
		{name: "below threshold", distance: 0.98, next: 1.0, want: false},
		{name: "crosses threshold", distance: 1.02, next: 1.0, want: true},
		{name: "exactly at threshold", distance: 1.0, next: 1.0, want: true},
		{name: "far past threshold", distance: 3.5, next: 2.0, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldTrigger(repository.TriggerTypeDistance, 100, tt.distance, tt.next)
			if got != tt.want {
				t.Fatalf("distance=%v next=%v: got %v, want %v", tt.distance, tt.next, got, tt.want)
			}
		})
	}
}

func TestShouldTrigger_DistanceModeIgnoresElapsed(t *testing.T) {
	if ShouldTrigger(repository.TriggerTypeDistance, 600, 0.5, 1.0) {
		t.Fatal("distance mode must not fire on the time interval")
	}
}

func TestDistanceIncrement(t *testing.T) {
	if got := DistanceIncrement(false); got != 1.0 {
		t.Fatalf("expected 1.0 mile increment, got %v", got)
	}
	if got := DistanceIncrement(true); got != 7.0 {
		t.Fatalf("expected 7.0 mile carpool increment, got %v", got)
	}
}

func TestInitialChapterDistance(t *testing.T) {
	if got := InitialChapterDistance(repository.TriggerTypeTime, false); got != 0 {
		t.Fatalf("time mode should not set a distance threshold, got %v", got)
	}
	if got := InitialChapterDistance(repository.TriggerTypeDistance, false); got != 1.0 {
		t.Fatalf("expected 1.0, got %v", got)
	}
	if got := InitialChapterDistance(repository.TriggerTypeDistance, true); got != 7.0 {
		t.Fatalf("expected 7.0, got %v", got)
	}
}
