package payout

import (
	"time"

	"github.com/robalyx/squadpledge/internal/database/types"
)

const (
	// MentorWeight is the weight of a rating given by a mentor.
	MentorWeight = 3.0
	// DefaultWeight is the weight of every other rating.
	DefaultWeight = 1.0
)

// Window is the closed interval during which ratings for a project count.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// RatingWindow returns the rating window of a project completed at completedAt.
func RatingWindow(completedAt time.Time, length time.Duration) Window {
	return Window{Start: completedAt, End: completedAt.Add(length)}
}

// Reputation computes each ratee's weighted mean rating over the ratings that fall
// inside their project's window. Ratings for projects without a window are ignored.
// Ratees with no counted rating are absent from the result.
func Reputation(ratings []*types.PeerRating, windows map[int64]Window, mentors map[string]bool) map[string]float64 {
	sums := make(map[string]float64)
	weights := make(map[string]float64)

	for _, rating := range ratings {
		window, ok := windows[rating.ProjectID]
		if !ok || !window.Contains(rating.Timestamp) {
			continue
		}

		weight := DefaultWeight
		if mentors[rating.Rater] {
			weight = MentorWeight
		}

		sums[rating.Ratee] += rating.Rating * weight
		weights[rating.Ratee] += weight
	}

	scores := make(map[string]float64, len(sums))
	for ratee, sum := range sums {
		scores[ratee] = sum / weights[ratee]
	}

	return scores
}
