package simulator

// DefaultReviewStreak is the miss-streak length at which a strategy is
// flagged for review.
const DefaultReviewStreak = 3

type Advisory int

const (
	AdvisoryStable Advisory = iota
	AdvisoryReview
)

func (a Advisory) String() string {
	if a == AdvisoryReview {
		return "review recommended"
	}
	return "stable"
}

// Advise flags a run whose longest miss-streak reached reviewStreak.
// A reviewStreak below 1 falls back to DefaultReviewStreak.
func Advise(s RunSummary, reviewStreak int) Advisory {
	if reviewStreak < 1 {
		reviewStreak = DefaultReviewStreak
	}
	if s.LongestMissStreak >= reviewStreak {
		return AdvisoryReview
	}
	return AdvisoryStable
}
