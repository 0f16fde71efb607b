package review

import "github.com/smith3v/study-scheduler/pkg/srs"

// feedbackMessage picks at most one message per review. The priority is
// fixed: mastery gained, mastery lost, perfect score, first successful
// review.
func feedbackMessage(change srs.Change, quality srs.Quality) string {
	switch {
	case change.MasteryGained:
		return "Mastered! This one won't come back for a while."
	case change.MasteryLost:
		return "Back to practice. You'll see this one again tomorrow."
	case quality == srs.QualityPerfect:
		return "Perfect recall!"
	case change.FirstReview && change.Correct:
		return "Nice start! First review done."
	default:
		return ""
	}
}
