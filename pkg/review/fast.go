package review

import (
	"time"

	"github.com/google/uuid"
	"github.com/smith3v/study-scheduler/pkg/content"
	"github.com/smith3v/study-scheduler/pkg/rewards"
)

// FastResult is the optimistic response of the fast path. EstimatedCredits
// is computed from configuration alone and may overestimate the durable
// outcome (the daily bonus is assumed available); the backend ledger is
// authoritative and is settled by the reconciliation task.
type FastResult struct {
	Correct          bool
	CorrectOption    int
	EstimatedCredits int
}

// ReconcileContext carries everything the reconciliation task needs to
// finish the deferred bookkeeping. It is JSON-serializable so it can cross a
// queue boundary if the dispatcher is ever moved out of process.
type ReconcileContext struct {
	EventID     string    `json:"event_id"`
	UserID      int64     `json:"user_id"`
	Domain      string    `json:"domain"`
	ItemID      uint      `json:"item_id"`
	Selection   int       `json:"selection"`
	TimeTakenMs int       `json:"time_taken_ms"`
	Correct     bool      `json:"correct"`
	AnsweredAt  time.Time `json:"answered_at"`
}

// ProcessAnswerFast answers with a single content read and no writes. The
// durable half of the review is handed to the dispatcher; a failed or
// dropped enqueue is logged and later absorbed by drift correction, never
// surfaced to the caller.
func ProcessAnswerFast(dispatcher *Dispatcher, provider content.Provider, userID int64, itemID uint, selection int, timeTakenMs int, now time.Time) (FastResult, ReconcileContext, error) {
	item, err := provider.GetItem(itemID)
	if err != nil {
		return FastResult{}, ReconcileContext{}, err
	}
	if selection < 0 || selection >= len(item.Options) {
		return FastResult{}, ReconcileContext{}, ErrInvalidSelection
	}

	correct := selection == item.CorrectOption
	result := FastResult{
		Correct:          correct,
		CorrectOption:    item.CorrectOption,
		EstimatedCredits: estimateCredits(correct, timeTakenMs),
	}

	rc := ReconcileContext{
		EventID:     uuid.NewString(),
		UserID:      userID,
		Domain:      provider.Domain(),
		ItemID:      itemID,
		Selection:   selection,
		TimeTakenMs: timeTakenMs,
		Correct:     correct,
		AnsweredAt:  now,
	}
	dispatcher.Enqueue(rc)

	return result, rc, nil
}

// estimateCredits mirrors awardCredits using only static configuration. The
// daily bonus is included optimistically on correct answers; incorrect
// answers never qualify for it.
func estimateCredits(correct bool, timeTakenMs int) int {
	if !correct {
		return rewards.AmountFor(rewards.KindIncorrectAnswer)
	}
	total := rewards.AmountFor(rewards.KindCorrectAnswer)
	if isFastAnswer(timeTakenMs) {
		total += rewards.AmountFor(rewards.KindFastAnswer)
	}
	total += rewards.AmountFor(rewards.KindDailyBonus)
	return total
}
