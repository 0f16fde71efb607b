// Package review orchestrates review events: the synchronous full path, the
// optimistic fast path, and the asynchronous reconciliation that completes
// the fast path's deferred bookkeeping.
package review

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smith3v/study-scheduler/pkg/config"
	"github.com/smith3v/study-scheduler/pkg/content"
	"github.com/smith3v/study-scheduler/pkg/db"
	"github.com/smith3v/study-scheduler/pkg/rewards"
	"github.com/smith3v/study-scheduler/pkg/srs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidSelection = errors.New("selection out of range")

// ErrConcurrentReview reports that another review of the same item for the
// same user committed first. The losing transaction wrote nothing and the
// caller may retry.
var ErrConcurrentReview = errors.New("concurrent review of the same item")

// Result is the caller-facing outcome of one processed answer.
type Result struct {
	Correct        bool
	CorrectOption  int
	Quality        srs.Quality
	Status         string
	IntervalDays   int
	Repetitions    int
	EaseFactor     float64
	NextReviewAt   time.Time
	CreditsAwarded int
	Message        string
}

// ProcessAnswer is the full synchronous path: it validates the selection,
// applies the SM-2 transition, and commits the scheduling update, the audit
// row, the credit awards and the deck-progress deltas in one transaction.
func ProcessAnswer(provider content.Provider, userID int64, itemID uint, selection int, timeTakenMs int, now time.Time) (Result, error) {
	item, err := provider.GetItem(itemID)
	if err != nil {
		return Result{}, err
	}
	if selection < 0 || selection >= len(item.Options) {
		return Result{}, ErrInvalidSelection
	}

	correct := selection == item.CorrectOption
	quality := qualityFor(correct)

	var outcome reviewOutcome
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var applyErr error
		outcome, applyErr = applyReview(tx, reviewEvent{
			EventID:     uuid.NewString(),
			UserID:      userID,
			Domain:      provider.Domain(),
			Item:        item,
			Quality:     quality,
			Correct:     correct,
			TimeTakenMs: timeTakenMs,
			At:          now,
		})
		return applyErr
	})
	if err != nil {
		return Result{}, err
	}

	return Result{
		Correct:        correct,
		CorrectOption:  item.CorrectOption,
		Quality:        quality,
		Status:         outcome.Progress.Status,
		IntervalDays:   outcome.Progress.IntervalDays,
		Repetitions:    outcome.Progress.Repetitions,
		EaseFactor:     outcome.Progress.EaseFactor,
		NextReviewAt:   outcome.Progress.NextReviewAt,
		CreditsAwarded: outcome.Credits,
		Message:        feedbackMessage(outcome.Change, quality),
	}, nil
}

// reviewEvent is one review to apply durably. EventID makes the apply
// idempotent: a replayed event is detected on the audit-row insert and
// changes nothing.
type reviewEvent struct {
	EventID     string
	UserID      int64
	Domain      string
	Item        content.Item
	Quality     srs.Quality
	Correct     bool
	TimeTakenMs int
	At          time.Time
}

type reviewOutcome struct {
	Progress  db.CardProgress
	Change    srs.Change
	Credits   int
	Duplicate bool
}

// applyReview performs the durable half of a review inside the caller's
// transaction: scheduling transition, audit row, credits, deck counters.
// It is shared by the full path and the reconciliation task.
func applyReview(tx *gorm.DB, event reviewEvent) (reviewOutcome, error) {
	progress, err := getOrCreateProgress(tx, event.UserID, event.Domain, event.Item)
	if err != nil {
		return reviewOutcome{}, err
	}

	state, change, err := srs.Transition(progressState(progress), event.Quality, event.At)
	if err != nil {
		return reviewOutcome{}, err
	}

	// The audit row doubles as the idempotency guard: if this event was
	// already applied, stop before touching any state.
	logRow := db.ReviewLog{
		EventID:      event.EventID,
		UserID:       event.UserID,
		Domain:       event.Domain,
		ItemID:       event.Item.ID,
		DeckID:       event.Item.DeckID,
		Quality:      int(event.Quality),
		Correct:      event.Correct,
		TimeTakenMs:  event.TimeTakenMs,
		ResultStatus: string(state.Status),
		ReviewedAt:   event.At,
	}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(&logRow)
	if res.Error != nil {
		return reviewOutcome{}, fmt.Errorf("failed to append review log: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return reviewOutcome{Progress: progress, Duplicate: true}, nil
	}

	reviewedAt := event.At
	progress.EaseFactor = state.EaseFactor
	progress.IntervalDays = state.IntervalDays
	progress.Repetitions = state.Repetitions
	progress.Status = string(state.Status)
	progress.NextReviewAt = state.NextReviewAt
	progress.LastReviewedAt = &reviewedAt
	if err := saveProgress(tx, &progress); err != nil {
		return reviewOutcome{}, err
	}

	if err := bumpDeckProgress(tx, event.UserID, event.Item.DeckID, change, event.At); err != nil {
		return reviewOutcome{}, err
	}

	credits, err := awardCredits(tx, event)
	if err != nil {
		return reviewOutcome{}, err
	}

	return reviewOutcome{Progress: progress, Change: change, Credits: credits}, nil
}

// lockForUpdate holds a row lock for the rest of the transaction so two
// concurrent reviews of the same item serialize instead of the later commit
// overwriting the earlier one. SQLite has no FOR UPDATE syntax and
// serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func getOrCreateProgress(tx *gorm.DB, userID int64, domain string, item content.Item) (db.CardProgress, error) {
	var progress db.CardProgress
	err := lockForUpdate(tx).
		Where("user_id = ? AND domain = ? AND item_id = ?", userID, domain, item.ID).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.CardProgress{
			UserID:     userID,
			Domain:     domain,
			ItemID:     item.ID,
			DeckID:     item.DeckID,
			EaseFactor: srs.DefaultEase,
			Status:     db.StatusNew,
		}, nil
	}
	if err != nil {
		return db.CardProgress{}, fmt.Errorf("failed to load card progress: %w", err)
	}
	return progress, nil
}

// saveProgress persists the transitioned row. A first-ever review has no row
// to lock; when two race, the unique index on (user, domain, item) rejects
// the loser's insert and the loss surfaces as ErrConcurrentReview.
func saveProgress(tx *gorm.DB, progress *db.CardProgress) error {
	if err := tx.Save(progress).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConcurrentReview
		}
		return fmt.Errorf("failed to save card progress: %w", err)
	}
	return nil
}

// bumpDeckProgress applies the incremental counter deltas so the write path
// stays O(1). Drift is corrected by progress.ReconcileDeckProgress.
func bumpDeckProgress(tx *gorm.DB, userID int64, deckID uint, change srs.Change, now time.Time) error {
	var row db.DeckProgress
	err := tx.Where("user_id = ? AND deck_id = ?", userID, deckID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = db.DeckProgress{UserID: userID, DeckID: deckID}
	} else if err != nil {
		return fmt.Errorf("failed to load deck progress: %w", err)
	}

	if change.FirstReview {
		row.ItemsStudied++
	}
	if change.MasteryGained {
		row.ItemsMastered++
	}
	if change.MasteryLost && row.ItemsMastered > 0 {
		row.ItemsMastered--
	}
	row.LastStudiedAt = &now

	if err := tx.Save(&row).Error; err != nil {
		return fmt.Errorf("failed to save deck progress: %w", err)
	}
	return nil
}

func awardCredits(tx *gorm.DB, event reviewEvent) (int, error) {
	kind := rewards.KindIncorrectAnswer
	if event.Correct {
		kind = rewards.KindCorrectAnswer
	}
	total, err := rewards.Award(tx, event.UserID, kind, event.At)
	if err != nil {
		return 0, err
	}
	if !event.Correct {
		return total, nil
	}

	if isFastAnswer(event.TimeTakenMs) {
		bonus, err := rewards.Award(tx, event.UserID, rewards.KindFastAnswer, event.At)
		if err != nil {
			return 0, err
		}
		total += bonus
	}

	daily, err := rewards.AwardIfNotAlreadyToday(tx, event.UserID, rewards.KindDailyBonus, event.At)
	if err != nil {
		return 0, err
	}
	return total + daily, nil
}

func isFastAnswer(timeTakenMs int) bool {
	return timeTakenMs > 0 && timeTakenMs <= config.AppConfig.Rewards.FastAnswerMaxMillis
}

func qualityFor(correct bool) srs.Quality {
	if correct {
		return srs.QualityGood
	}
	return srs.QualityAgain
}

func progressState(progress db.CardProgress) srs.State {
	return srs.State{
		EaseFactor:   progress.EaseFactor,
		IntervalDays: progress.IntervalDays,
		Repetitions:  progress.Repetitions,
		Status:       srs.Status(progress.Status),
		NextReviewAt: progress.NextReviewAt,
	}
}
