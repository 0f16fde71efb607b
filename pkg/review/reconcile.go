package review

import (
	"fmt"

	"github.com/smith3v/study-scheduler/pkg/content"
	"github.com/smith3v/study-scheduler/pkg/db"
	"github.com/smith3v/study-scheduler/pkg/logger"
	"gorm.io/gorm"
)

// Reconcile applies the durable half of a fast-path answer. It is safe to
// run more than once for the same context: the review-log event ID dedupes
// the whole apply, and the daily bonus has its own dedup key.
func Reconcile(rc ReconcileContext) error {
	provider, err := content.ForDomain(rc.Domain)
	if err != nil {
		return err
	}
	item, err := provider.GetItem(rc.ItemID)
	if err != nil {
		return fmt.Errorf("failed to resolve item for reconciliation: %w", err)
	}

	var outcome reviewOutcome
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var applyErr error
		outcome, applyErr = applyReview(tx, reviewEvent{
			EventID:     rc.EventID,
			UserID:      rc.UserID,
			Domain:      rc.Domain,
			Item:        item,
			Quality:     qualityFor(rc.Correct),
			Correct:     rc.Correct,
			TimeTakenMs: rc.TimeTakenMs,
			At:          rc.AnsweredAt,
		})
		return applyErr
	})
	if err != nil {
		return err
	}

	if outcome.Duplicate {
		logger.Debug("reconciliation event already applied",
			"event_id", rc.EventID, "user_id", rc.UserID)
	}
	return nil
}
