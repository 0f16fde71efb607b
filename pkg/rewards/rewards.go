// Package rewards is the credit ledger. Award amounts come from
// configuration; the once-per-day bonus is deduplicated by a unique daily
// key so re-running a reconciliation never grants it twice.
package rewards

import (
	"fmt"
	"time"

	"github.com/smith3v/study-scheduler/pkg/config"
	"github.com/smith3v/study-scheduler/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	KindCorrectAnswer   = "correct_answer"
	KindIncorrectAnswer = "incorrect_answer"
	KindFastAnswer      = "fast_answer"
	KindDailyBonus      = "daily_bonus"
)

// AmountFor returns the configured credit amount for a kind, 0 for unknown
// kinds.
func AmountFor(kind string) int {
	cfg := config.AppConfig.Rewards
	switch kind {
	case KindCorrectAnswer:
		return cfg.CorrectAnswer
	case KindIncorrectAnswer:
		return cfg.IncorrectAnswer
	case KindFastAnswer:
		return cfg.FastAnswerBonus
	case KindDailyBonus:
		return cfg.DailyBonus
	default:
		return 0
	}
}

// Award appends one ledger entry and returns the amount granted. A zero
// configured amount writes nothing. tx may be a transaction handle so the
// full answer path keeps the award atomic with the scheduling update.
func Award(tx *gorm.DB, userID int64, kind string, now time.Time) (int, error) {
	amount := AmountFor(kind)
	if amount == 0 {
		return 0, nil
	}
	entry := db.CreditAward{
		UserID:    userID,
		Kind:      kind,
		Amount:    amount,
		AwardedAt: now,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return 0, fmt.Errorf("failed to award %s to user %d: %w", kind, userID, err)
	}
	return amount, nil
}

// AwardIfNotAlreadyToday grants the kind at most once per user per UTC
// calendar day. Returns 0 when the user already has today's grant.
func AwardIfNotAlreadyToday(tx *gorm.DB, userID int64, kind string, now time.Time) (int, error) {
	amount := AmountFor(kind)
	if amount == 0 {
		return 0, nil
	}
	key := fmt.Sprintf("%d:%s:%s", userID, kind, now.UTC().Format("2006-01-02"))
	entry := db.CreditAward{
		UserID:    userID,
		Kind:      kind,
		Amount:    amount,
		DailyKey:  &key,
		AwardedAt: now,
	}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "daily_key"}},
		DoNothing: true,
	}).Create(&entry)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to award daily %s to user %d: %w", kind, userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, nil
	}
	return amount, nil
}

// Balance sums the user's ledger.
func Balance(userID int64) (int, error) {
	var total int64
	err := db.DB.Model(&db.CreditAward{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum credits for user %d: %w", userID, err)
	}
	return int(total), nil
}
