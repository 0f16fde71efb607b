package rewards

import (
	"testing"
	"time"

	"github.com/smith3v/study-scheduler/pkg/config"
	"github.com/smith3v/study-scheduler/pkg/db"
	"github.com/smith3v/study-scheduler/pkg/internal/testutil"
)

func setupRewardsConfig(t *testing.T) {
	t.Helper()
	original := config.AppConfig
	t.Cleanup(func() {
		config.AppConfig = original
	})
	config.AppConfig.Rewards = config.RewardsConfig{
		CorrectAnswer:       10,
		IncorrectAnswer:     2,
		FastAnswerBonus:     5,
		FastAnswerMaxMillis: 5000,
		DailyBonus:          50,
	}
}

func TestAwardWritesLedgerEntry(t *testing.T) {
	testutil.SetupTestDB(t)
	setupRewardsConfig(t)
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	amount, err := Award(db.DB, 7, KindCorrectAnswer, now)
	if err != nil {
		t.Fatalf("Award returned error: %v", err)
	}
	if amount != 10 {
		t.Fatalf("expected amount 10, got %d", amount)
	}

	balance, err := Balance(7)
	if err != nil {
		t.Fatalf("Balance returned error: %v", err)
	}
	if balance != 10 {
		t.Fatalf("expected balance 10, got %d", balance)
	}
}

func TestAwardIfNotAlreadyTodayDeduplicates(t *testing.T) {
	testutil.SetupTestDB(t)
	setupRewardsConfig(t)
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	first, err := AwardIfNotAlreadyToday(db.DB, 7, KindDailyBonus, now)
	if err != nil {
		t.Fatalf("first award returned error: %v", err)
	}
	if first != 50 {
		t.Fatalf("expected first daily bonus of 50, got %d", first)
	}

	second, err := AwardIfNotAlreadyToday(db.DB, 7, KindDailyBonus, now.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("second award returned error: %v", err)
	}
	if second != 0 {
		t.Fatalf("expected second same-day award to be 0, got %d", second)
	}

	// A different user on the same day is unaffected.
	other, err := AwardIfNotAlreadyToday(db.DB, 8, KindDailyBonus, now)
	if err != nil {
		t.Fatalf("other user award returned error: %v", err)
	}
	if other != 50 {
		t.Fatalf("expected other user to get 50, got %d", other)
	}

	// Next day the bonus is available again.
	nextDay, err := AwardIfNotAlreadyToday(db.DB, 7, KindDailyBonus, now.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("next day award returned error: %v", err)
	}
	if nextDay != 50 {
		t.Fatalf("expected next-day bonus of 50, got %d", nextDay)
	}

	balance, err := Balance(7)
	if err != nil {
		t.Fatalf("Balance returned error: %v", err)
	}
	if balance != 100 {
		t.Fatalf("expected balance 100, got %d", balance)
	}
}

func TestAwardZeroConfiguredAmountIsNoop(t *testing.T) {
	testutil.SetupTestDB(t)
	setupRewardsConfig(t)
	config.AppConfig.Rewards.IncorrectAnswer = 0
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	amount, err := Award(db.DB, 7, KindIncorrectAnswer, now)
	if err != nil {
		t.Fatalf("Award returned error: %v", err)
	}
	if amount != 0 {
		t.Fatalf("expected 0 amount, got %d", amount)
	}

	var count int64
	if err := db.DB.Model(&db.CreditAward{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no ledger rows, got %d", count)
	}
}
