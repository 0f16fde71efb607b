// Package progress merges scheduling state and review history from the
// vocabulary and culture domains into one user-facing progress view, and
// owns the drift correction for the incrementally maintained deck counters.
package progress

import (
	"fmt"
	"time"

	"github.com/smith3v/study-scheduler/pkg/db"
)

// Lookback window for the current streak, accuracy and the quality trend.
// The longest streak is computed over the full history.
const LookbackDays = 30

type StatusCounts struct {
	New      int
	Learning int
	Review   int
	Mastered int
	Due      int
}

type Overview struct {
	Counts        StatusCounts
	CurrentStreak int
	LongestStreak int
	Accuracy      float64
	Trend         string
	Achievements  []AchievementStatus
}

// GetProgress assembles the cross-domain overview. Everything here is
// computed fresh from storage; nothing is cached.
func GetProgress(userID int64, now time.Time) (Overview, error) {
	var overview Overview

	for _, domain := range []string{db.DomainVocab, db.DomainCulture} {
		counts, err := statusCountsForDomain(userID, domain, now)
		if err != nil {
			return Overview{}, err
		}
		overview.Counts.New += counts.New
		overview.Counts.Learning += counts.Learning
		overview.Counts.Review += counts.Review
		overview.Counts.Mastered += counts.Mastered
		overview.Counts.Due += counts.Due
	}

	activeDates, err := activeReviewDates(userID, now.AddDate(0, 0, -LookbackDays))
	if err != nil {
		return Overview{}, err
	}
	overview.CurrentStreak = currentStreak(activeDates, now)

	allDates, err := activeReviewDates(userID, time.Time{})
	if err != nil {
		return Overview{}, err
	}
	overview.LongestStreak = longestStreak(allDates)

	overview.Accuracy, err = accuracy(userID, now.AddDate(0, 0, -LookbackDays))
	if err != nil {
		return Overview{}, err
	}

	overview.Trend, err = qualityTrend(userID, now.AddDate(0, 0, -LookbackDays))
	if err != nil {
		return Overview{}, err
	}

	overview.Achievements, err = evaluateAchievements(userID, overview)
	if err != nil {
		return Overview{}, err
	}

	return overview, nil
}

func statusCountsForDomain(userID int64, domain string, now time.Time) (StatusCounts, error) {
	type bucket struct {
		Status string
		Total  int64
	}
	var buckets []bucket
	err := db.DB.Model(&db.CardProgress{}).
		Select("status, COUNT(*) AS total").
		Where("user_id = ? AND domain = ?", userID, domain).
		Group("status").
		Scan(&buckets).Error
	if err != nil {
		return StatusCounts{}, fmt.Errorf("failed to count %s statuses: %w", domain, err)
	}

	var counts StatusCounts
	for _, b := range buckets {
		switch b.Status {
		case db.StatusNew:
			counts.New += int(b.Total)
		case db.StatusLearning:
			counts.Learning += int(b.Total)
		case db.StatusReview:
			counts.Review += int(b.Total)
		case db.StatusMastered:
			counts.Mastered += int(b.Total)
		}
	}

	startOfTomorrow := dateOf(now).AddDate(0, 0, 1)
	var due int64
	err = db.DB.Model(&db.CardProgress{}).
		Where("user_id = ? AND domain = ? AND next_review_at < ?", userID, domain, startOfTomorrow).
		Count(&due).Error
	if err != nil {
		return StatusCounts{}, fmt.Errorf("failed to count %s due items: %w", domain, err)
	}
	counts.Due = int(due)

	return counts, nil
}

// accuracy is the correct/total percentage over the window, 0 when there are
// no reviews.
func accuracy(userID int64, since time.Time) (float64, error) {
	var total, correct int64
	query := db.DB.Model(&db.ReviewLog{}).Where("user_id = ?", userID)
	if !since.IsZero() {
		query = query.Where("reviewed_at >= ?", since)
	}
	if err := query.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	if total == 0 {
		return 0, nil
	}
	err := db.DB.Model(&db.ReviewLog{}).
		Where("user_id = ? AND correct = ? AND reviewed_at >= ?", userID, true, since).
		Count(&correct).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count correct reviews: %w", err)
	}
	return float64(correct) / float64(total) * 100, nil
}

func dateOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
