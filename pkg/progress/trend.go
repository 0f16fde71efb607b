package progress

import (
	"fmt"
	"sort"
	"time"

	"github.com/smith3v/study-scheduler/pkg/db"
)

const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"

	// Quality difference below this magnitude is noise.
	trendDeadband = 0.3
)

type dayBucket struct {
	date    time.Time
	reviews int
	quality int
}

// qualityTrend splits the day-bucketed history of the window in half and
// compares the review-weighted average quality of each half.
func qualityTrend(userID int64, since time.Time) (string, error) {
	var logs []db.ReviewLog
	err := db.DB.
		Where("user_id = ? AND reviewed_at >= ?", userID, since).
		Order("reviewed_at ASC").
		Find(&logs).Error
	if err != nil {
		return "", fmt.Errorf("failed to load review history: %w", err)
	}

	byDate := make(map[time.Time]*dayBucket)
	for _, log := range logs {
		date := dateOf(log.ReviewedAt)
		bucket := byDate[date]
		if bucket == nil {
			bucket = &dayBucket{date: date}
			byDate[date] = bucket
		}
		bucket.reviews++
		bucket.quality += log.Quality
	}

	buckets := make([]*dayBucket, 0, len(byDate))
	for _, bucket := range byDate {
		buckets = append(buckets, bucket)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].date.Before(buckets[j].date) })

	if len(buckets) < 2 {
		return TrendStable, nil
	}

	half := len(buckets) / 2
	first := weightedAverageQuality(buckets[:half])
	second := weightedAverageQuality(buckets[half:])

	diff := second - first
	switch {
	case diff > trendDeadband:
		return TrendImproving, nil
	case diff < -trendDeadband:
		return TrendDeclining, nil
	default:
		return TrendStable, nil
	}
}

func weightedAverageQuality(buckets []*dayBucket) float64 {
	totalReviews := 0
	totalQuality := 0
	for _, bucket := range buckets {
		totalReviews += bucket.reviews
		totalQuality += bucket.quality
	}
	if totalReviews == 0 {
		return 0
	}
	return float64(totalQuality) / float64(totalReviews)
}
