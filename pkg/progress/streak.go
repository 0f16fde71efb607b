package progress

import (
	"fmt"
	"sort"
	"time"

	"github.com/smith3v/study-scheduler/pkg/db"
)

// activeReviewDates returns the distinct UTC calendar dates with at least
// one review in either domain, ascending. A zero since means full history.
func activeReviewDates(userID int64, since time.Time) ([]time.Time, error) {
	query := db.DB.Model(&db.ReviewLog{}).Where("user_id = ?", userID)
	if !since.IsZero() {
		query = query.Where("reviewed_at >= ?", since)
	}
	var stamps []time.Time
	if err := query.Order("reviewed_at ASC").Pluck("reviewed_at", &stamps).Error; err != nil {
		return nil, fmt.Errorf("failed to load review dates: %w", err)
	}

	seen := make(map[time.Time]struct{}, len(stamps))
	dates := make([]time.Time, 0, len(stamps))
	for _, stamp := range stamps {
		date := dateOf(stamp)
		if _, ok := seen[date]; ok {
			continue
		}
		seen[date] = struct{}{}
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// currentStreak walks back from today, or from yesterday when today has no
// activity yet (one-day grace). No activity on either day means 0.
func currentStreak(dates []time.Time, now time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	active := make(map[time.Time]struct{}, len(dates))
	for _, date := range dates {
		active[date] = struct{}{}
	}

	day := dateOf(now)
	if _, ok := active[day]; !ok {
		day = day.AddDate(0, 0, -1)
		if _, ok := active[day]; !ok {
			return 0
		}
	}

	streak := 0
	for {
		if _, ok := active[day]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// longestStreak finds the longest run of consecutive calendar dates. Input
// must be ascending distinct dates.
func longestStreak(dates []time.Time) int {
	longest := 0
	run := 0
	for i, date := range dates {
		if i > 0 && date.Sub(dates[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
