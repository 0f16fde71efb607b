package progress

import (
	"fmt"

	"github.com/smith3v/study-scheduler/pkg/db"
)

// achievementDef is one threshold check against the aggregated statistics.
// The catalog order is the display order.
type achievementDef struct {
	Code      string
	Name      string
	Threshold int
	metric    func(overview Overview, totalReviews int) int
}

var achievementCatalog = []achievementDef{
	{"streak_7", "One Week Strong", 7,
		func(o Overview, _ int) int { return o.LongestStreak }},
	{"streak_30", "Month of Momentum", 30,
		func(o Overview, _ int) int { return o.LongestStreak }},
	{"mastered_10", "First Ten Mastered", 10,
		func(o Overview, _ int) int { return o.Counts.Mastered }},
	{"mastered_50", "Fifty Mastered", 50,
		func(o Overview, _ int) int { return o.Counts.Mastered }},
	{"reviews_100", "Hundred Reviews", 100,
		func(_ Overview, reviews int) int { return reviews }},
	{"reviews_1000", "Thousand Reviews", 1000,
		func(_ Overview, reviews int) int { return reviews }},
}

// AchievementStatus is computed on every call; unlock timestamps are not
// tracked unless someone persists them separately.
type AchievementStatus struct {
	Code     string
	Name     string
	Unlocked bool
	Progress float64
}

func evaluateAchievements(userID int64, overview Overview) ([]AchievementStatus, error) {
	var totalReviews int64
	err := db.DB.Model(&db.ReviewLog{}).
		Where("user_id = ?", userID).
		Count(&totalReviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count total reviews: %w", err)
	}

	statuses := make([]AchievementStatus, 0, len(achievementCatalog))
	for _, def := range achievementCatalog {
		value := def.metric(overview, int(totalReviews))
		percent := float64(value) / float64(def.Threshold) * 100
		if percent > 100 {
			percent = 100
		}
		statuses = append(statuses, AchievementStatus{
			Code:     def.Code,
			Name:     def.Name,
			Unlocked: value >= def.Threshold,
			Progress: percent,
		})
	}
	return statuses, nil
}
