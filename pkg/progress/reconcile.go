package progress

import (
	"errors"
	"fmt"

	"github.com/smith3v/study-scheduler/pkg/db"
	"github.com/smith3v/study-scheduler/pkg/logger"
	"gorm.io/gorm"
)

// ReconcileDeckProgress recomputes one user's deck counters from the live
// scheduling rows and overwrites the stored counters only when they differ.
// It is idempotent and safe to run at any time; it absorbs drift from
// dropped reconciliation tasks. Reports whether a correction was written.
func ReconcileDeckProgress(userID int64, deckID uint) (bool, error) {
	var studied, mastered int64
	err := db.DB.Model(&db.CardProgress{}).
		Where("user_id = ? AND deck_id = ?", userID, deckID).
		Count(&studied).Error
	if err != nil {
		return false, fmt.Errorf("failed to count studied items: %w", err)
	}
	err = db.DB.Model(&db.CardProgress{}).
		Where("user_id = ? AND deck_id = ? AND status = ?", userID, deckID, db.StatusMastered).
		Count(&mastered).Error
	if err != nil {
		return false, fmt.Errorf("failed to count mastered items: %w", err)
	}

	var row db.DeckProgress
	err = db.DB.Where("user_id = ? AND deck_id = ?", userID, deckID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if studied == 0 {
			return false, nil
		}
		row = db.DeckProgress{UserID: userID, DeckID: deckID}
	} else if err != nil {
		return false, fmt.Errorf("failed to load deck progress: %w", err)
	}

	if row.ItemsStudied == int(studied) && row.ItemsMastered == int(mastered) {
		return false, nil
	}

	logger.Info("correcting deck progress drift",
		"user_id", userID,
		"deck_id", deckID,
		"stored_studied", row.ItemsStudied,
		"actual_studied", studied,
		"stored_mastered", row.ItemsMastered,
		"actual_mastered", mastered)

	row.ItemsStudied = int(studied)
	row.ItemsMastered = int(mastered)
	if err := db.DB.Save(&row).Error; err != nil {
		return false, fmt.Errorf("failed to save corrected deck progress: %w", err)
	}
	return true, nil
}

// ReconcileAllDeckProgress sweeps every (user, deck) pair that has any
// scheduling state. Used by the daemon's periodic drift-correction job.
func ReconcileAllDeckProgress() (int, error) {
	type pair struct {
		UserID int64
		DeckID uint
	}
	var pairs []pair
	err := db.DB.Model(&db.CardProgress{}).
		Distinct("user_id", "deck_id").
		Scan(&pairs).Error
	if err != nil {
		return 0, fmt.Errorf("failed to list user/deck pairs: %w", err)
	}

	corrected := 0
	for _, p := range pairs {
		changed, err := ReconcileDeckProgress(p.UserID, p.DeckID)
		if err != nil {
			logger.Error("failed to reconcile deck progress",
				"user_id", p.UserID, "deck_id", p.DeckID, "error", err)
			continue
		}
		if changed {
			corrected++
		}
	}
	return corrected, nil
}

// GetDeckProgress returns the stored counters for one user and deck. Absent
// rows read as zero progress.
func GetDeckProgress(userID int64, deckID uint) (db.DeckProgress, error) {
	var row db.DeckProgress
	err := db.DB.Where("user_id = ? AND deck_id = ?", userID, deckID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.DeckProgress{UserID: userID, DeckID: deckID}, nil
	}
	if err != nil {
		return db.DeckProgress{}, fmt.Errorf("failed to load deck progress: %w", err)
	}
	return row, nil
}
