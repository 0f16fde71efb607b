// Package queue assembles a user's next review queue for one deck: overdue
// items first, then never-seen items, then optional early practice. The three
// groups never interleave.
package queue

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/smith3v/study-scheduler/pkg/content"
	"github.com/smith3v/study-scheduler/pkg/db"
	"github.com/smith3v/study-scheduler/pkg/logger"
)

// Entry is one queue position. IsNew and IsEarlyPractice are mutually
// exclusive; both false means the item is genuinely due.
type Entry struct {
	Item            content.Item
	IsNew           bool
	IsEarlyPractice bool
	Status          string
	NextReviewAt    time.Time
}

type Options struct {
	Limit                int
	IncludeNew           bool
	NewLimit             int
	IncludeEarlyPractice bool
	EarlyLimit           int
}

// Build returns the ordered queue for one user and deck. A missing or
// inactive deck fails with content.ErrCollectionNotFound.
func Build(provider content.Provider, userID int64, collectionID uint, opts Options, now time.Time) ([]Entry, error) {
	collection, err := provider.GetCollection(collectionID)
	if err != nil {
		return nil, err
	}
	if !collection.IsActive {
		return nil, content.ErrCollectionNotFound
	}
	if opts.Limit <= 0 {
		return []Entry{}, nil
	}

	startOfTomorrow := dateOf(now).AddDate(0, 0, 1)

	due, err := scheduledEntries(provider, userID, collectionID, true, startOfTomorrow)
	if err != nil {
		return nil, err
	}
	if len(due) > opts.Limit {
		due = due[:opts.Limit]
	}

	queue := due
	remaining := opts.Limit - len(queue)

	if opts.IncludeNew && remaining > 0 {
		newLimit := opts.NewLimit
		if newLimit > remaining {
			newLimit = remaining
		}
		if newLimit > 0 {
			fresh, err := provider.ListNewItems(collectionID, userID, newLimit)
			if err != nil {
				return nil, err
			}
			for _, item := range fresh {
				queue = append(queue, Entry{Item: item, IsNew: true, Status: db.StatusNew})
			}
			remaining = opts.Limit - len(queue)
		}
	}

	if opts.IncludeEarlyPractice && remaining > 0 {
		early, err := scheduledEntries(provider, userID, collectionID, false, startOfTomorrow)
		if err != nil {
			return nil, err
		}
		earlyLimit := opts.EarlyLimit
		if earlyLimit > remaining {
			earlyLimit = remaining
		}
		if earlyLimit < 0 {
			earlyLimit = 0
		}
		if len(early) > earlyLimit {
			early = early[:earlyLimit]
		}
		for i := range early {
			early[i].IsEarlyPractice = true
		}
		queue = append(queue, early...)
	}

	return queue, nil
}

// scheduledEntries loads the user's progress rows for the deck, either the
// due half (next review before tomorrow) or the not-yet-due half, resolves
// their items, and orders them by next review date with the item's content
// position as tie-break.
func scheduledEntries(provider content.Provider, userID int64, collectionID uint, due bool, startOfTomorrow time.Time) ([]Entry, error) {
	query := db.DB.
		Where("user_id = ? AND domain = ? AND deck_id = ?", userID, provider.Domain(), collectionID)
	if due {
		query = query.Where("next_review_at < ?", startOfTomorrow)
	} else {
		query = query.Where("next_review_at >= ?", startOfTomorrow)
	}

	var rows []db.CardProgress
	if err := query.Order("next_review_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load scheduled items: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		item, err := provider.GetItem(row.ItemID)
		if errors.Is(err, content.ErrItemNotFound) {
			// The item was hard-deleted after its progress row; nothing to
			// review.
			logger.Warn("skipping progress row for missing item",
				"user_id", userID, "domain", provider.Domain(), "item_id", row.ItemID)
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Item:         item,
			Status:       row.Status,
			NextReviewAt: row.NextReviewAt,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		di := dateOf(entries[i].NextReviewAt)
		dj := dateOf(entries[j].NextReviewAt)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		if entries[i].Item.Position != entries[j].Item.Position {
			return entries[i].Item.Position < entries[j].Item.Position
		}
		return entries[i].Item.ID < entries[j].Item.ID
	})

	return entries, nil
}

func dateOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
