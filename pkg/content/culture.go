package content

import (
	"errors"
	"fmt"

	"github.com/smith3v/study-scheduler/pkg/db"
	"gorm.io/gorm"
)

const cultureDomain = db.DomainCulture

// CultureProvider serves multiple-choice culture questions.
type CultureProvider struct{}

func (CultureProvider) Domain() string { return cultureDomain }

func (CultureProvider) GetItem(id uint) (Item, error) {
	var question db.CultureQuestion
	if err := db.DB.First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Item{}, ErrItemNotFound
		}
		return Item{}, fmt.Errorf("failed to load culture question %d: %w", id, err)
	}
	options, err := decodeOptions(question.Options)
	if err != nil {
		return Item{}, fmt.Errorf("failed to decode options for culture question %d: %w", id, err)
	}
	return Item{
		ID:            question.ID,
		DeckID:        question.DeckID,
		Prompt:        question.Prompt,
		Options:       options,
		CorrectOption: question.CorrectOption,
		Position:      question.Position,
	}, nil
}

func (CultureProvider) GetCollection(id uint) (Collection, error) {
	return getDeck(id, cultureDomain)
}

func (CultureProvider) ListNewItems(collectionID uint, userID int64, limit int) ([]Item, error) {
	var questions []db.CultureQuestion
	seen := db.DB.Model(&db.CardProgress{}).
		Select("item_id").
		Where("user_id = ? AND domain = ?", userID, cultureDomain)
	if err := db.DB.
		Where("deck_id = ?", collectionID).
		Where("id NOT IN (?)", seen).
		Order("position ASC, id ASC").
		Limit(limit).
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to list new culture questions: %w", err)
	}

	items := make([]Item, 0, len(questions))
	for _, question := range questions {
		options, err := decodeOptions(question.Options)
		if err != nil {
			return nil, fmt.Errorf("failed to decode options for culture question %d: %w", question.ID, err)
		}
		items = append(items, Item{
			ID:            question.ID,
			DeckID:        question.DeckID,
			Prompt:        question.Prompt,
			Options:       options,
			CorrectOption: question.CorrectOption,
			Position:      question.Position,
		})
	}
	return items, nil
}
