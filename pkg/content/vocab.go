package content

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/smith3v/study-scheduler/pkg/db"
	"gorm.io/gorm"
)

const vocabDomain = db.DomainVocab

// VocabProvider serves vocabulary flashcards.
type VocabProvider struct{}

func (VocabProvider) Domain() string { return vocabDomain }

func (VocabProvider) GetItem(id uint) (Item, error) {
	var card db.VocabCard
	if err := db.DB.First(&card, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Item{}, ErrItemNotFound
		}
		return Item{}, fmt.Errorf("failed to load vocab card %d: %w", id, err)
	}
	options, err := decodeOptions(card.Options)
	if err != nil {
		return Item{}, fmt.Errorf("failed to decode options for vocab card %d: %w", id, err)
	}
	return Item{
		ID:            card.ID,
		DeckID:        card.DeckID,
		Prompt:        card.Front,
		Options:       options,
		CorrectOption: card.CorrectOption,
		Position:      card.Position,
	}, nil
}

func (VocabProvider) GetCollection(id uint) (Collection, error) {
	return getDeck(id, vocabDomain)
}

func (VocabProvider) ListNewItems(collectionID uint, userID int64, limit int) ([]Item, error) {
	var cards []db.VocabCard
	seen := db.DB.Model(&db.CardProgress{}).
		Select("item_id").
		Where("user_id = ? AND domain = ?", userID, vocabDomain)
	if err := db.DB.
		Where("deck_id = ?", collectionID).
		Where("id NOT IN (?)", seen).
		Order("position ASC, id ASC").
		Limit(limit).
		Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to list new vocab cards: %w", err)
	}

	items := make([]Item, 0, len(cards))
	for _, card := range cards {
		options, err := decodeOptions(card.Options)
		if err != nil {
			return nil, fmt.Errorf("failed to decode options for vocab card %d: %w", card.ID, err)
		}
		items = append(items, Item{
			ID:            card.ID,
			DeckID:        card.DeckID,
			Prompt:        card.Front,
			Options:       options,
			CorrectOption: card.CorrectOption,
			Position:      card.Position,
		})
	}
	return items, nil
}

func getDeck(id uint, kind string) (Collection, error) {
	var deck db.Deck
	if err := db.DB.Where("kind = ?", kind).First(&deck, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Collection{}, ErrCollectionNotFound
		}
		return Collection{}, fmt.Errorf("failed to load deck %d: %w", id, err)
	}
	return Collection{ID: deck.ID, Name: deck.Name, IsActive: deck.IsActive}, nil
}

func decodeOptions(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var options []string
	if err := json.Unmarshal(raw, &options); err != nil {
		return nil, err
	}
	return options, nil
}
