// pkg/db/models.go
package db

import (
	"time"

	"gorm.io/datatypes"
)

// Content domains. Vocabulary cards and culture questions share one
// scheduling table, discriminated by Domain.
const (
	DomainVocab   = "vocab"
	DomainCulture = "culture"
)

// Scheduling statuses.
const (
	StatusNew      = "new"
	StatusLearning = "learning"
	StatusReview   = "review"
	StatusMastered = "mastered"
)

// Deck is a content collection. Kind matches the domain of the items it
// holds. Inactive decks are hidden from queue building.
type Deck struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Kind      string `gorm:"not null;index"`
	IsActive  bool   `gorm:"not null;default:true"`
	Position  int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type VocabCard struct {
	ID            uint           `gorm:"primaryKey"`
	DeckID        uint           `gorm:"index;index:idx_vocab_deck_position"`
	Front         string         `gorm:"not null"`
	Back          string         `gorm:"not null"`
	Options       datatypes.JSON `gorm:"not null"`
	CorrectOption int            `gorm:"not null;default:0"`
	Position      int            `gorm:"not null;default:0;index:idx_vocab_deck_position"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CultureQuestion struct {
	ID            uint           `gorm:"primaryKey"`
	DeckID        uint           `gorm:"index;index:idx_culture_deck_position"`
	Prompt        string         `gorm:"not null"`
	Options       datatypes.JSON `gorm:"not null"`
	CorrectOption int            `gorm:"not null;default:0"`
	Explanation   string         `gorm:"not null;default:''"`
	Position      int            `gorm:"not null;default:0;index:idx_culture_deck_position"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CardProgress is the per-user scheduling state of one item. Created lazily
// on first review, never ahead of time.
type CardProgress struct {
	ID             uint    `gorm:"primaryKey"`
	UserID         int64   `gorm:"uniqueIndex:idx_progress_user_item;index:idx_progress_user_due"`
	Domain         string  `gorm:"not null;uniqueIndex:idx_progress_user_item"`
	ItemID         uint    `gorm:"not null;uniqueIndex:idx_progress_user_item"`
	DeckID         uint    `gorm:"index"`
	EaseFactor     float64 `gorm:"not null;default:2.5"`
	IntervalDays   int     `gorm:"not null;default:0"`
	Repetitions    int     `gorm:"not null;default:0"`
	Status         string  `gorm:"not null;default:new"`
	NextReviewAt   time.Time `gorm:"index:idx_progress_user_due"`
	LastReviewedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ReviewLog is an append-only audit row, one per review event. EventID is
// the idempotency key: replaying a reconciliation payload must not create a
// second row.
type ReviewLog struct {
	ID           uint      `gorm:"primaryKey"`
	EventID      string    `gorm:"not null;uniqueIndex"`
	UserID       int64     `gorm:"index:idx_review_user_date"`
	Domain       string    `gorm:"not null"`
	ItemID       uint      `gorm:"not null"`
	DeckID       uint      `gorm:"index"`
	Quality      int       `gorm:"not null"`
	Correct      bool      `gorm:"not null"`
	TimeTakenMs  int       `gorm:"not null;default:0"`
	ResultStatus string    `gorm:"not null"`
	ReviewedAt   time.Time `gorm:"not null;index:idx_review_user_date"`
}

// DeckProgress holds incrementally maintained per-deck counters. It can lag
// the live CardProgress rows between reconciliation runs.
type DeckProgress struct {
	ID            uint  `gorm:"primaryKey"`
	UserID        int64 `gorm:"uniqueIndex:idx_deck_progress_user_deck"`
	DeckID        uint  `gorm:"not null;uniqueIndex:idx_deck_progress_user_deck"`
	ItemsStudied  int   `gorm:"not null;default:0"`
	ItemsMastered int   `gorm:"not null;default:0"`
	LastStudiedAt *time.Time
	UpdatedAt     time.Time
}

// CreditAward is one ledger entry. Once-per-day kinds set DailyKey to
// user:kind:date so the unique index rejects a second grant; ordinary awards
// leave it NULL.
type CreditAward struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    int64  `gorm:"index"`
	Kind      string `gorm:"not null"`
	Amount    int    `gorm:"not null"`
	DailyKey  *string `gorm:"uniqueIndex"`
	AwardedAt time.Time `gorm:"not null"`
}
