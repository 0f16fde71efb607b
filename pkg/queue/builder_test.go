package queue

import (
	"errors"
	"testing"
	"time"

	"github.com/smith3v/study-scheduler/pkg/content"
	"github.com/smith3v/study-scheduler/pkg/db"
	"github.com/smith3v/study-scheduler/pkg/internal/testutil"
)

// seedQueueFixture creates one active vocab deck with five cards: A and B
// due (A more overdue), C and D never seen, E reviewed but not due yet.
func seedQueueFixture(t *testing.T, now time.Time) (deckID uint, cards map[string]uint) {
	t.Helper()

	deck := db.Deck{Name: "Basics", Kind: db.DomainVocab, IsActive: true}
	testutil.MustCreate(t, &deck)

	cards = make(map[string]uint)
	for i, name := range []string{"A", "B", "C", "D", "E"} {
		card := db.VocabCard{
			DeckID:        deck.ID,
			Front:         name,
			Back:          name + "-back",
			Options:       testutil.OptionsJSON(t, "w", "x", "y", "z"),
			CorrectOption: 0,
			Position:      i,
		}
		testutil.MustCreate(t, &card)
		cards[name] = card.ID
	}

	for _, row := range []db.CardProgress{
		{UserID: 1, Domain: db.DomainVocab, ItemID: cards["A"], DeckID: deck.ID,
			EaseFactor: 2.5, IntervalDays: 1, Repetitions: 1, Status: db.StatusLearning,
			NextReviewAt: now.AddDate(0, 0, -3)},
		{UserID: 1, Domain: db.DomainVocab, ItemID: cards["B"], DeckID: deck.ID,
			EaseFactor: 2.5, IntervalDays: 1, Repetitions: 1, Status: db.StatusLearning,
			NextReviewAt: now.AddDate(0, 0, -1)},
		{UserID: 1, Domain: db.DomainVocab, ItemID: cards["E"], DeckID: deck.ID,
			EaseFactor: 2.5, IntervalDays: 6, Repetitions: 2, Status: db.StatusLearning,
			NextReviewAt: now.AddDate(0, 0, 2)},
	} {
		progress := row
		testutil.MustCreate(t, &progress)
	}

	return deck.ID, cards
}

func queueNames(t *testing.T, entries []Entry, cards map[string]uint) []string {
	t.Helper()
	byID := make(map[uint]string, len(cards))
	for name, id := range cards {
		byID[id] = name
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name, ok := byID[entry.Item.ID]
		if !ok {
			t.Fatalf("unexpected item id %d in queue", entry.Item.ID)
		}
		names = append(names, name)
	}
	return names
}

func TestBuildDueThenNewCappedAtLimit(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	deckID, cards := seedQueueFixture(t, now)

	entries, err := Build(content.VocabProvider{}, 1, deckID, Options{
		Limit:                3,
		IncludeNew:           true,
		NewLimit:             10,
		IncludeEarlyPractice: true,
		EarlyLimit:           10,
	}, now)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	names := queueNames(t, entries, cards)
	if len(names) != 3 || names[0] != "A" || names[1] != "B" || names[2] != "C" {
		t.Fatalf("expected [A B C], got %v", names)
	}
	if entries[0].IsNew || entries[0].IsEarlyPractice {
		t.Fatalf("due entry should have no flags, got %+v", entries[0])
	}
	if !entries[2].IsNew || entries[2].IsEarlyPractice {
		t.Fatalf("expected C flagged as new only, got %+v", entries[2])
	}
}

func TestBuildIncludesEarlyPracticeWithCapacity(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	deckID, cards := seedQueueFixture(t, now)

	entries, err := Build(content.VocabProvider{}, 1, deckID, Options{
		Limit:                5,
		IncludeNew:           true,
		NewLimit:             10,
		IncludeEarlyPractice: true,
		EarlyLimit:           10,
	}, now)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	names := queueNames(t, entries, cards)
	expected := []string{"A", "B", "C", "D", "E"}
	if len(names) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, names)
		}
	}
	last := entries[4]
	if !last.IsEarlyPractice || last.IsNew {
		t.Fatalf("expected E flagged as early practice only, got %+v", last)
	}
}

func TestBuildRespectsNewLimit(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	deckID, cards := seedQueueFixture(t, now)

	entries, err := Build(content.VocabProvider{}, 1, deckID, Options{
		Limit:      10,
		IncludeNew: true,
		NewLimit:   1,
	}, now)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	names := queueNames(t, entries, cards)
	if len(names) != 3 || names[2] != "C" {
		t.Fatalf("expected [A B C] with new capped at 1, got %v", names)
	}
}

func TestBuildSkipsOptionalSources(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	deckID, cards := seedQueueFixture(t, now)

	entries, err := Build(content.VocabProvider{}, 1, deckID, Options{Limit: 10}, now)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	names := queueNames(t, entries, cards)
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Fatalf("expected only due items [A B], got %v", names)
	}
}

func TestBuildUnknownUserGetsOnlyNewItems(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	deckID, cards := seedQueueFixture(t, now)

	entries, err := Build(content.VocabProvider{}, 99, deckID, Options{
		Limit:      3,
		IncludeNew: true,
		NewLimit:   10,
	}, now)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	names := queueNames(t, entries, cards)
	if len(names) != 3 || names[0] != "A" || names[1] != "B" || names[2] != "C" {
		t.Fatalf("expected first three cards in display order, got %v", names)
	}
	for _, entry := range entries {
		if !entry.IsNew {
			t.Fatalf("expected all entries new for unseen user, got %+v", entry)
		}
	}
}

func TestBuildInactiveDeckFails(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	deck := db.Deck{Name: "Archived", Kind: db.DomainVocab, IsActive: false}
	testutil.MustCreate(t, &deck)

	if _, err := Build(content.VocabProvider{}, 1, deck.ID, Options{Limit: 5}, now); !errors.Is(err, content.ErrCollectionNotFound) {
		t.Fatalf("expected ErrCollectionNotFound for inactive deck, got %v", err)
	}
	if _, err := Build(content.VocabProvider{}, 1, 4242, Options{Limit: 5}, now); !errors.Is(err, content.ErrCollectionNotFound) {
		t.Fatalf("expected ErrCollectionNotFound for missing deck, got %v", err)
	}
}

func TestBuildZeroLimit(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	deckID, _ := seedQueueFixture(t, now)

	entries, err := Build(content.VocabProvider{}, 1, deckID, Options{Limit: 0, IncludeNew: true, NewLimit: 5}, now)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty queue, got %d entries", len(entries))
	}
}
