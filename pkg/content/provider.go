// Package content exposes the two content domains (vocabulary cards and
// culture questions) behind one provider interface, so scheduling, queue
// building and answer processing are written once.
package content

import (
	"errors"
	"fmt"
)

var (
	// ErrCollectionNotFound covers both a missing and an inactive deck. The
	// two cases are deliberately indistinguishable to callers.
	ErrCollectionNotFound = errors.New("collection not found")
	ErrItemNotFound       = errors.New("item not found")
)

// Item is the domain-neutral view of one reviewable item.
type Item struct {
	ID            uint
	DeckID        uint
	Prompt        string
	Options       []string
	CorrectOption int
	Position      int
}

// Collection is the domain-neutral view of a deck.
type Collection struct {
	ID       uint
	Name     string
	IsActive bool
}

// Provider is the content-domain capability consumed by the queue builder
// and the answer processor.
type Provider interface {
	Domain() string
	GetItem(id uint) (Item, error)
	GetCollection(id uint) (Collection, error)
	// ListNewItems returns items in the collection the user has no
	// scheduling state for yet, in display order.
	ListNewItems(collectionID uint, userID int64, limit int) ([]Item, error)
}

// ForDomain maps a stored domain discriminator back to its provider.
func ForDomain(domain string) (Provider, error) {
	switch domain {
	case vocabDomain:
		return VocabProvider{}, nil
	case cultureDomain:
		return CultureProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown content domain %q", domain)
	}
}
