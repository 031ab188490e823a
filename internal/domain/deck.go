package domain

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultDeckTitle is used when a deck is created with a blank title.
const DefaultDeckTitle = "Untitled Deck"

// Deck is a named, ordered collection of cards. The card slice order is the
// display order; new cards are appended at the end. CreatedAt is a
// unix-millisecond timestamp.
type Deck struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"createdAt"`
	Cards     []Card `json:"cards"`
}

// NewDeck creates a deck with a fresh ID and an empty card list.
// The title is trimmed; a blank title falls back to DefaultDeckTitle.
func NewDeck(title string, createdAt int64) Deck {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		trimmed = DefaultDeckTitle
	}
	return Deck{
		ID:        uuid.NewString(),
		Title:     trimmed,
		CreatedAt: createdAt,
		Cards:     []Card{},
	}
}

// CardByID returns a pointer into the deck's card slice, or nil if no card
// with the given id exists. The pointer is invalidated by card list mutations.
func (d *Deck) CardByID(cardID string) *Card {
	for i := range d.Cards {
		if d.Cards[i].ID == cardID {
			return &d.Cards[i]
		}
	}
	return nil
}

// CardIDs returns the ids of all cards in display order.
func (d *Deck) CardIDs() []string {
	ids := make([]string, len(d.Cards))
	for i := range d.Cards {
		ids[i] = d.Cards[i].ID
	}
	return ids
}

// Clone returns a deep copy of the deck.
func (d *Deck) Clone() Deck {
	out := *d
	out.Cards = make([]Card, len(d.Cards))
	copy(out.Cards, d.Cards)
	for i := range out.Cards {
		if lr := d.Cards[i].LastReviewed; lr != nil {
			v := *lr
			out.Cards[i].LastReviewed = &v
		}
	}
	return out
}
