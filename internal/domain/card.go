package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardStatusInvalid is returned when a card's status is not one of
	// the known mastery states.
	ErrCardStatusInvalid = errors.New("card status must be new, learning or mastered")
)

// CardStatus is the mastery state of a card.
type CardStatus string

// Possible card status values.
const (
	CardStatusNew      CardStatus = "new"
	CardStatusLearning CardStatus = "learning"
	CardStatusMastered CardStatus = "mastered"
)

// Valid reports whether s is one of the known status values.
func (s CardStatus) Valid() bool {
	switch s {
	case CardStatusNew, CardStatusLearning, CardStatusMastered:
		return true
	}
	return false
}

// Card represents a single term/definition pair inside a deck.
// The ID is assigned at creation time and is immutable afterwards; it is
// the identity used by study progress records and by card mutations.
// LastReviewed is a unix-millisecond timestamp and is absent until the
// card has been reviewed at least once.
type Card struct {
	ID           string     `json:"id"`
	Term         string     `json:"term"`
	Definition   string     `json:"definition"`
	Status       CardStatus `json:"status"`
	LastReviewed *int64     `json:"lastReviewed,omitempty"`
}

// NewCard creates a new Card with a fresh ID and status "new".
// Term and definition are stored verbatim; empty values are allowed
// (the deck editor creates blank cards that are filled in afterwards).
func NewCard(term, definition string) Card {
	return Card{
		ID:         uuid.NewString(),
		Term:       term,
		Definition: definition,
		Status:     CardStatusNew,
	}
}

// Validate checks the card's invariants.
func (c *Card) Validate() error {
	if c.ID == "" {
		return ErrCardIDEmpty
	}
	if !c.Status.Valid() {
		return ErrCardStatusInvalid
	}
	return nil
}

// CardUpdate is a partial update to a card. Nil fields are left untouched;
// the card ID can never be changed through an update.
type CardUpdate struct {
	Term         *string
	Definition   *string
	Status       *CardStatus
	LastReviewed *int64
}

// Apply shallow-merges the non-nil fields of the update into the card.
func (c *Card) Apply(u CardUpdate) {
	if u.Term != nil {
		c.Term = *u.Term
	}
	if u.Definition != nil {
		c.Definition = *u.Definition
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	if u.LastReviewed != nil {
		c.LastReviewed = u.LastReviewed
	}
}
