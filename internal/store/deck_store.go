package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/kuizlet/internal/domain"
	"github.com/phrazzld/kuizlet/internal/events"
)

// DeckStore owns the in-memory snapshot and serializes every mutation.
//
// Mutations are synchronous and atomic with respect to each other and to
// observers: the mutex guarantees no two mutations interleave, and the
// write-through save happens under the same critical section so the
// persisted record always reflects a complete mutation. Change events are
// emitted after the lock is released, so handlers may read the store.
//
// All mutators are total: unknown deck or card ids are silent no-ops (see
// the individual methods for which no-ops still advance the clock).
type DeckStore struct {
	mu        sync.Mutex
	snapshot  *domain.Snapshot
	persister SnapshotStore
	emitter   events.Emitter
	logger    *slog.Logger

	// now is the wall-clock source for the logical clock; injectable in tests.
	now func() time.Time
}

// Option configures a DeckStore.
type Option func(*DeckStore)

// WithClock overrides the wall-clock source used for the logical clock.
func WithClock(now func() time.Time) Option {
	return func(s *DeckStore) {
		s.now = now
	}
}

// WithEmitter attaches a change-event emitter. Without one, mutations are
// applied and persisted but not announced.
func WithEmitter(emitter events.Emitter) Option {
	return func(s *DeckStore) {
		s.emitter = emitter
	}
}

// New creates a DeckStore, loading the persisted snapshot from the given
// SnapshotStore or starting from an empty one when none exists. A nil
// persister disables durable persistence (used by tests).
func New(ctx context.Context, persister SnapshotStore, logger *slog.Logger, opts ...Option) (*DeckStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &DeckStore{
		persister: persister,
		logger:    logger.With(slog.String("component", "deck_store")),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if persister != nil {
		snapshot, err := persister.Load(ctx)
		switch {
		case err == nil:
			snapshot.Normalize()
			s.snapshot = snapshot
			s.logger.Info("loaded snapshot from local storage",
				"decks", len(snapshot.Decks),
				"updated_at", snapshot.UpdatedAt)
		case errors.Is(err, ErrNoSnapshot):
			s.snapshot = domain.NewSnapshot(s.now().UnixMilli())
			s.logger.Info("no local snapshot found, starting empty")
		default:
			return nil, err
		}
	} else {
		s.snapshot = domain.NewSnapshot(s.now().UnixMilli())
	}

	return s, nil
}

// nextClockLocked advances the logical clock: wall-clock milliseconds, but
// always strictly greater than the previous value so every mutation is
// distinguishable even within the same millisecond. Caller must hold mu.
func (s *DeckStore) nextClockLocked() int64 {
	next := s.now().UnixMilli()
	if next <= s.snapshot.UpdatedAt {
		next = s.snapshot.UpdatedAt + 1
	}
	return next
}

// mutate runs fn against the snapshot under the lock. When fn reports a
// change, the clock is advanced, the snapshot is written through to local
// storage, and a change event is emitted after the lock is released.
func (s *DeckStore) mutate(op string, fn func(snapshot *domain.Snapshot) bool) {
	s.mu.Lock()
	if !fn(s.snapshot) {
		s.mu.Unlock()
		return
	}
	s.snapshot.UpdatedAt = s.nextClockLocked()
	updatedAt := s.snapshot.UpdatedAt
	s.persistLocked(op)
	s.mu.Unlock()

	s.emit(op, updatedAt)
}

// persistLocked writes the current snapshot through to durable storage.
// Persistence failures are logged but do not fail the mutation: the
// in-memory state remains authoritative and the next mutation retries.
func (s *DeckStore) persistLocked(op string) {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(context.Background(), s.snapshot.Clone()); err != nil {
		s.logger.Error("failed to persist snapshot", "op", op, "error", err)
	}
}

func (s *DeckStore) emit(op string, updatedAt int64) {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(events.StateChangeEvent{
		Op:         op,
		UpdatedAt:  updatedAt,
		OccurredAt: s.now(),
	})
}

// CreateDeck creates a deck from the given title (trimmed, defaulted when
// blank) and prepends it to the deck list so the most recent deck shows
// first. Returns the created deck.
func (s *DeckStore) CreateDeck(title string) domain.Deck {
	var created domain.Deck
	s.mutate("create_deck", func(snapshot *domain.Snapshot) bool {
		created = domain.NewDeck(title, s.now().UnixMilli())
		snapshot.Decks = append([]domain.Deck{created}, snapshot.Decks...)
		return true
	})
	return created
}

// UpdateDeckTitle replaces the deck's title verbatim (no trimming).
//
// The clock is advanced even when the deck id is unknown. That mirrors the
// original implementation, where every deck-level mutator stamps a new
// updatedAt regardless of whether anything matched; keeping it preserves
// strict clock monotonicity per mutation and byte-compatible sync behavior.
func (s *DeckStore) UpdateDeckTitle(deckID, title string) {
	s.mutate("update_deck_title", func(snapshot *domain.Snapshot) bool {
		if deck := snapshot.DeckByID(deckID); deck != nil {
			deck.Title = title
		}
		return true
	})
}

// RemoveDeck removes the deck and both of its progress-map entries.
func (s *DeckStore) RemoveDeck(deckID string) {
	s.mutate("remove_deck", func(snapshot *domain.Snapshot) bool {
		decks := snapshot.Decks[:0]
		for _, deck := range snapshot.Decks {
			if deck.ID != deckID {
				decks = append(decks, deck)
			}
		}
		snapshot.Decks = decks
		delete(snapshot.FlashcardProgress, deckID)
		delete(snapshot.LearnProgress, deckID)
		return true
	})
}

// AddCard appends a card to the end of the deck's card list.
func (s *DeckStore) AddCard(deckID string, card domain.Card) {
	s.mutate("add_card", func(snapshot *domain.Snapshot) bool {
		if deck := snapshot.DeckByID(deckID); deck != nil {
			deck.Cards = append(deck.Cards, card)
		}
		return true
	})
}

// AddCards appends cards to the end of the deck's card list. An empty
// input is a no-op and does not advance the clock.
func (s *DeckStore) AddCards(deckID string, cards []domain.Card) {
	if len(cards) == 0 {
		return
	}
	s.mutate("add_cards", func(snapshot *domain.Snapshot) bool {
		if deck := snapshot.DeckByID(deckID); deck != nil {
			deck.Cards = append(deck.Cards, cards...)
		}
		return true
	})
}

// UpdateCard shallow-merges the non-nil update fields into the matching
// card.
func (s *DeckStore) UpdateCard(deckID, cardID string, update domain.CardUpdate) {
	s.mutate("update_card", func(snapshot *domain.Snapshot) bool {
		if deck := snapshot.DeckByID(deckID); deck != nil {
			if card := deck.CardByID(cardID); card != nil {
				card.Apply(update)
			}
		}
		return true
	})
}

// RemoveCard removes the card from its deck and purges its id from all
// three lists of both the flashcard and learn progress records for that
// deck, upholding the no-stale-ids invariant.
func (s *DeckStore) RemoveCard(deckID, cardID string) {
	s.mutate("remove_card", func(snapshot *domain.Snapshot) bool {
		if deck := snapshot.DeckByID(deckID); deck != nil {
			cards := deck.Cards[:0]
			for _, card := range deck.Cards {
				if card.ID != cardID {
					cards = append(cards, card)
				}
			}
			deck.Cards = cards
		}
		if progress := snapshot.FlashcardProgress[deckID]; progress != nil {
			progress.PruneCard(cardID)
		}
		if progress := snapshot.LearnProgress[deckID]; progress != nil {
			progress.PruneCard(cardID)
		}
		return true
	})
}

// SetFromCloud wholesale-replaces decks, both progress maps and the clock
// with the given snapshot. This is the remote-pull hydration path: the
// clock is taken from the snapshot, not advanced. The change event is
// still emitted; the sync coordinator is responsible for suppressing its
// own re-push while hydrating.
func (s *DeckStore) SetFromCloud(snapshot *domain.Snapshot) {
	incoming := snapshot.Clone()
	incoming.Normalize()

	s.mu.Lock()
	s.snapshot = incoming
	updatedAt := incoming.UpdatedAt
	s.persistLocked("set_from_cloud")
	s.mu.Unlock()

	s.emit("set_from_cloud", updatedAt)
}

// GetDeckByID returns a copy of the deck, or ErrDeckNotFound.
func (s *DeckStore) GetDeckByID(deckID string) (domain.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if deck := s.snapshot.DeckByID(deckID); deck != nil {
		return deck.Clone(), nil
	}
	return domain.Deck{}, ErrDeckNotFound
}

// Decks returns a copy of all decks in display order (most recent first).
func (s *DeckStore) Decks() []domain.Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	decks := make([]domain.Deck, len(s.snapshot.Decks))
	for i := range s.snapshot.Decks {
		decks[i] = s.snapshot.Decks[i].Clone()
	}
	return decks
}

// Snapshot returns a deep copy of the full store state, suitable for
// pushing to the remote document store.
func (s *DeckStore) Snapshot() *domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone()
}

// UpdatedAt returns the current logical clock value.
func (s *DeckStore) UpdatedAt() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.UpdatedAt
}
