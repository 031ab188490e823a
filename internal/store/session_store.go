package store

import (
	"github.com/phrazzld/kuizlet/internal/domain"
	"github.com/phrazzld/kuizlet/internal/study"
)

// StudyMode selects which of the two independently tracked progress maps a
// session operation applies to.
type StudyMode string

// Study modes with tracked progress. Practice tests are stateless and have
// no progress map.
const (
	ModeFlashcard StudyMode = "flashcard"
	ModeLearn     StudyMode = "learn"
)

// Valid reports whether m is a known study mode.
func (m StudyMode) Valid() bool {
	return m == ModeFlashcard || m == ModeLearn
}

func progressMap(snapshot *domain.Snapshot, mode StudyMode) map[string]*domain.StudyProgress {
	if mode == ModeLearn {
		return snapshot.LearnProgress
	}
	return snapshot.FlashcardProgress
}

// InitProgress enters a study session for the deck: a fresh progress record
// is created from cardIDs (the caller supplies a pre-shuffled order) unless
// an in-progress session already exists, in which case this is a no-op and
// the clock does not advance. Re-entering a completed session resets it.
func (s *DeckStore) InitProgress(mode StudyMode, deckID string, cardIDs []string) {
	s.mutate("init_progress", func(snapshot *domain.Snapshot) bool {
		progress, created := study.Init(progressMap(snapshot, mode)[deckID], cardIDs)
		if !created {
			return false
		}
		progressMap(snapshot, mode)[deckID] = progress
		return true
	})
}

// MarkCard records a review outcome for the card at the head of the queue.
// No-op (without a clock bump) when no progress record exists or the card
// is not currently in the remaining queue.
func (s *DeckStore) MarkCard(mode StudyMode, deckID, cardID string, outcome study.Outcome) {
	s.mutate("mark_card", func(snapshot *domain.Snapshot) bool {
		return study.Mark(progressMap(snapshot, mode)[deckID], cardID, outcome)
	})
}

// ContinueSession recycles the "again" cards into a new remaining queue.
// No-op when there is nothing to retry.
func (s *DeckStore) ContinueSession(mode StudyMode, deckID string) {
	s.mutate("continue_session", func(snapshot *domain.Snapshot) bool {
		return study.Continue(progressMap(snapshot, mode)[deckID])
	})
}

// ResetProgress force-restarts the session with a fresh ordering,
// regardless of current state. Used to restart after completion and for
// the destructive prompt-side switch.
func (s *DeckStore) ResetProgress(mode StudyMode, deckID string, cardIDs []string) {
	s.mutate("reset_progress", func(snapshot *domain.Snapshot) bool {
		progressMap(snapshot, mode)[deckID] = study.Reset(cardIDs)
		return true
	})
}

// Progress returns a copy of the deck's progress record for the mode, or
// nil when no session has been started.
func (s *DeckStore) Progress(mode StudyMode, deckID string) *domain.StudyProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return progressMap(s.snapshot, mode)[deckID].Clone()
}
