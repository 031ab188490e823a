package study

import "github.com/phrazzld/kuizlet/internal/domain"

// Outcome is the result of reviewing a single card.
type Outcome string

// Possible review outcomes.
const (
	OutcomeAgain Outcome = "again"
	OutcomeGot   Outcome = "got"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	return o == OutcomeAgain || o == OutcomeGot
}

// SessionState classifies a progress record.
type SessionState string

// Session states. A session is Active while cards remain in the queue,
// RetryPending once the queue is drained but "again" cards are waiting,
// and Complete when both are empty.
const (
	SessionActive       SessionState = "active"
	SessionRetryPending SessionState = "retry_pending"
	SessionComplete     SessionState = "complete"
)

// StateOf returns the session state for the given progress record.
// A nil record is treated as Complete (nothing to study).
func StateOf(p *domain.StudyProgress) SessionState {
	switch {
	case p == nil:
		return SessionComplete
	case len(p.RemainingIDs) > 0:
		return SessionActive
	case len(p.AgainIDs) > 0:
		return SessionRetryPending
	default:
		return SessionComplete
	}
}

// Init returns the progress record a session should start with.
//
// When existing is nil, or its remaining queue is empty, a fresh record is
// built from cardIDs (the caller supplies a pre-shuffled order) with empty
// outcome lists, so re-entering a completed session resets it, even if the
// old record still holds again/got data. When an in-progress session exists
// (non-empty remaining queue) the existing record is returned untouched.
// The second return value reports whether a new record was created.
func Init(existing *domain.StudyProgress, cardIDs []string) (*domain.StudyProgress, bool) {
	if existing != nil && len(existing.RemainingIDs) > 0 {
		return existing, false
	}
	return domain.NewStudyProgress(cardIDs), true
}

// Mark records the outcome for cardID: removes it from the remaining queue
// and appends it to the again or got list. Valid only while the card is a
// member of the remaining queue; marking a card twice, or marking against a
// nil record, is a no-op. Returns whether the record changed.
func Mark(p *domain.StudyProgress, cardID string, outcome Outcome) bool {
	if p == nil || !outcome.Valid() {
		return false
	}
	found := false
	for _, id := range p.RemainingIDs {
		if id == cardID {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	remaining := make([]string, 0, len(p.RemainingIDs)-1)
	for _, id := range p.RemainingIDs {
		if id != cardID {
			remaining = append(remaining, id)
		}
	}
	p.RemainingIDs = remaining
	if outcome == OutcomeAgain {
		p.AgainIDs = append(p.AgainIDs, cardID)
	} else {
		p.GotIDs = append(p.GotIDs, cardID)
	}
	return true
}

// Continue starts the retry pass: the again list becomes the new remaining
// queue (order preserved) and both outcome lists are cleared. No-op unless
// the session is retry-pending. Returns whether the record changed.
func Continue(p *domain.StudyProgress) bool {
	if p == nil || len(p.AgainIDs) == 0 {
		return false
	}
	p.RemainingIDs = append([]string{}, p.AgainIDs...)
	p.AgainIDs = []string{}
	p.GotIDs = []string{}
	return true
}

// Reset unconditionally replaces the session with a fresh queue. Used to
// restart after completion and for the destructive prompt-side switch.
func Reset(cardIDs []string) *domain.StudyProgress {
	return domain.NewStudyProgress(cardIDs)
}

// CurrentCardID returns the card the session should present next: the head
// of the remaining queue. ok is false when the session is not active.
func CurrentCardID(p *domain.StudyProgress) (string, bool) {
	if p == nil || len(p.RemainingIDs) == 0 {
		return "", false
	}
	return p.RemainingIDs[0], true
}
