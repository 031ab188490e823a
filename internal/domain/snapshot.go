package domain

// Snapshot is the whole persisted state of the application: every deck,
// both per-mode progress maps, and the logical clock used for sync conflict
// resolution. It is created once at startup, mutated through the store for
// the process lifetime, and replaced wholesale when a newer remote copy is
// pulled.
//
// UpdatedAt is a monotonically advancing logical timestamp in milliseconds
// since epoch. It is the sole conflict-resolution signal: the snapshot with
// the higher value wins.
type Snapshot struct {
	Decks             []Deck                    `json:"decks"`
	FlashcardProgress map[string]*StudyProgress `json:"flashcardProgress"`
	LearnProgress     map[string]*StudyProgress `json:"learnProgress"`
	UpdatedAt         int64                     `json:"updatedAt"`
}

// NewSnapshot returns an empty snapshot stamped with the given logical time.
func NewSnapshot(updatedAt int64) *Snapshot {
	return &Snapshot{
		Decks:             []Deck{},
		FlashcardProgress: map[string]*StudyProgress{},
		LearnProgress:     map[string]*StudyProgress{},
		UpdatedAt:         updatedAt,
	}
}

// Normalize replaces nil collections with empty ones. Remote documents and
// older local records may omit fields; after Normalize the snapshot is safe
// to mutate without nil-map checks.
func (s *Snapshot) Normalize() {
	if s.Decks == nil {
		s.Decks = []Deck{}
	}
	if s.FlashcardProgress == nil {
		s.FlashcardProgress = map[string]*StudyProgress{}
	}
	if s.LearnProgress == nil {
		s.LearnProgress = map[string]*StudyProgress{}
	}
}

// DeckByID returns a pointer into the snapshot's deck slice, or nil if the
// deck does not exist.
func (s *Snapshot) DeckByID(deckID string) *Deck {
	for i := range s.Decks {
		if s.Decks[i].ID == deckID {
			return &s.Decks[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the snapshot. The store hands clones to
// observers and to the persistence layer so no caller can mutate shared
// state behind the store's back.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Decks:             make([]Deck, len(s.Decks)),
		FlashcardProgress: make(map[string]*StudyProgress, len(s.FlashcardProgress)),
		LearnProgress:     make(map[string]*StudyProgress, len(s.LearnProgress)),
		UpdatedAt:         s.UpdatedAt,
	}
	for i := range s.Decks {
		out.Decks[i] = s.Decks[i].Clone()
	}
	for deckID, progress := range s.FlashcardProgress {
		out.FlashcardProgress[deckID] = progress.Clone()
	}
	for deckID, progress := range s.LearnProgress {
		out.LearnProgress[deckID] = progress.Clone()
	}
	return out
}
