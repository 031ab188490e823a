package domain

// StudyProgress is the per-deck, per-mode queue state driving a study
// session. RemainingIds is a FIFO queue of card ids still to be shown;
// AgainIds and GotIds collect the outcomes of the current pass.
//
// Invariant: a live card id appears in at most one of the three lists.
// Ids of removed cards must be pruned from all three (see PruneCard).
type StudyProgress struct {
	RemainingIDs []string `json:"remainingIds"`
	AgainIDs     []string `json:"againIds"`
	GotIDs       []string `json:"gotIds"`
}

// NewStudyProgress creates a progress record with the given remaining queue
// (the caller supplies a pre-shuffled order) and empty outcome lists.
func NewStudyProgress(remainingIDs []string) *StudyProgress {
	return &StudyProgress{
		RemainingIDs: append([]string{}, remainingIDs...),
		AgainIDs:     []string{},
		GotIDs:       []string{},
	}
}

// Clone returns a deep copy of the progress record.
func (p *StudyProgress) Clone() *StudyProgress {
	if p == nil {
		return nil
	}
	return &StudyProgress{
		RemainingIDs: append([]string{}, p.RemainingIDs...),
		AgainIDs:     append([]string{}, p.AgainIDs...),
		GotIDs:       append([]string{}, p.GotIDs...),
	}
}

// PruneCard removes the given card id from all three lists. Used when a
// card is deleted from its deck so stale ids never linger in session state.
func (p *StudyProgress) PruneCard(cardID string) {
	p.RemainingIDs = removeID(p.RemainingIDs, cardID)
	p.AgainIDs = removeID(p.AgainIDs, cardID)
	p.GotIDs = removeID(p.GotIDs, cardID)
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
