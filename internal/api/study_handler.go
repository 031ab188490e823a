package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/kuizlet/internal/api/shared"
	"github.com/phrazzld/kuizlet/internal/domain"
	"github.com/phrazzld/kuizlet/internal/store"
	"github.com/phrazzld/kuizlet/internal/study"
)

// MarkCardRequest represents the request body for recording a review
// outcome.
type MarkCardRequest struct {
	CardID  string `json:"cardId"  validate:"required"`
	Outcome string `json:"outcome" validate:"required,oneof=again got"`
}

// SessionResponse is the full study-session view for one deck and mode:
// the progress record, its derived state, and the card at the head of the
// queue (absent when the session is not active).
type SessionResponse struct {
	State       study.SessionState    `json:"state"`
	CurrentCard *domain.Card          `json:"currentCard,omitempty"`
	Progress    *domain.StudyProgress `json:"progress,omitempty"`
}

// StudyHandler handles study-session HTTP requests for the flashcard and
// learn modes.
type StudyHandler struct {
	store     *store.DeckStore
	validator *validator.Validate
}

// NewStudyHandler creates a new StudyHandler
func NewStudyHandler(deckStore *store.DeckStore) *StudyHandler {
	return &StudyHandler{
		store:     deckStore,
		validator: validator.New(),
	}
}

// studyMode extracts and validates the {mode} URL parameter.
func studyMode(r *http.Request) (store.StudyMode, bool) {
	mode := store.StudyMode(chi.URLParam(r, "mode"))
	return mode, mode.Valid()
}

// InitSession handles POST /api/decks/{deckID}/study/{mode}/init requests.
// The card order is shuffled server-side before the session starts. When an
// in-progress session exists this is a no-op and the existing session is
// returned; re-entering a completed session resets it.
func (h *StudyHandler) InitSession(w http.ResponseWriter, r *http.Request) {
	mode, ok := studyMode(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown study mode")
		return
	}

	deckID := chi.URLParam(r, "deckID")
	deck, err := h.store.GetDeckByID(deckID)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	h.store.InitProgress(mode, deckID, study.Shuffle(deck.CardIDs()))
	h.respondSession(w, r, mode, deck)
}

// GetSession handles GET /api/decks/{deckID}/study/{mode} requests.
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	mode, ok := studyMode(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown study mode")
		return
	}

	deck, err := h.store.GetDeckByID(chi.URLParam(r, "deckID"))
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}
	h.respondSession(w, r, mode, deck)
}

// MarkCard handles POST /api/decks/{deckID}/study/{mode}/mark requests.
// Marking a card that is not at large in the remaining queue is a silent
// no-op; the response always reflects the session after the attempt.
func (h *StudyHandler) MarkCard(w http.ResponseWriter, r *http.Request) {
	mode, ok := studyMode(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown study mode")
		return
	}

	var req MarkCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	deckID := chi.URLParam(r, "deckID")
	deck, err := h.store.GetDeckByID(deckID)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	h.store.MarkCard(mode, deckID, req.CardID, study.Outcome(req.Outcome))
	h.respondSession(w, r, mode, deck)
}

// ContinueSession handles POST /api/decks/{deckID}/study/{mode}/continue
// requests: the "again" cards become the new queue.
func (h *StudyHandler) ContinueSession(w http.ResponseWriter, r *http.Request) {
	mode, ok := studyMode(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown study mode")
		return
	}

	deckID := chi.URLParam(r, "deckID")
	deck, err := h.store.GetDeckByID(deckID)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	h.store.ContinueSession(mode, deckID)
	h.respondSession(w, r, mode, deck)
}

// ResetSession handles POST /api/decks/{deckID}/study/{mode}/reset
// requests: a destructive restart with a fresh shuffled order. This backs
// both the restart-after-completion path and the prompt-side switch.
func (h *StudyHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	mode, ok := studyMode(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown study mode")
		return
	}

	deckID := chi.URLParam(r, "deckID")
	deck, err := h.store.GetDeckByID(deckID)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	h.store.ResetProgress(mode, deckID, study.Shuffle(deck.CardIDs()))
	h.respondSession(w, r, mode, deck)
}

// respondSession renders the current session for the deck and mode. A
// progress record referencing a card no longer in the deck yields a session
// without a current card rather than an error.
func (h *StudyHandler) respondSession(w http.ResponseWriter, r *http.Request, mode store.StudyMode, deck domain.Deck) {
	progress := h.store.Progress(mode, deck.ID)

	response := SessionResponse{
		State:    study.StateOf(progress),
		Progress: progress,
	}
	if cardID, ok := study.CurrentCardID(progress); ok {
		if card := deck.CardByID(cardID); card != nil {
			response.CurrentCard = card
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}
