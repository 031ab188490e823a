package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/kuizlet/internal/api/shared"
	"github.com/phrazzld/kuizlet/internal/domain"
	"github.com/phrazzld/kuizlet/internal/store"
)

// AddCardsRequest represents the request body for adding cards to a deck.
// Blank terms and definitions are allowed (the deck editor creates empty
// rows that are filled in afterwards).
type AddCardsRequest struct {
	Cards []NewCard `json:"cards" validate:"required,min=1"`
}

// NewCard is one card to add.
type NewCard struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// UpdateCardRequest represents the request body for a partial card update.
// Absent fields are left untouched.
type UpdateCardRequest struct {
	Term         *string `json:"term"`
	Definition   *string `json:"definition"`
	Status       *string `json:"status" validate:"omitempty,oneof=new learning mastered"`
	LastReviewed *int64  `json:"lastReviewed"`
}

// CardHandler handles card-related HTTP requests
type CardHandler struct {
	store     *store.DeckStore
	validator *validator.Validate
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(deckStore *store.DeckStore) *CardHandler {
	return &CardHandler{
		store:     deckStore,
		validator: validator.New(),
	}
}

// AddCards handles POST /api/decks/{deckID}/cards requests
func (h *CardHandler) AddCards(w http.ResponseWriter, r *http.Request) {
	var req AddCardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	deckID := chi.URLParam(r, "deckID")
	if _, err := h.store.GetDeckByID(deckID); err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	cards := make([]domain.Card, 0, len(req.Cards))
	for _, c := range req.Cards {
		cards = append(cards, domain.NewCard(c.Term, c.Definition))
	}
	h.store.AddCards(deckID, cards)

	shared.RespondWithJSON(w, r, http.StatusCreated, cards)
}

// UpdateCard handles PATCH /api/decks/{deckID}/cards/{cardID} requests
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	var req UpdateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	deckID := chi.URLParam(r, "deckID")
	cardID := chi.URLParam(r, "cardID")

	update := domain.CardUpdate{
		Term:         req.Term,
		Definition:   req.Definition,
		LastReviewed: req.LastReviewed,
	}
	if req.Status != nil {
		status := domain.CardStatus(*req.Status)
		update.Status = &status
	}
	h.store.UpdateCard(deckID, cardID, update)

	deck, err := h.store.GetDeckByID(deckID)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}
	card := deck.CardByID(cardID)
	if card == nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Card not found")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// DeleteCard handles DELETE /api/decks/{deckID}/cards/{cardID} requests.
// The card id is also pruned from the deck's progress records. Removal of
// an unknown card is a silent no-op.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveCard(chi.URLParam(r, "deckID"), chi.URLParam(r, "cardID"))
	w.WriteHeader(http.StatusNoContent)
}
