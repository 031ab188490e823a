package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/kuizlet/internal/api/shared"
	"github.com/phrazzld/kuizlet/internal/importer"
	"github.com/phrazzld/kuizlet/internal/store"
)

// CreateDeckRequest represents the request body for creating a new deck.
// A blank title is allowed; the store falls back to the default title.
type CreateDeckRequest struct {
	Title string `json:"title"`
}

// UpdateDeckRequest represents the request body for renaming a deck.
type UpdateDeckRequest struct {
	Title string `json:"title" validate:"required"`
}

// ImportDeckRequest represents the request body for creating a deck from
// CSV text.
type ImportDeckRequest struct {
	Title string `json:"title"`
	CSV   string `json:"csv" validate:"required"`
}

// DeckHandler handles deck-related HTTP requests
type DeckHandler struct {
	store     *store.DeckStore
	validator *validator.Validate
}

// NewDeckHandler creates a new DeckHandler
func NewDeckHandler(deckStore *store.DeckStore) *DeckHandler {
	return &DeckHandler{
		store:     deckStore,
		validator: validator.New(),
	}
}

// ListDecks handles GET /api/decks requests
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.store.Decks())
}

// CreateDeck handles POST /api/decks requests
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req CreateDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	deck := h.store.CreateDeck(req.Title)
	shared.RespondWithJSON(w, r, http.StatusCreated, deck)
}

// GetDeck handles GET /api/decks/{deckID} requests
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := h.store.GetDeckByID(chi.URLParam(r, "deckID"))
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// UpdateDeck handles PATCH /api/decks/{deckID} requests. The title is
// stored verbatim (no trimming), matching the in-place rename behavior of
// the deck editor.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	var req UpdateDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	deckID := chi.URLParam(r, "deckID")
	h.store.UpdateDeckTitle(deckID, req.Title)

	deck, err := h.store.GetDeckByID(deckID)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// DeleteDeck handles DELETE /api/decks/{deckID} requests. Removal of an
// unknown deck is a silent no-op, so this always succeeds.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveDeck(chi.URLParam(r, "deckID"))
	w.WriteHeader(http.StatusNoContent)
}

// ImportDeck handles POST /api/decks/import requests: parses the CSV text
// and creates a new deck holding the imported cards. The store is left
// unmodified when no rows are importable.
func (h *DeckHandler) ImportDeck(w http.ResponseWriter, r *http.Request) {
	var req ImportDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	cards, err := importer.ImportCards(strings.NewReader(req.CSV))
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	deck := h.store.CreateDeck(req.Title)
	h.store.AddCards(deck.ID, cards)

	created, err := h.store.GetDeckByID(deck.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to import deck", err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, created)
}

// ExportDeck handles GET /api/decks/{deckID}/export requests, rendering the
// deck as downloadable CSV.
func (h *DeckHandler) ExportDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := h.store.GetDeckByID(chi.URLParam(r, "deckID"))
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+deck.Title+`.csv"`)
	if err := importer.ExportCards(w, deck.Cards); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to export deck", err)
	}
}
