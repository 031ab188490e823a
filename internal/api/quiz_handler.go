package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/kuizlet/internal/api/shared"
	"github.com/phrazzld/kuizlet/internal/store"
	"github.com/phrazzld/kuizlet/internal/study"
)

// LearnQuestionResponse is the multiple-choice view of the current learn
// card: the prompt side plus the shuffled answer options.
type LearnQuestionResponse struct {
	CardID  string   `json:"cardId"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// GradeTestRequest represents the request body for grading a practice
// test: the questions as generated, plus the recorded answers keyed by
// question id.
type GradeTestRequest struct {
	Questions []study.Question  `json:"questions" validate:"required,min=1"`
	Answers   map[string]string `json:"answers"`
}

// QuizHandler handles learn-question and practice-test HTTP requests.
type QuizHandler struct {
	store     *store.DeckStore
	validator *validator.Validate
}

// NewQuizHandler creates a new QuizHandler
func NewQuizHandler(deckStore *store.DeckStore) *QuizHandler {
	return &QuizHandler{
		store:     deckStore,
		validator: validator.New(),
	}
}

// LearnQuestion handles GET /api/decks/{deckID}/learn/question requests.
// The options are regenerated on every call for the card at the head of
// the learn queue. The default prompt side is the definition, with terms
// as options; `?promptSide=term` flips it.
func (h *QuizHandler) LearnQuestion(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")
	deck, err := h.store.GetDeckByID(deckID)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	progress := h.store.Progress(store.ModeLearn, deckID)
	cardID, ok := study.CurrentCardID(progress)
	if !ok {
		shared.RespondWithError(w, r, http.StatusConflict, "No active learn session")
		return
	}
	card := deck.CardByID(cardID)
	if card == nil {
		// Progress references a card no longer in the deck; surface it the
		// way a defensive display layer would.
		shared.RespondWithError(w, r, http.StatusNotFound, "Card not found")
		return
	}

	promptIsTerm := r.URL.Query().Get("promptSide") == "term"
	response := LearnQuestionResponse{
		CardID:  card.ID,
		Options: study.LearnOptions(deck.Cards, *card, promptIsTerm),
	}
	if promptIsTerm {
		response.Prompt = card.Term
	} else {
		response.Prompt = card.Definition
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GenerateTest handles POST /api/decks/{deckID}/test requests: a freshly
// shuffled practice test over the whole deck, half multiple-choice and
// half typed-answer. Tests are stateless; the client holds the questions
// and sends them back for grading.
func (h *QuizHandler) GenerateTest(w http.ResponseWriter, r *http.Request) {
	deck, err := h.store.GetDeckByID(chi.URLParam(r, "deckID"))
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}
	if len(deck.Cards) == 0 {
		shared.RespondWithError(w, r, http.StatusConflict, "Deck has no cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, study.NewPracticeTest(deck.Cards))
}

// GradeTest handles POST /api/decks/{deckID}/test/grade requests. Answers
// match expected terms case-insensitively after trimming; unanswered
// questions count as incorrect.
func (h *QuizHandler) GradeTest(w http.ResponseWriter, r *http.Request) {
	var req GradeTestRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, study.GradeTest(req.Questions, req.Answers))
}
