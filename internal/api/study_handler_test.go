package api_test

import (
	"net/http"
	"testing"

	"github.com/phrazzld/kuizlet/internal/api"
	"github.com/phrazzld/kuizlet/internal/domain"
	"github.com/phrazzld/kuizlet/internal/store"
	"github.com/phrazzld/kuizlet/internal/study"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedDeck creates a deck with the given cards and returns it re-read from
// the store.
func seedDeck(t *testing.T, deckStore *store.DeckStore, title string, cards ...domain.Card) domain.Deck {
	t.Helper()
	deck := deckStore.CreateDeck(title)
	if len(cards) > 0 {
		deckStore.AddCards(deck.ID, cards)
	}
	seeded, err := deckStore.GetDeckByID(deck.ID)
	require.NoError(t, err)
	return seeded
}

func TestInitFlashcardSession(t *testing.T) {
	t.Parallel()

	deckStore := newTestStore(t)
	router := newTestRouter(t, deckStore, nil, nil)
	deck := seedDeck(t, deckStore, "Vocab", domain.NewCard("hola", "hello"))

	rec := doJSON(t, router, http.MethodPost, "/api/decks/"+deck.ID+"/study/flashcard/init", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var session api.SessionResponse
	decodeBody(t, rec, &session)
	assert.Equal(t, study.SessionActive, session.State)
	require.NotNil(t, session.CurrentCard)
	assert.Equal(t, "hola", session.CurrentCard.Term)
	require.NotNil(t, session.Progress)
	assert.Len(t, session.Progress.RemainingIDs, 1)
}

func TestInitSessionUnknownMode(t *testing.T) {
	t.Parallel()

	deckStore := newTestStore(t)
	router := newTestRouter(t, deckStore, nil, nil)
	deck := seedDeck(t, deckStore, "Vocab", domain.NewCard("hola", "hello"))

	rec := doJSON(t, router, http.MethodPost, "/api/decks/"+deck.ID+"/study/cram/init", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInitSessionUnknownDeck(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, newTestStore(t), nil, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/decks/no-such-deck/study/flashcard/init", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarkCardAdvancesQueue(t *testing.T) {
	t.Parallel()

	deckStore := newTestStore(t)
	router := newTestRouter(t, deckStore, nil, nil)
	first := domain.NewCard("uno", "one")
	second := domain.NewCard("dos", "two")
	deck := seedDeck(t, deckStore, "Numbers", first, second)

	// Seed the session directly so the queue order is deterministic.
	deckStore.InitProgress(store.ModeFlashcard, deck.ID, []string{first.ID, second.ID})

	rec := doJSON(t, router, http.MethodPost, "/api/decks/"+deck.ID+"/study/flashcard/mark", map[string]string{
		"cardId":  first.ID,
		"outcome": "got",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var session api.SessionResponse
	decodeBody(t, rec, &session)
	assert.Equal(t, study.SessionActive, session.State)
	require.NotNil(t, session.CurrentCard)
	assert.Equal(t, second.ID, session.CurrentCard.ID)
	assert.Equal(t, []string{first.ID}, session.Progress.GotIDs)
}

func TestMarkCardInvalidOutcome(t *testing.T) {
	t.Parallel()

	deckStore := newTestStore(t)
	router := newTestRouter(t, deckStore, nil, nil)
	card := domain.NewCard("uno", "one")
	deck := seedDeck(t, deckStore, "Numbers", card)
	deckStore.InitProgress(store.ModeFlashcard, deck.ID, []string{card.ID})

	rec := doJSON(t, router, http.MethodPost, "/api/decks/"+deck.ID+"/study/flashcard/mark", map[string]string{
		"cardId":  card.ID,
		"outcome": "maybe",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRetryPassFlow(t *testing.T) {
	t.Parallel()

	deckStore := newTestStore(t)
	router := newTestRouter(t, deckStore, nil, nil)
	first := domain.NewCard("uno", "one")
	second := domain.NewCard("dos", "two")
	deck := seedDeck(t, deckStore, "Numbers", first, second)
	deckStore.InitProgress(store.ModeFlashcard, deck.ID, []string{first.ID, second.ID})

	markURL := "/api/decks/" + deck.ID + "/study/flashcard/mark"
	doJSON(t, router, http.MethodPost, markURL, map[string]string{"cardId": first.ID, "outcome": "again"})
	rec := doJSON(t, router, http.MethodPost, markURL, map[string]string{"cardId": second.ID, "outcome": "got"})
	require.Equal(t, http.StatusOK, rec.Code)

	var session api.SessionResponse
	decodeBody(t, rec, &session)
	assert.Equal(t, study.SessionRetryPending, session.State)
	assert.Nil(t, session.CurrentCard)

	// Continue recycles the "again" cards into a new queue.
	rec = doJSON(t, router, http.MethodPost, "/api/decks/"+deck.ID+"/study/flashcard/continue", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &session)
	assert.Equal(t, study.SessionActive, session.State)
	require.NotNil(t, session.CurrentCard)
	assert.Equal(t, first.ID, session.CurrentCard.ID)
	assert.Empty(t, session.Progress.AgainIDs)

	rec = doJSON(t, router, http.MethodPost, markURL, map[string]string{"cardId": first.ID, "outcome": "got"})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &session)
	assert.Equal(t, study.SessionComplete, session.State)
	assert.Nil(t, session.CurrentCard)
}

func TestResetSessionRestartsCompletedSession(t *testing.T) {
	t.Parallel()

	deckStore := newTestStore(t)
	router := newTestRouter(t, deckStore, nil, nil)
	card := domain.NewCard("uno", "one")
	deck := seedDeck(t, deckStore, "Numbers", card)
	deckStore.InitProgress(store.ModeFlashcard, deck.ID, []string{card.ID})
	deckStore.MarkCard(store.ModeFlashcard, deck.ID, card.ID, study.OutcomeGot)

	rec := doJSON(t, router, http.MethodPost, "/api/decks/"+deck.ID+"/study/flashcard/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var session api.SessionResponse
	decodeBody(t, rec, &session)
	assert.Equal(t, study.SessionActive, session.State)
	require.NotNil(t, session.CurrentCard)
	assert.Empty(t, session.Progress.GotIDs)
}

func TestGetSessionWithoutInitIsComplete(t *testing.T) {
	t.Parallel()

	deckStore := newTestStore(t)
	router := newTestRouter(t, deckStore, nil, nil)
	deck := seedDeck(t, deckStore, "Vocab", domain.NewCard("hola", "hello"))

	rec := doJSON(t, router, http.MethodGet, "/api/decks/"+deck.ID+"/study/learn", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var session api.SessionResponse
	decodeBody(t, rec, &session)
	assert.Equal(t, study.SessionComplete, session.State)
	assert.Nil(t, session.CurrentCard)
	assert.Nil(t, session.Progress)
}

func TestFlashcardAndLearnProgressAreIndependent(t *testing.T) {
	t.Parallel()

	deckStore := newTestStore(t)
	router := newTestRouter(t, deckStore, nil, nil)
	card := domain.NewCard("uno", "one")
	deck := seedDeck(t, deckStore, "Numbers", card)
	deckStore.InitProgress(store.ModeFlashcard, deck.ID, []string{card.ID})
	deckStore.MarkCard(store.ModeFlashcard, deck.ID, card.ID, study.OutcomeGot)

	rec := doJSON(t, router, http.MethodGet, "/api/decks/"+deck.ID+"/study/learn", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var session api.SessionResponse
	decodeBody(t, rec, &session)
	assert.Nil(t, session.Progress)
}
