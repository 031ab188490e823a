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

func TestLearnQuestionForCurrentCard(t *testing.T) {
	t.Parallel()

	deckStore := newTestStore(t)
	router := newTestRouter(t, deckStore, nil, nil)
	current := domain.NewCard("hola", "hello")
	other := domain.NewCard("mundo", "world")
	deck := seedDeck(t, deckStore, "Vocab", current, other)
	deckStore.InitProgress(store.ModeLearn, deck.ID, []string{current.ID, other.ID})

	rec := doJSON(t, router, http.MethodGet, "/api/decks/"+deck.ID+"/learn/question", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The default prompt side is the definition, with terms as options.
	var question api.LearnQuestionResponse
	decodeBody(t, rec, &question)
	assert.Equal(t, current.ID, question.CardID)
	assert.Equal(t, "hello", question.Prompt)
	assert.Contains(t, question.Options, "hola")
	assert.LessOrEqual(t, len(question.Options), 4)
}

func TestLearnQuestionFlippedPromptSide(t *testing.T) {
	t.Parallel()

	deckStore := newTestStore(t)
	router := newTestRouter(t, deckStore, nil, nil)
	current := domain.NewCard("hola", "hello")
	deck := seedDeck(t, deckStore, "Vocab", current)
	deckStore.InitProgress(store.ModeLearn, deck.ID, []string{current.ID})

	rec := doJSON(t, router, http.MethodGet, "/api/decks/"+deck.ID+"/learn/question?promptSide=term", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var question api.LearnQuestionResponse
	decodeBody(t, rec, &question)
	assert.Equal(t, "hola", question.Prompt)
	assert.Contains(t, question.Options, "hello")
}

func TestLearnQuestionWithoutSession(t *testing.T) {
	t.Parallel()

	deckStore := newTestStore(t)
	router := newTestRouter(t, deckStore, nil, nil)
	deck := seedDeck(t, deckStore, "Vocab", domain.NewCard("hola", "hello"))

	rec := doJSON(t, router, http.MethodGet, "/api/decks/"+deck.ID+"/learn/question", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGenerateTestSplitsQuestionTypes(t *testing.T) {
	t.Parallel()

	deckStore := newTestStore(t)
	router := newTestRouter(t, deckStore, nil, nil)
	deck := seedDeck(t, deckStore, "Vocab",
		domain.NewCard("uno", "one"),
		domain.NewCard("dos", "two"),
		domain.NewCard("tres", "three"),
		domain.NewCard("cuatro", "four"),
		domain.NewCard("cinco", "five"),
	)

	rec := doJSON(t, router, http.MethodPost, "/api/decks/"+deck.ID+"/test", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var questions []study.Question
	decodeBody(t, rec, &questions)
	require.Len(t, questions, 5)

	var mc, typed int
	for _, q := range questions {
		switch q.Type {
		case study.QuestionMultipleChoice:
			mc++
			assert.NotEmpty(t, q.Options)
			assert.Contains(t, q.Options, q.Answer)
		case study.QuestionTyped:
			typed++
			assert.Empty(t, q.Options)
		default:
			t.Fatalf("unexpected question type %q", q.Type)
		}
		assert.NotEmpty(t, q.ID)
		assert.NotEmpty(t, q.Prompt)
	}
	// ceil(5/2) multiple-choice, the rest typed.
	assert.Equal(t, 3, mc)
	assert.Equal(t, 2, typed)
}

func TestGenerateTestEmptyDeck(t *testing.T) {
	t.Parallel()

	deckStore := newTestStore(t)
	router := newTestRouter(t, deckStore, nil, nil)
	deck := seedDeck(t, deckStore, "Empty")

	rec := doJSON(t, router, http.MethodPost, "/api/decks/"+deck.ID+"/test", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGradeTestScoresAnswers(t *testing.T) {
	t.Parallel()

	deckStore := newTestStore(t)
	router := newTestRouter(t, deckStore, nil, nil)
	deck := seedDeck(t, deckStore, "Vocab")

	questions := []study.Question{
		{ID: "q1", CardID: "c1", Type: study.QuestionTyped, Prompt: "one", Answer: "uno"},
		{ID: "q2", CardID: "c2", Type: study.QuestionTyped, Prompt: "two", Answer: "dos"},
		{ID: "q3", CardID: "c3", Type: study.QuestionTyped, Prompt: "three", Answer: "tres"},
		{ID: "q4", CardID: "c4", Type: study.QuestionTyped, Prompt: "four", Answer: "cuatro"},
	}
	// q1 matches case-insensitively, q2 after trimming, q3 is wrong and q4
	// is unanswered.
	answers := map[string]string{
		"q1": "UNO",
		"q2": "  dos  ",
		"q3": "quatro",
	}

	rec := doJSON(t, router, http.MethodPost, "/api/decks/"+deck.ID+"/test/grade", map[string]any{
		"questions": questions,
		"answers":   answers,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var score study.TestScore
	decodeBody(t, rec, &score)
	assert.Equal(t, 2, score.Correct)
	assert.Equal(t, 4, score.Total)
	assert.Equal(t, 50, score.Percentage)
}

func TestGradeTestRequiresQuestions(t *testing.T) {
	t.Parallel()

	deckStore := newTestStore(t)
	router := newTestRouter(t, deckStore, nil, nil)
	deck := seedDeck(t, deckStore, "Vocab")

	rec := doJSON(t, router, http.MethodPost, "/api/decks/"+deck.ID+"/test/grade", map[string]any{
		"questions": []any{},
		"answers":   map[string]string{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
