package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/kuizlet/internal/api"
	"github.com/phrazzld/kuizlet/internal/cloudsync"
	"github.com/phrazzld/kuizlet/internal/service/auth"
	"github.com/phrazzld/kuizlet/internal/store"
	"github.com/stretchr/testify/require"
)

// newTestStore creates an unpersisted DeckStore for handler tests.
func newTestStore(t *testing.T) *store.DeckStore {
	t.Helper()
	s, err := store.New(context.Background(), nil, nil)
	require.NoError(t, err)
	return s
}

// newTestRouter mounts the full API surface over the given dependencies.
// A nil coordinator gets an offline one; a nil provider leaves auth
// unconfigured, matching the local-only deployment.
func newTestRouter(t *testing.T, deckStore *store.DeckStore, coordinator *cloudsync.Coordinator, provider auth.Provider) http.Handler {
	t.Helper()
	if coordinator == nil {
		coordinator = cloudsync.New(deckStore, nil, nil)
	}

	deckHandler := api.NewDeckHandler(deckStore)
	cardHandler := api.NewCardHandler(deckStore)
	studyHandler := api.NewStudyHandler(deckStore)
	quizHandler := api.NewQuizHandler(deckStore)
	syncHandler := api.NewSyncHandler(coordinator)
	authHandler := api.NewAuthHandler(provider)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/decks", deckHandler.ListDecks)
		r.Post("/decks", deckHandler.CreateDeck)
		r.Post("/decks/import", deckHandler.ImportDeck)
		r.Route("/decks/{deckID}", func(r chi.Router) {
			r.Get("/", deckHandler.GetDeck)
			r.Patch("/", deckHandler.UpdateDeck)
			r.Delete("/", deckHandler.DeleteDeck)
			r.Get("/export", deckHandler.ExportDeck)
			r.Post("/cards", cardHandler.AddCards)
			r.Patch("/cards/{cardID}", cardHandler.UpdateCard)
			r.Delete("/cards/{cardID}", cardHandler.DeleteCard)
			r.Route("/study/{mode}", func(r chi.Router) {
				r.Get("/", studyHandler.GetSession)
				r.Post("/init", studyHandler.InitSession)
				r.Post("/mark", studyHandler.MarkCard)
				r.Post("/continue", studyHandler.ContinueSession)
				r.Post("/reset", studyHandler.ResetSession)
			})
			r.Get("/learn/question", quizHandler.LearnQuestion)
			r.Post("/test", quizHandler.GenerateTest)
			r.Post("/test/grade", quizHandler.GradeTest)
		})
		r.Get("/sync/status", syncHandler.Status)
		r.Post("/sync/now", syncHandler.SyncNow)
		r.Post("/auth/magic-link", authHandler.RequestMagicLink)
		r.Post("/auth/verify", authHandler.VerifyCode)
		r.Post("/auth/signout", authHandler.SignOut)
		r.Get("/auth/session", authHandler.GetSession)
	})
	return r
}

// doJSON performs a request with an optional JSON body and returns the
// recorded response.
func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals the recorded JSON response into out.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
