package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/kuizlet/internal/api"
	apiMiddleware "github.com/phrazzld/kuizlet/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	deckHandler := api.NewDeckHandler(app.deckStore)
	cardHandler := api.NewCardHandler(app.deckStore)
	studyHandler := api.NewStudyHandler(app.deckStore)
	quizHandler := api.NewQuizHandler(app.deckStore)
	syncHandler := api.NewSyncHandler(app.coordinator)
	authHandler := api.NewAuthHandler(app.authProvider)

	r.Route("/api", func(r chi.Router) {
		// Deck endpoints
		r.Get("/decks", deckHandler.ListDecks)
		r.Post("/decks", deckHandler.CreateDeck)
		r.Post("/decks/import", deckHandler.ImportDeck)

		r.Route("/decks/{deckID}", func(r chi.Router) {
			r.Get("/", deckHandler.GetDeck)
			r.Patch("/", deckHandler.UpdateDeck)
			r.Delete("/", deckHandler.DeleteDeck)
			r.Get("/export", deckHandler.ExportDeck)

			// Card endpoints
			r.Post("/cards", cardHandler.AddCards)
			r.Patch("/cards/{cardID}", cardHandler.UpdateCard)
			r.Delete("/cards/{cardID}", cardHandler.DeleteCard)

			// Study-session endpoints (flashcard and learn modes)
			r.Route("/study/{mode}", func(r chi.Router) {
				r.Get("/", studyHandler.GetSession)
				r.Post("/init", studyHandler.InitSession)
				r.Post("/mark", studyHandler.MarkCard)
				r.Post("/continue", studyHandler.ContinueSession)
				r.Post("/reset", studyHandler.ResetSession)
			})

			// Learn-question and practice-test endpoints
			r.Get("/learn/question", quizHandler.LearnQuestion)
			r.Post("/test", quizHandler.GenerateTest)
			r.Post("/test/grade", quizHandler.GradeTest)
		})

		// Sync endpoints
		r.Get("/sync/status", syncHandler.Status)
		r.Post("/sync/now", syncHandler.SyncNow)

		// Authentication endpoints
		r.Post("/auth/magic-link", authHandler.RequestMagicLink)
		r.Post("/auth/verify", authHandler.VerifyCode)
		r.Post("/auth/signout", authHandler.SignOut)
		r.Get("/auth/session", authHandler.GetSession)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
