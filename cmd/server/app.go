package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/kuizlet/internal/cloudsync"
	"github.com/phrazzld/kuizlet/internal/config"
	"github.com/phrazzld/kuizlet/internal/events"
	"github.com/phrazzld/kuizlet/internal/platform/postgres"
	"github.com/phrazzld/kuizlet/internal/platform/sqlite"
	"github.com/phrazzld/kuizlet/internal/service/auth"
	"github.com/phrazzld/kuizlet/internal/store"
)

// application holds the composed dependencies for the server.
type application struct {
	config *config.Config
	logger *slog.Logger

	snapshotStore *sqlite.SnapshotStore
	deckStore     *store.DeckStore
	coordinator   *cloudsync.Coordinator
	authProvider  auth.Provider // nil when auth is not configured
	db            *sql.DB       // nil when sync is not configured
}

// newApplication wires the full dependency graph: local snapshot storage,
// the deck store with its event emitter, the optional remote store plus
// sync coordinator, and the optional identity provider. Sign-in and
// sign-out events from the provider drive the coordinator's pull/pause
// lifecycle.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	snapshotStore, err := sqlite.Open(cfg.Storage.SQLitePath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}
	app.snapshotStore = snapshotStore

	emitter := events.NewInMemoryEmitter(logger)
	deckStore, err := store.New(ctx, snapshotStore, logger, store.WithEmitter(emitter))
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize deck store: %w", err)
	}
	app.deckStore = deckStore

	var remote cloudsync.RemoteStore
	if cfg.SyncEnabled() {
		db, err := postgres.Connect(ctx, cfg.Sync.DatabaseURL, logger)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to connect to sync database: %w", err)
		}
		app.db = db
		if err := postgres.Migrate(db); err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to migrate sync database: %w", err)
		}
		remote = postgres.NewUserStateStore(db, logger)
	}

	app.coordinator = cloudsync.New(deckStore, remote, logger,
		cloudsync.WithDebounce(time.Duration(cfg.Sync.DebounceMS)*time.Millisecond))
	emitter.RegisterHandler(app.coordinator)

	if cfg.AuthEnabled() {
		verifier, err := auth.NewTokenVerifier(cfg.Auth.JWTSecret)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to build token verifier: %w", err)
		}
		provider := auth.NewHTTPProvider(cfg.Auth.IssuerURL, verifier, logger)
		provider.Subscribe(func(event auth.Event, session *auth.Session) {
			switch event {
			case auth.EventSignedIn:
				app.coordinator.HandleSignIn(context.Background(), session.UserID)
			case auth.EventSignedOut:
				app.coordinator.HandleSignOut()
			}
		})
		app.authProvider = provider
	}

	return app, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases the application's resources in reverse order of
// acquisition. Safe to call with a partially built application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close sync database", "error", err)
		}
	}
	if app.snapshotStore != nil {
		if err := app.snapshotStore.Close(); err != nil {
			app.logger.Error("Failed to close local storage", "error", err)
		}
	}
}
