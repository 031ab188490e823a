package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/kuizlet/internal/cloudsync"
	"github.com/phrazzld/kuizlet/internal/domain"
)

// UserStateStore implements cloudsync.RemoteStore on a PostgreSQL database.
// Each user owns exactly one row holding their full snapshot as JSONB.
type UserStateStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure UserStateStore implements cloudsync.RemoteStore.
var _ cloudsync.RemoteStore = (*UserStateStore)(nil)

// NewUserStateStore creates a new PostgreSQL implementation of the remote
// store. It accepts a database connection that should be initialized and
// managed by the caller.
func NewUserStateStore(db *sql.DB, logger *slog.Logger) *UserStateStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_state_store")),
	}
}

// ReadOne implements cloudsync.RemoteStore.ReadOne.
func (s *UserStateStore) ReadOne(ctx context.Context, userID string) (*cloudsync.RemoteDocument, error) {
	var (
		state     []byte
		updatedAt time.Time
	)
	row := s.db.QueryRowContext(ctx, `
		SELECT state, updated_at
		FROM user_state
		WHERE user_id = $1
	`, userID)
	if err := row.Scan(&state, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cloudsync.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to read user state: %w", err)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(state, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode user state: %w", err)
	}
	snapshot.Normalize()

	return &cloudsync.RemoteDocument{
		State:     &snapshot,
		UpdatedAt: updatedAt,
	}, nil
}

// Upsert implements cloudsync.RemoteStore.Upsert. The snapshot replaces any
// existing document for the user wholesale.
func (s *UserStateStore) Upsert(ctx context.Context, userID string, snapshot *domain.Snapshot) error {
	state, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode user state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_state (user_id, state, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET
			state = excluded.state,
			updated_at = excluded.updated_at
	`, userID, state)
	if err != nil {
		return fmt.Errorf("failed to upsert user state: %w", err)
	}

	s.logger.Debug("upserted user state",
		"user_id", userID,
		"updated_at", snapshot.UpdatedAt)
	return nil
}
