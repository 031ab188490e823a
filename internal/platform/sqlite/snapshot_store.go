package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/kuizlet/internal/domain"
	"github.com/phrazzld/kuizlet/internal/store"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// schemaVersion tags the persisted record. Readers that encounter a higher
// version than they understand refuse to load rather than misinterpret it.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS app_state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    schema_version INTEGER NOT NULL,
    state TEXT NOT NULL,
    saved_at DATETIME NOT NULL
);
`

// SnapshotStore implements store.SnapshotStore on a SQLite database.
type SnapshotStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure SnapshotStore implements store.SnapshotStore.
var _ store.SnapshotStore = (*SnapshotStore)(nil)

// Open creates the database connection and ensures the schema exists.
// The dsn is a file path (":memory:" works for tests).
func Open(dsn string, logger *slog.Logger) (*SnapshotStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SnapshotStore{
		db:     db,
		logger: logger.With(slog.String("component", "snapshot_store")),
	}, nil
}

// Close closes the database connection.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// Load reads the persisted snapshot. Returns store.ErrNoSnapshot when
// nothing has been saved yet.
func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	var (
		version int
		state   string
	)
	row := s.db.QueryRowContext(ctx, `
		SELECT schema_version, state
		FROM app_state WHERE id = 1
	`)
	if err := row.Scan(&version, &state); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoSnapshot
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if version > schemaVersion {
		return nil, fmt.Errorf("snapshot schema version %d is newer than supported version %d", version, schemaVersion)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal([]byte(state), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	snapshot.Normalize()
	return &snapshot, nil
}

// Save replaces the persisted snapshot.
func (s *SnapshotStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	state, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO app_state (id, schema_version, state, saved_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			schema_version = excluded.schema_version,
			state = excluded.state,
			saved_at = excluded.saved_at
	`, schemaVersion, string(state), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}
