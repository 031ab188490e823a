package store

import (
	"context"

	"github.com/phrazzld/kuizlet/internal/domain"
)

// SnapshotStore defines the interface for local durable persistence of the
// whole store snapshot: a single named record, read once at startup and
// replaced after every mutation.
type SnapshotStore interface {
	// Load reads the persisted snapshot.
	// Returns ErrNoSnapshot when nothing has been saved yet.
	Load(ctx context.Context) (*domain.Snapshot, error)

	// Save replaces the persisted snapshot with the given one.
	Save(ctx context.Context, snapshot *domain.Snapshot) error
}
