package cloudsync

import (
	"context"
	"errors"
	"time"

	"github.com/phrazzld/kuizlet/internal/domain"
)

// ErrDocumentNotFound is returned by RemoteStore.ReadOne when no document
// exists for the user yet.
var ErrDocumentNotFound = errors.New("remote document not found")

// RemoteDocument is the per-user record held by the remote store: the full
// snapshot plus the server-side timestamp recorded at upsert time. Conflict
// comparison uses the logical clock inside State; UpdatedAt is metadata.
type RemoteDocument struct {
	State     *domain.Snapshot
	UpdatedAt time.Time
}

// RemoteStore defines the remote key-value document store, addressable by
// user id.
type RemoteStore interface {
	// ReadOne fetches the document for the user.
	// Returns ErrDocumentNotFound when none exists.
	ReadOne(ctx context.Context, userID string) (*RemoteDocument, error)

	// Upsert replaces the user's document with the given snapshot,
	// overwriting any existing document.
	Upsert(ctx context.Context, userID string, snapshot *domain.Snapshot) error
}
