package store

import "errors"

// Common store errors.
var (
	// ErrDeckNotFound is returned by lookups for a deck id that does not
	// exist. Mutations never return it: updates and removals against
	// unknown ids are silent no-ops by contract.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrNoSnapshot is returned by a SnapshotStore when no snapshot has
	// been persisted yet. The deck store starts from an empty snapshot in
	// that case.
	ErrNoSnapshot = errors.New("no snapshot stored")
)
