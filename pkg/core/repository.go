package core

import "context"

// Repository defines the contract for persisting the library state.
// Implementations exchange whole snapshots and must not retain them.
type Repository interface {
	// Load returns the persisted state. A missing store yields an empty
	// snapshot and no error. A store that exists but cannot be read yields an
	// empty snapshot and an error wrapping ErrPersistence.
	Load(ctx context.Context) (Snapshot, error)

	// Save replaces the persisted state with s. A failed save must leave the
	// previously committed state intact.
	Save(ctx context.Context, s Snapshot) error
}

// Watchable defines an interface for repositories that can report changes
// made to the underlying store by other processes.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}
