package cache

import "context"

// DirtyTracker is the cache API needed by the sync scheduler.
type DirtyTracker interface {
	DirtyKeys() []string
}

// Reconciler pushes the cached collection stored under key to the remote store
// and clears its dirty flag on success.
type Reconciler interface {
	Reconcile(ctx context.Context, key string) error
}
