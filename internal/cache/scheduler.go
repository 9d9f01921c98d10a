package cache

import (
	"context"
	"time"

	"github.com/bassista/go_storefront/internal/logger"
)

// StartSyncScheduler runs a goroutine that periodically pushes dirty collections to the remote store.
// On ctx.Done, it performs a final flush before returning.
// Returns a channel that is closed when the scheduler has completed shutdown.
func StartSyncScheduler(
	ctx context.Context,
	store DirtyTracker,
	reconciler Reconciler,
	interval time.Duration,
	finalFlushTimeout time.Duration,
) <-chan struct{} {
	done := make(chan struct{})
	logger.WithComponent("sync").Debugf("starting sync scheduler with interval: %v", interval)
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.WithComponent("sync").Debugf("sync scheduler received context cancellation, performing final flush")
				// The base context is already canceled; bound the final flush separately.
				flushCtx, cancel := context.WithTimeout(context.Background(), finalFlushTimeout)
				Flush(flushCtx, store, reconciler)
				cancel()
				logger.WithComponent("sync").Info("sync scheduler stopped after final flush")
				return
			case <-ticker.C:
				logger.WithComponent("sync").Tracef("sync scheduler tick, checking dirty collections")
				Flush(ctx, store, reconciler)
			}
		}
	}()
	return done
}

// Flush reconciles every dirty key. A successful Reconcile clears the key's flag
// while it still holds the collection lock. Flush returns the number of keys left dirty.
func Flush(ctx context.Context, store DirtyTracker, reconciler Reconciler) int {
	keys := store.DirtyKeys()
	if len(keys) == 0 {
		logger.WithComponent("sync").Tracef("cache is clean, skipping flush")
		return 0
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			logger.WithComponent("sync").Debugf("flush cancelled: %v", err)
			break
		}
		if err := reconciler.Reconcile(ctx, key); err != nil {
			logger.WithComponent("sync").Warnf("sync of %s failed: %v", key, err)
			continue
		}
		logger.WithComponent("sync").Infof("%s mirrored to remote store", key)
	}
	return len(store.DirtyKeys())
}
