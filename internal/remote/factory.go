package remote

import (
	"context"
	"fmt"

	"github.com/bassista/go_storefront/internal/config"
)

// NewFromConfig creates the Store selected by cfg.Kind.
// It returns ErrNotConfigured for the "none" kind so callers can run cache-only.
func NewFromConfig(ctx context.Context, cfg config.RemoteConfig) (Store, error) {
	switch cfg.Kind {
	case config.RemoteKindMemory:
		return NewMemoryStore(), nil
	case config.RemoteKindMongo:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		store, err := NewMongoStore(connectCtx, cfg.URI, cfg.Database)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.RemoteKindNone, "":
		return nil, ErrNotConfigured
	default:
		return nil, fmt.Errorf("unknown remote kind: %s (supported: %s, %s, %s)", cfg.Kind, config.RemoteKindMongo, config.RemoteKindMemory, config.RemoteKindNone)
	}
}
