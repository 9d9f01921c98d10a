package facade

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bassista/go_storefront/internal/cache"
	"github.com/bassista/go_storefront/internal/logger"
	"github.com/bassista/go_storefront/internal/remote"
	"github.com/bassista/go_storefront/internal/repository"
)

// SettingsRepo serves the singleton settings record.
type SettingsRepo struct {
	cache    *cache.Store
	remote   remote.Store
	defaults DefaultsSource
	timeout  time.Duration
	validate func(s *repository.Settings) error

	mu sync.Mutex
}

// Get resolves settings from the cache, then the remote document, then the defaults.
func (r *SettingsRepo) Get(ctx context.Context) (repository.Settings, error) {
	s, ok, err := r.loadCache()
	if err != nil || ok {
		return s, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(ctx)
}

// Save merges patch into the current settings. Only the patched fields are sent to the remote store.
func (r *SettingsRepo) Save(ctx context.Context, patch repository.SettingsPatch) (repository.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.getLocked(ctx)
	if err != nil {
		return repository.Settings{}, err
	}
	merged := current.Apply(patch)
	if r.validate != nil {
		if err := r.validate(&merged); err != nil {
			return repository.Settings{}, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	if err := r.cache.Save(cache.KeySettings, merged); err != nil {
		return repository.Settings{}, fmt.Errorf("write settings cache: %w", err)
	}

	if r.remote != nil && !patch.IsEmpty() {
		rctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		if err := r.remote.Merge(rctx, remote.CollectionSettings, repository.SettingsID, patch.Fields()); err != nil {
			logger.WithComponent("facade").Warnf("remote settings merge failed, will retry on sync: %v", err)
			r.cache.MarkDirty(cache.KeySettings)
		}
	}
	return merged, nil
}

// Reconcile writes the cached settings as the full remote document.
func (r *SettingsRepo) Reconcile(ctx context.Context) error {
	if r.remote == nil {
		return remote.ErrNotConfigured
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok, err := r.loadCache()
	if err != nil {
		return err
	}
	if ok {
		rec, err := toRecord(s)
		if err != nil {
			return err
		}
		rctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		if err := r.remote.Upsert(rctx, remote.CollectionSettings, repository.SettingsID, rec); err != nil {
			return fmt.Errorf("upsert remote settings: %w", err)
		}
	}
	r.cache.ClearDirty(cache.KeySettings)
	return nil
}

func (r *SettingsRepo) loadCache() (repository.Settings, bool, error) {
	var s repository.Settings
	ok, err := r.cache.Load(cache.KeySettings, &s)
	if err != nil {
		if errors.Is(err, cache.ErrCorrupt) {
			return s, false, fmt.Errorf("%w: %v", ErrCorruptCache, err)
		}
		return s, false, err
	}
	return s, ok, nil
}

func (r *SettingsRepo) getLocked(ctx context.Context) (repository.Settings, error) {
	s, ok, err := r.loadCache()
	if err != nil || ok {
		return s, err
	}

	if s, ok := r.fetchRemote(ctx); ok {
		if err := r.cache.Save(cache.KeySettings, s); err != nil {
			return repository.Settings{}, fmt.Errorf("write settings cache: %w", err)
		}
		return s, nil
	}

	s = repository.DefaultSettings()
	if doc := r.defaults.Document(); doc.Settings != nil {
		s = *doc.Settings
	}
	if err := r.cache.Save(cache.KeySettings, s); err != nil {
		return repository.Settings{}, fmt.Errorf("write settings cache: %w", err)
	}
	logger.WithComponent("facade").Info("settings cache seeded with defaults")
	return s, nil
}

func (r *SettingsRepo) fetchRemote(ctx context.Context) (repository.Settings, bool) {
	if r.remote == nil {
		return repository.Settings{}, false
	}
	rctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rec, ok, err := r.remote.Get(rctx, remote.CollectionSettings, repository.SettingsID)
	if err != nil {
		logger.WithComponent("facade").Warnf("remote settings unavailable, falling back: %v", err)
		return repository.Settings{}, false
	}
	if !ok {
		return repository.Settings{}, false
	}
	s, err := fromRecord[repository.Settings](rec)
	if err != nil {
		logger.WithComponent("facade").Warnf("ignoring malformed remote settings: %v", err)
		return repository.Settings{}, false
	}
	return s, true
}
