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

// EntityPtr constrains PT to a pointer to T that carries an identifier.
type EntityPtr[T any] interface {
	*T
	repository.Entity
}

// Descriptor binds an entity type to its cache key, remote collection and ordering.
type Descriptor[T any] struct {
	Name       string
	CacheKey   string
	Collection string
	IDPrefix   string
	// RemoteOrder is the natural sort key used when querying the remote store.
	RemoteOrder remote.Order
	// Sort orders items in place by the natural key; it must be stable.
	Sort func(items []T)
	// Seed extracts this collection from the fallback dataset.
	Seed func(doc repository.DataDocument) []T
	// Normalize assigns synthetic values (such as sort orders) to seeded items.
	Normalize func(items []T)
	// BeforeSave prepares item for storage; prev is nil on create.
	BeforeSave func(item *T, prev *T, all []T, now time.Time)
	// Validate runs before an item is saved.
	Validate func(item *T) error
}

// Collection is the read-through repository of one entity type:
// local cache first, then the remote store, then the fallback dataset.
type Collection[T any, PT EntityPtr[T]] struct {
	desc     Descriptor[T]
	cache    *cache.Store
	remote   remote.Store
	defaults DefaultsSource
	ids      *IDGenerator
	timeout  time.Duration
	now      func() time.Time

	// mu serializes read-modify-write cycles and cache population.
	mu sync.Mutex
}

func newCollection[T any, PT EntityPtr[T]](desc Descriptor[T], deps dependencies) *Collection[T, PT] {
	return &Collection[T, PT]{
		desc:     desc,
		cache:    deps.cache,
		remote:   deps.remote,
		defaults: deps.defaults,
		ids:      deps.ids,
		timeout:  deps.timeout,
		now:      deps.now,
	}
}

func (c *Collection[T, PT]) Name() string { return c.desc.Name }

// List returns the whole collection in natural order.
func (c *Collection[T, PT]) List(ctx context.Context) ([]T, error) {
	items, ok, err := c.loadCache()
	if err != nil || ok {
		return items, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listLocked(ctx)
}

// Get returns the item with id or ErrNotFound.
func (c *Collection[T, PT]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	items, err := c.List(ctx)
	if err != nil {
		return zero, err
	}
	for _, item := range items {
		if PT(&item).GetID() == id {
			return item, nil
		}
	}
	return zero, fmt.Errorf("%s %q: %w", c.desc.Name, id, ErrNotFound)
}

// Save adds item, or replaces the stored item with the same id. When id is empty the
// item's own id is used, and when both are empty a new id is generated.
// The cache write is authoritative; the remote write is best-effort.
func (c *Collection[T, PT]) Save(ctx context.Context, item T, id string) (T, error) {
	var zero T
	if c.desc.Validate != nil {
		if err := c.desc.Validate(&item); err != nil {
			return zero, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.listLocked(ctx)
	if err != nil {
		return zero, err
	}
	return c.storeLocked(ctx, items, item, id)
}

// Update edits the stored item with id in place: change receives a copy of the
// stored item, so fields it leaves alone keep their values. An unknown id starts
// from the zero value and is created.
func (c *Collection[T, PT]) Update(ctx context.Context, id string, change func(item *T) error) (T, error) {
	var zero T
	if id == "" {
		return zero, fmt.Errorf("%w: missing %s id", ErrInvalid, c.desc.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.listLocked(ctx)
	if err != nil {
		return zero, err
	}
	var item T
	for _, existing := range items {
		if PT(&existing).GetID() == id {
			item = existing
			break
		}
	}
	if err := change(&item); err != nil {
		return zero, err
	}
	if c.desc.Validate != nil {
		if err := c.desc.Validate(&item); err != nil {
			return zero, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	return c.storeLocked(ctx, items, item, id)
}

// storeLocked writes item into items and the cache; caller must hold mu.
func (c *Collection[T, PT]) storeLocked(ctx context.Context, items []T, item T, id string) (T, error) {
	var zero T
	p := PT(&item)
	if id == "" {
		id = p.GetID()
	}
	if id == "" {
		id = c.ids.Next(c.desc.IDPrefix)
	}
	p.SetID(id)

	index := -1
	for i := range items {
		if PT(&items[i]).GetID() == id {
			index = i
			break
		}
	}

	var prev *T
	if index >= 0 {
		existing := items[index]
		prev = &existing
	}
	if c.desc.BeforeSave != nil {
		c.desc.BeforeSave(&item, prev, items, c.now())
	}

	updated := make([]T, 0, len(items)+1)
	updated = append(updated, items...)
	if index >= 0 {
		updated[index] = item
	} else {
		updated = append(updated, item)
	}
	if c.desc.Sort != nil {
		c.desc.Sort(updated)
	}

	if err := c.cache.Save(c.desc.CacheKey, updated); err != nil {
		return zero, fmt.Errorf("write %s cache: %w", c.desc.Name, err)
	}

	c.pushUpsert(ctx, id, item)
	return item, nil
}

// Delete removes the item with id. Unknown ids are a no-op and report false.
func (c *Collection[T, PT]) Delete(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.listLocked(ctx)
	if err != nil {
		return false, err
	}

	kept := make([]T, 0, len(items))
	for _, item := range items {
		if PT(&item).GetID() != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}

	if err := c.cache.Save(c.desc.CacheKey, kept); err != nil {
		return false, fmt.Errorf("write %s cache: %w", c.desc.Name, err)
	}

	c.pushDelete(ctx, id)
	return true, nil
}

// Watch streams remote changes of this collection. It bypasses the cache.
func (c *Collection[T, PT]) Watch(ctx context.Context) (<-chan remote.Event, error) {
	if c.remote == nil {
		return nil, remote.ErrNotConfigured
	}
	return c.remote.Watch(ctx, c.desc.Collection)
}

// Reconcile replays the writes whose remote push failed. Each pending id is
// upserted from the cache, or deleted remotely when the cache no longer holds it.
// Remote records this cache never touched are left alone.
func (c *Collection[T, PT]) Reconcile(ctx context.Context) error {
	if c.remote == nil {
		return remote.ErrNotConfigured
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	items, ok, err := c.loadCache()
	if err != nil {
		return err
	}
	pending := c.cache.PendingIDs(c.desc.CacheKey)
	if !ok || len(pending) == 0 {
		c.cache.ClearDirty(c.desc.CacheKey)
		return nil
	}

	byID := make(map[string]T, len(items))
	for _, item := range items {
		byID[PT(&item).GetID()] = item
	}

	rctx, cancel := context.WithTimeout(ctx, c.timeout*time.Duration(len(pending)+1))
	defer cancel()

	for _, id := range pending {
		item, cached := byID[id]
		if !cached {
			if err := c.remote.Delete(rctx, c.desc.Collection, id); err != nil {
				return fmt.Errorf("delete remote %s/%s: %w", c.desc.Name, id, err)
			}
			continue
		}
		rec, err := toRecord(item)
		if err != nil {
			return err
		}
		if err := c.remote.Upsert(rctx, c.desc.Collection, id, rec); err != nil {
			return fmt.Errorf("upsert remote %s/%s: %w", c.desc.Name, id, err)
		}
	}

	logger.WithComponent("facade").Infof("%s reconciled (%d pending writes)", c.desc.Name, len(pending))
	c.cache.ClearDirty(c.desc.CacheKey)
	return nil
}

func (c *Collection[T, PT]) loadCache() ([]T, bool, error) {
	var items []T
	ok, err := c.cache.Load(c.desc.CacheKey, &items)
	if err != nil {
		if errors.Is(err, cache.ErrCorrupt) {
			return nil, false, fmt.Errorf("%w: %v", ErrCorruptCache, err)
		}
		return nil, false, err
	}
	if ok && items == nil {
		items = []T{}
	}
	return items, ok, nil
}

// listLocked resolves the collection through the three tiers; caller must hold mu.
func (c *Collection[T, PT]) listLocked(ctx context.Context) ([]T, error) {
	items, ok, err := c.loadCache()
	if err != nil || ok {
		return items, err
	}

	if items, ok := c.fetchRemote(ctx); ok {
		if err := c.cache.Save(c.desc.CacheKey, items); err != nil {
			return nil, fmt.Errorf("write %s cache: %w", c.desc.Name, err)
		}
		logger.WithComponent("facade").Debugf("%s cache populated from remote (%d records)", c.desc.Name, len(items))
		return items, nil
	}

	items = c.desc.Seed(c.defaults.Document())
	if items == nil {
		items = []T{}
	}
	for i := range items {
		if PT(&items[i]).GetID() == "" {
			PT(&items[i]).SetID(c.ids.Next(c.desc.IDPrefix))
		}
	}
	if c.desc.Normalize != nil {
		c.desc.Normalize(items)
	}
	if c.desc.Sort != nil {
		c.desc.Sort(items)
	}
	if err := c.cache.Save(c.desc.CacheKey, items); err != nil {
		return nil, fmt.Errorf("write %s cache: %w", c.desc.Name, err)
	}
	logger.WithComponent("facade").Infof("%s cache seeded with default dataset (%d records)", c.desc.Name, len(items))
	return items, nil
}

// fetchRemote returns the remote collection when it is reachable and non-empty.
func (c *Collection[T, PT]) fetchRemote(ctx context.Context) ([]T, bool) {
	if c.remote == nil {
		return nil, false
	}
	rctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	recs, err := c.remote.Find(rctx, c.desc.Collection, c.desc.RemoteOrder)
	if err != nil {
		logger.WithComponent("facade").Warnf("remote %s unavailable, falling back: %v", c.desc.Name, err)
		return nil, false
	}

	items := make([]T, 0, len(recs))
	for _, rec := range recs {
		item, err := fromRecord[T](rec)
		if err != nil {
			logger.WithComponent("facade").Warnf("skipping remote %s record: %v", c.desc.Name, err)
			continue
		}
		if PT(&item).GetID() == "" {
			PT(&item).SetID(rec.ID())
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, false
	}
	if c.desc.Sort != nil {
		c.desc.Sort(items)
	}
	return items, true
}

func (c *Collection[T, PT]) pushUpsert(ctx context.Context, id string, item T) {
	if c.remote == nil {
		return
	}
	rec, err := toRecord(item)
	if err == nil {
		rctx, cancel := context.WithTimeout(ctx, c.timeout)
		err = c.remote.Upsert(rctx, c.desc.Collection, id, rec)
		cancel()
	}
	if err != nil {
		logger.WithComponent("facade").Warnf("remote write of %s/%s failed, will retry on sync: %v", c.desc.Name, id, err)
		c.cache.MarkPending(c.desc.CacheKey, id)
	}
}

func (c *Collection[T, PT]) pushDelete(ctx context.Context, id string) {
	if c.remote == nil {
		return
	}
	rctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.remote.Delete(rctx, c.desc.Collection, id); err != nil {
		logger.WithComponent("facade").Warnf("remote delete of %s/%s failed, will retry on sync: %v", c.desc.Name, id, err)
		c.cache.MarkPending(c.desc.CacheKey, id)
	}
}
