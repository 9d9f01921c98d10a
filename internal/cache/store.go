package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/bassista/go_storefront/internal/logger"
)

// Namespaced cache keys, one per collection plus settings.
const (
	KeyProducts   = "disha_products"
	KeyCategories = "disha_categories"
	KeyBlogs      = "disha_blogs"
	KeySettings   = "disha_settings"

	keyDirty   = "disha__dirty"
	keyPending = "disha__pending"
)

// ErrCorrupt is returned when a cached value cannot be decoded.
var ErrCorrupt = errors.New("corrupt cache entry")

// Store serializes collections into a KV as JSON and tracks which keys
// still need to be pushed to the remote store.
type Store struct {
	kv    KV
	mu    sync.RWMutex
	dirty map[string]bool // keys changed locally but not yet mirrored remotely
	// pending holds, per key, the record ids whose remote write failed.
	pending map[string]map[string]bool
}

// NewStore wraps kv and restores the persisted dirty set.
func NewStore(kv KV) (*Store, error) {
	s := &Store{kv: kv, dirty: map[string]bool{}, pending: map[string]map[string]bool{}}
	raw, ok, err := kv.Get(keyDirty)
	if err != nil {
		return nil, fmt.Errorf("read dirty set: %w", err)
	}
	if ok {
		var keys []string
		if err := json.Unmarshal(raw, &keys); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, keyDirty, err)
		}
		for _, k := range keys {
			s.dirty[k] = true
		}
	}
	raw, ok, err = kv.Get(keyPending)
	if err != nil {
		return nil, fmt.Errorf("read pending set: %w", err)
	}
	if ok {
		var byKey map[string][]string
		if err := json.Unmarshal(raw, &byKey); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, keyPending, err)
		}
		for k, ids := range byKey {
			s.pending[k] = map[string]bool{}
			for _, id := range ids {
				s.pending[k][id] = true
			}
		}
	}
	return s, nil
}

// Load decodes the value stored under key into dst.
// It returns false when the key is absent and ErrCorrupt when the value is malformed.
func (s *Store) Load(key string, dst any) (bool, error) {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

// Save encodes v as JSON under key.
func (s *Store) Save(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Put(key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Remove deletes the cached value for key.
func (s *Store) Remove(key string) error {
	return s.kv.Delete(key)
}

// MarkDirty flags key as diverged from the remote store.
func (s *Store) MarkDirty(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dirty[key] {
		return
	}
	s.dirty[key] = true
	s.persistDirtyLocked()
}

// IsDirty returns true if key has changes not yet mirrored remotely.
func (s *Store) IsDirty(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty[key]
}

// MarkPending records that the remote write of record id under key failed.
// It also flags key as dirty.
func (s *Store) MarkPending(key, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[key] == nil {
		s.pending[key] = map[string]bool{}
	}
	if !s.pending[key][id] {
		s.pending[key][id] = true
		s.persistPendingLocked()
	}
	if !s.dirty[key] {
		s.dirty[key] = true
		s.persistDirtyLocked()
	}
}

// PendingIDs returns the record ids of key awaiting a remote write, sorted.
func (s *Store) PendingIDs(key string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.pending[key]))
	for id := range s.pending[key] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ClearDirty resets the dirty flag of key and forgets its pending ids.
func (s *Store) ClearDirty(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[key]; ok {
		delete(s.pending, key)
		s.persistPendingLocked()
	}
	if !s.dirty[key] {
		return
	}
	delete(s.dirty, key)
	s.persistDirtyLocked()
}

// DirtyKeys returns the dirty keys in sorted order.
func (s *Store) DirtyKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirtyKeysLocked()
}

func (s *Store) dirtyKeysLocked() []string {
	keys := make([]string, 0, len(s.dirty))
	for k := range s.dirty {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// persistDirtyLocked stores the dirty set so it survives restarts. Failures keep the in-memory state.
func (s *Store) persistDirtyLocked() {
	raw, err := json.Marshal(s.dirtyKeysLocked())
	if err == nil {
		err = s.kv.Put(keyDirty, raw)
	}
	if err != nil {
		logger.WithComponent("cache").Warnf("cannot persist dirty set: %v", err)
	}
}

func (s *Store) persistPendingLocked() {
	byKey := make(map[string][]string, len(s.pending))
	for k, ids := range s.pending {
		for id := range ids {
			byKey[k] = append(byKey[k], id)
		}
	}
	raw, err := json.Marshal(byKey)
	if err == nil {
		err = s.kv.Put(keyPending, raw)
	}
	if err != nil {
		logger.WithComponent("cache").Warnf("cannot persist pending set: %v", err)
	}
}
