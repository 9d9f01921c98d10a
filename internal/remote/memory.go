package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/bassista/go_storefront/internal/logger"
)

// MemoryStore is an in-process Store. It is useful in development and tests when
// no MongoDB instance is available.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
	unavailable bool
	watchers    map[string]map[chan Event]struct{}
}

type memoryCollection struct {
	records map[string]Record
	order   []string // insertion order, used to break sort ties
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: map[string]*memoryCollection{},
		watchers:    map[string]map[chan Event]struct{}{},
	}
}

// SetUnavailable simulates an outage: every operation fails with ErrUnavailable until reset.
func (m *MemoryStore) SetUnavailable(down bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = down
}

func (m *MemoryStore) collection(name string) *memoryCollection {
	c, ok := m.collections[name]
	if !ok {
		c = &memoryCollection{records: map[string]Record{}}
		m.collections[name] = c
	}
	return c
}

func (m *MemoryStore) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.unavailable {
		return ErrUnavailable
	}
	return nil
}

func (m *MemoryStore) Find(ctx context.Context, collection string, order Order) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	c, ok := m.collections[collection]
	if !ok {
		return []Record{}, nil
	}
	out := make([]Record, 0, len(c.order))
	for _, id := range c.order {
		rec, err := cloneRecord(c.records[id])
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if order.Field != "" {
		sort.SliceStable(out, func(i, j int) bool {
			cmp := compareValues(out[i][order.Field], out[j][order.Field])
			if order.Desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	logger.WithComponent("memory-remote").Debugf("find %s: %d records", collection, len(out))
	return out, nil
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (Record, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(ctx); err != nil {
		return nil, false, err
	}
	c, ok := m.collections[collection]
	if !ok {
		return nil, false, nil
	}
	rec, ok := c.records[id]
	if !ok {
		return nil, false, nil
	}
	out, err := cloneRecord(rec)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// Upsert stores rec under id. An empty id gets a generated UUID.
func (m *MemoryStore) Upsert(ctx context.Context, collection, id string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ctx); err != nil {
		return err
	}
	if id == "" {
		id = uuid.NewString()
	}
	stored, err := cloneRecord(rec)
	if err != nil {
		return err
	}
	stored["id"] = id
	c := m.collection(collection)
	if _, exists := c.records[id]; !exists {
		c.order = append(c.order, id)
	}
	c.records[id] = stored
	m.notifyLocked(collection, EventUpsert, id, stored)
	return nil
}

func (m *MemoryStore) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ctx); err != nil {
		return err
	}
	normalized, err := cloneRecord(fields)
	if err != nil {
		return err
	}
	c := m.collection(collection)
	rec, exists := c.records[id]
	if !exists {
		rec = Record{"id": id}
		c.order = append(c.order, id)
	}
	for path, value := range normalized {
		setPath(rec, strings.Split(path, "."), value)
	}
	c.records[id] = rec
	m.notifyLocked(collection, EventUpsert, id, rec)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ctx); err != nil {
		return err
	}
	c, ok := m.collections[collection]
	if !ok {
		return nil
	}
	if _, exists := c.records[id]; !exists {
		return nil
	}
	delete(c.records, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	m.notifyLocked(collection, EventDelete, id, nil)
	return nil
}

func (m *MemoryStore) Watch(ctx context.Context, collection string) (<-chan Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	ch := make(chan Event, 16)
	if m.watchers[collection] == nil {
		m.watchers[collection] = map[chan Event]struct{}{}
	}
	m.watchers[collection][ch] = struct{}{}

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.watchers[collection], ch)
		close(ch)
	}()
	return ch, nil
}

// notifyLocked fans out an event; slow watchers drop events rather than block writers.
func (m *MemoryStore) notifyLocked(collection string, typ EventType, id string, rec Record) {
	for ch := range m.watchers[collection] {
		ev := Event{Type: typ, ID: id}
		if rec != nil {
			ev.Record, _ = cloneRecord(rec)
		}
		select {
		case ch <- ev:
		default:
			logger.WithComponent("memory-remote").Warnf("dropping %s event for slow watcher", collection)
		}
	}
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.check(ctx)
}

func (m *MemoryStore) Close(context.Context) error { return nil }

// compareValues orders numbers numerically and everything else as strings.
func compareValues(a, b any) int {
	af, aerr := cast.ToFloat64E(a)
	bf, berr := cast.ToFloat64E(b)
	if aerr == nil && berr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(cast.ToString(a), cast.ToString(b))
}

func setPath(rec map[string]any, path []string, value any) {
	if len(path) == 1 {
		rec[path[0]] = value
		return
	}
	child, ok := rec[path[0]].(map[string]any)
	if !ok {
		child = map[string]any{}
		rec[path[0]] = child
	}
	setPath(child, path[1:], value)
}

// cloneRecord deep-copies through JSON so callers never share nested maps with the store.
func cloneRecord(rec map[string]any) (Record, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var out Record
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if out == nil {
		out = Record{}
	}
	return out, nil
}
