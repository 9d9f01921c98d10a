package remote

import (
	"context"
	"errors"
)

// Collection names in the remote document store.
const (
	CollectionProducts   = "products"
	CollectionCategories = "categories"
	CollectionBlogs      = "blogs"
	CollectionSettings   = "settings"
)

var (
	// ErrNotConfigured is returned by the factory when no remote store is configured.
	ErrNotConfigured = errors.New("remote store not configured")
	// ErrUnavailable is returned by stores that cannot currently serve requests.
	ErrUnavailable = errors.New("remote store unavailable")
)

// Record is a schemaless document. The identifier is carried in the "id" field.
type Record map[string]any

// ID returns the record identifier, or "" when missing.
func (r Record) ID() string {
	if id, ok := r["id"].(string); ok {
		return id
	}
	return ""
}

// Order sorts query results by a single field.
type Order struct {
	Field string
	Desc  bool
}

type EventType string

const (
	EventUpsert EventType = "upsert"
	EventDelete EventType = "delete"
)

// Event is one change notification of a watched collection.
type Event struct {
	Type   EventType `json:"type"`
	ID     string    `json:"id"`
	Record Record    `json:"record,omitempty"`
}

// Store is the remote document store consumed by the persistence facade.
type Store interface {
	// Find returns every record of collection sorted by order.
	Find(ctx context.Context, collection string, order Order) ([]Record, error)
	// Get returns the record with id; ok is false when it does not exist.
	Get(ctx context.Context, collection, id string) (rec Record, ok bool, err error)
	// Upsert creates or fully replaces the record with id.
	Upsert(ctx context.Context, collection, id string, rec Record) error
	// Merge sets the given fields on the record with id, creating it if needed.
	// Keys may be dotted paths into nested documents.
	Merge(ctx context.Context, collection, id string, fields map[string]any) error
	// Delete removes the record with id. Deleting a missing record is not an error.
	Delete(ctx context.Context, collection, id string) error
	// Watch streams changes of collection until ctx is done; the channel is then closed.
	Watch(ctx context.Context, collection string) (<-chan Event, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
