package facade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bassista/go_storefront/internal/cache"
	"github.com/bassista/go_storefront/internal/remote"
	"github.com/bassista/go_storefront/internal/repository"
)

var (
	// ErrCorruptCache is returned when a cached collection cannot be decoded.
	ErrCorruptCache = errors.New("local cache is corrupt")
	// ErrNotFound is returned when an id is not present in a collection.
	ErrNotFound = errors.New("not found")
	// ErrInvalid wraps validation failures; nothing is written when it is returned.
	ErrInvalid = errors.New("invalid record")
)

const defaultRemoteTimeout = 4 * time.Second

// DefaultsSource provides the fallback dataset of the read path.
type DefaultsSource interface {
	Document() repository.DataDocument
}

type Options struct {
	RemoteTimeout time.Duration
	// NodeID identifies this process in generated ids.
	NodeID int64
	Now    func() time.Time
}

type dependencies struct {
	cache    *cache.Store
	remote   remote.Store
	defaults DefaultsSource
	ids      *IDGenerator
	timeout  time.Duration
	now      func() time.Time
}

// Facade groups the per-entity repositories sharing one cache and one remote store.
type Facade struct {
	Products   *Products
	Categories *Categories
	Blogs      *Blogs
	Settings   *SettingsRepo

	cache  *cache.Store
	remote remote.Store
}

// New builds the facade. rs may be nil when no remote store is configured.
func New(store *cache.Store, rs remote.Store, defaults DefaultsSource, opts Options) (*Facade, error) {
	if store == nil {
		return nil, errors.New("cache store is required")
	}
	if defaults == nil {
		return nil, errors.New("defaults source is required")
	}
	ids, err := NewIDGenerator(opts.NodeID)
	if err != nil {
		return nil, err
	}
	deps := dependencies{
		cache:    store,
		remote:   rs,
		defaults: defaults,
		ids:      ids,
		timeout:  opts.RemoteTimeout,
		now:      opts.Now,
	}
	if deps.timeout <= 0 {
		deps.timeout = defaultRemoteTimeout
	}
	if deps.now == nil {
		deps.now = time.Now
	}

	v := repository.NewValidator()

	products := productDescriptor()
	products.Validate = func(p *repository.Product) error { return v.Struct(p) }
	categories := categoryDescriptor()
	categories.Validate = func(c *repository.Category) error { return v.Struct(c) }
	blogs := blogDescriptor()
	blogs.Validate = func(b *repository.Blog) error { return repository.ValidateBlog(v, b) }

	return &Facade{
		Products:   newCollection[repository.Product, *repository.Product](products, deps),
		Categories: newCollection[repository.Category, *repository.Category](categories, deps),
		Blogs:      newCollection[repository.Blog, *repository.Blog](blogs, deps),
		Settings: &SettingsRepo{
			cache:    store,
			remote:   rs,
			defaults: defaults,
			timeout:  deps.timeout,
			validate: func(s *repository.Settings) error { return v.Struct(s) },
		},
		cache:  store,
		remote: rs,
	}, nil
}

// Reconcile pushes the cached collection stored under key to the remote store.
// It implements cache.Reconciler for the sync scheduler.
func (f *Facade) Reconcile(ctx context.Context, key string) error {
	switch key {
	case cache.KeyProducts:
		return f.Products.Reconcile(ctx)
	case cache.KeyCategories:
		return f.Categories.Reconcile(ctx)
	case cache.KeyBlogs:
		return f.Blogs.Reconcile(ctx)
	case cache.KeySettings:
		return f.Settings.Reconcile(ctx)
	default:
		return fmt.Errorf("unknown cache key %q", key)
	}
}

// Snapshot returns every collection and the settings as one document.
func (f *Facade) Snapshot(ctx context.Context) (repository.DataDocument, error) {
	products, err := f.Products.List(ctx)
	if err != nil {
		return repository.DataDocument{}, err
	}
	categories, err := f.Categories.List(ctx)
	if err != nil {
		return repository.DataDocument{}, err
	}
	blogs, err := f.Blogs.List(ctx)
	if err != nil {
		return repository.DataDocument{}, err
	}
	settings, err := f.Settings.Get(ctx)
	if err != nil {
		return repository.DataDocument{}, err
	}
	return repository.DataDocument{
		Metadata:   repository.Metadata{LastUpdate: time.Now().UnixMilli()},
		Products:   products,
		Categories: categories,
		Blogs:      blogs,
		Settings:   &settings,
	}, nil
}

// Status describes the remote link for the admin banner.
type Status struct {
	RemoteConfigured bool     `json:"remoteConfigured"`
	RemoteReachable  bool     `json:"remoteReachable"`
	RemoteError      string   `json:"remoteError,omitempty"`
	DirtyCollections []string `json:"dirtyCollections"`
}

func (f *Facade) Status(ctx context.Context) Status {
	st := Status{DirtyCollections: f.cache.DirtyKeys()}
	if f.remote == nil {
		return st
	}
	st.RemoteConfigured = true
	pctx, cancel := context.WithTimeout(ctx, f.Products.timeout)
	defer cancel()
	if err := f.remote.Ping(pctx); err != nil {
		st.RemoteError = err.Error()
		return st
	}
	st.RemoteReachable = true
	return st
}
