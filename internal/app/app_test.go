package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bassista/go_storefront/internal/cache"
	"github.com/bassista/go_storefront/internal/config"
	"github.com/bassista/go_storefront/internal/remote"
	"github.com/bassista/go_storefront/internal/repository"
)

// closeTrackingKV records Close calls on top of the in-memory KV.
type closeTrackingKV struct {
	*cache.MemoryKV
	closed bool
}

func (k *closeTrackingKV) Close() error {
	k.closed = true
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Data: config.DataConfig{
			CachePath:    filepath.Join(dir, "cache.db"),
			SeedPath:     filepath.Join(dir, "seed.json"),
			SyncInterval: time.Hour,
		},
		Remote: config.RemoteConfig{Kind: config.RemoteKindMemory, Timeout: time.Second},
		Catalog: config.CatalogConfig{
			ImageQuality: 80,
			FetchWorkers: 2,
			FetchTimeout: time.Second,
		},
	}
}

func newSeed(t *testing.T, cfg *config.Config) *repository.JSONRepository {
	t.Helper()
	seed, err := repository.NewJSONRepository(cfg.Data.SeedPath)
	if err != nil {
		t.Fatalf("cannot create seed repository: %v", err)
	}
	return seed
}

func TestNew_Success(t *testing.T) {
	cfg := testConfig(t)
	app, err := New(cfg, newSeed(t, cfg), cache.NewMemoryKV(), remote.NewMemoryStore(), nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if app.Config != cfg {
		t.Error("config not set correctly")
	}
	if app.Facade == nil || app.Exporter == nil || app.Cache == nil {
		t.Error("facade, exporter and cache should be wired")
	}
	if app.BaseCtx == nil || app.Cancel == nil {
		t.Error("lifecycle context should be set")
	}
}

func TestNew_MissingDependencies(t *testing.T) {
	cfg := testConfig(t)
	seed := newSeed(t, cfg)

	if _, err := New(nil, seed, cache.NewMemoryKV(), nil, nil); err == nil || err.Error() != "config is nil" {
		t.Errorf("unexpected error for nil config: %v", err)
	}
	if _, err := New(cfg, nil, cache.NewMemoryKV(), nil, nil); err == nil {
		t.Error("expected error for nil seed repository")
	}
	if _, err := New(cfg, seed, nil, nil, nil); err == nil {
		t.Error("expected error for nil kv")
	}
}

func TestNew_SeedFileOverridesDefaults(t *testing.T) {
	cfg := testConfig(t)
	seed := newSeed(t, cfg)
	doc := &repository.DataDocument{
		Products: []repository.Product{{ID: "p1", Name: "Seeded Broom", Category: "Brooms", Code: "SB-1"}},
	}
	if err := seed.Save(doc); err != nil {
		t.Fatalf("cannot write seed: %v", err)
	}

	app, err := New(cfg, seed, cache.NewMemoryKV(), nil, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	products, err := app.Facade.Products.List(context.Background())
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Seeded Broom" {
		t.Errorf("expected seeded product, got %+v", products)
	}
	categories, err := app.Facade.Categories.List(context.Background())
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) == 0 {
		t.Error("sections missing from the seed file should fall back to builtin defaults")
	}
}

func TestApp_Backup(t *testing.T) {
	cfg := testConfig(t)
	seed := newSeed(t, cfg)
	app, err := New(cfg, seed, cache.NewMemoryKV(), nil, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	ctx := context.Background()
	if _, err := app.Facade.Products.Save(ctx, repository.Product{Name: "Backup Mop", Category: "Mops", Code: "BM-1"}, ""); err != nil {
		t.Fatalf("save product: %v", err)
	}

	path, err := app.Backup(ctx)
	if err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	if path != cfg.Data.SeedPath {
		t.Errorf("expected backup at %s, got %s", cfg.Data.SeedPath, path)
	}

	doc, err := seed.Load()
	if err != nil {
		t.Fatalf("cannot read backup: %v", err)
	}
	found := false
	for _, p := range doc.Products {
		if p.Code == "BM-1" {
			found = true
		}
	}
	if !found {
		t.Error("backup does not contain the saved product")
	}
	if doc.Settings == nil {
		t.Error("backup should contain settings")
	}
}

func TestApp_StartWatchers_InvalidBackupSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.BackupSchedule = "every now and then"
	app, err := New(cfg, newSeed(t, cfg), cache.NewMemoryKV(), nil, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer app.Shutdown()

	if err := app.StartWatchers(); err == nil {
		t.Error("expected error for invalid backup schedule")
	}
}

func TestApp_StartWatchers_ValidBackupSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.BackupSchedule = "@daily"
	app, err := New(cfg, newSeed(t, cfg), cache.NewMemoryKV(), nil, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := app.StartWatchers(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if app.cron == nil {
		t.Error("backup job should be scheduled")
	}
	app.Shutdown()
}

func TestApp_ShutdownFlushesDirtyCollections(t *testing.T) {
	cfg := testConfig(t)
	rs := remote.NewMemoryStore()
	app, err := New(cfg, newSeed(t, cfg), cache.NewMemoryKV(), rs, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := app.StartWatchers(); err != nil {
		t.Fatalf("cannot start watchers: %v", err)
	}

	ctx := context.Background()
	rs.SetUnavailable(true)
	saved, err := app.Facade.Products.Save(ctx, repository.Product{Name: "Offline Brush", Category: "Brushes", Code: "OB-1"}, "")
	if err != nil {
		t.Fatalf("local save should succeed while remote is down: %v", err)
	}
	if !app.Cache.IsDirty(cache.KeyProducts) {
		t.Fatal("products should be dirty after a failed remote write")
	}
	rs.SetUnavailable(false)

	app.Shutdown()

	if app.Cache.IsDirty(cache.KeyProducts) {
		t.Error("final flush should reconcile dirty products")
	}
	_, ok, err := rs.Get(ctx, remote.CollectionProducts, saved.ID)
	if err != nil || !ok {
		t.Errorf("expected product %s in remote store after shutdown (ok=%v, err=%v)", saved.ID, ok, err)
	}
}

func TestApp_ShutdownClosesCache(t *testing.T) {
	cfg := testConfig(t)
	kv := &closeTrackingKV{MemoryKV: cache.NewMemoryKV()}
	app, err := New(cfg, newSeed(t, cfg), kv, nil, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	select {
	case <-app.BaseCtx.Done():
		t.Error("context should not be done before shutdown")
	default:
	}

	app.Shutdown()

	select {
	case <-app.BaseCtx.Done():
	default:
		t.Error("context should be done after shutdown")
	}
	if !kv.closed {
		t.Error("cache kv should be closed on shutdown")
	}
}

func TestApp_Shutdown_Nil(t *testing.T) {
	var app *App
	app.Shutdown()
}

func TestApp_Shutdown_NilCancel(t *testing.T) {
	app := &App{Cancel: nil}
	app.Shutdown()
}
