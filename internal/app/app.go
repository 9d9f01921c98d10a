package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bassista/go_storefront/internal/cache"
	"github.com/bassista/go_storefront/internal/catalog"
	"github.com/bassista/go_storefront/internal/config"
	"github.com/bassista/go_storefront/internal/facade"
	"github.com/bassista/go_storefront/internal/logger"
	"github.com/bassista/go_storefront/internal/media"
	"github.com/bassista/go_storefront/internal/remote"
	"github.com/bassista/go_storefront/internal/repository"
)

const closeTimeout = 5 * time.Second

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// App is the application container (immutable dependencies + lifecycle context).
// It is not a request context; handlers should still use gin's request context.
type App struct {
	Config   *config.Config
	Seed     repository.Repository
	Defaults *repository.Defaults
	KV       cache.KV
	Cache    *cache.Store
	// Remote is nil when no remote store is configured.
	Remote   remote.Store
	Facade   *facade.Facade
	Exporter *catalog.Exporter
	// Uploader is nil when media storage is not configured.
	Uploader media.Uploader

	BaseCtx context.Context
	Cancel  context.CancelFunc

	cron     *cron.Cron
	syncDone <-chan struct{}
}

// New wires the facade and the catalog exporter. rs and uploader may be nil.
func New(cfg *config.Config, seed repository.Repository, kv cache.KV, rs remote.Store, uploader media.Uploader) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if seed == nil {
		return nil, errors.New("seed repository is nil")
	}
	if kv == nil {
		return nil, errors.New("cache kv is nil")
	}

	store, err := cache.NewStore(kv)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	defaults := repository.NewDefaults()
	if err := seed.LoadInto(defaults); err != nil {
		logger.WithComponent("app").Warnf("ignoring seed file %s: %v", seed.Path(), err)
	}

	f, err := facade.New(store, rs, defaults, facade.Options{RemoteTimeout: cfg.Remote.Timeout})
	if err != nil {
		return nil, fmt.Errorf("build facade: %w", err)
	}

	fetcher := catalog.NewFetcher(catalog.FetcherOptions{
		BaseURL:  cfg.Catalog.AssetBaseURL,
		AssetDir: cfg.Catalog.AssetDir,
		Quality:  cfg.Catalog.ImageQuality,
		Workers:  cfg.Catalog.FetchWorkers,
		Timeout:  cfg.Catalog.FetchTimeout,
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Config:   cfg,
		Seed:     seed,
		Defaults: defaults,
		KV:       kv,
		Cache:    store,
		Remote:   rs,
		Facade:   f,
		Exporter: catalog.NewExporter(fetcher, cfg.Catalog.Compress),
		Uploader: uploader,
		BaseCtx:  ctx,
		Cancel:   cancel,
	}, nil
}

// StartWatchers starts the seed file watcher, the remote sync scheduler and the backup job.
// All of them stop when BaseCtx is cancelled.
func (a *App) StartWatchers() error {
	if err := a.Seed.StartWatcher(a.BaseCtx, a.Defaults); err != nil {
		return fmt.Errorf("cannot start seed file watcher: %w", err)
	}

	if a.Remote != nil {
		a.syncDone = cache.StartSyncScheduler(a.BaseCtx, a.Cache, a.Facade, a.Config.Data.SyncInterval, a.Config.Remote.Timeout*4)
	} else {
		logger.WithComponent("app").Info("no remote store configured, running on the local cache only")
	}

	if schedule := a.Config.Data.BackupSchedule; schedule != "" {
		c := cron.New(cron.WithParser(cronParser))
		if _, err := c.AddFunc(schedule, a.scheduledBackup); err != nil {
			return fmt.Errorf("invalid backup schedule %q: %w", schedule, err)
		}
		c.Start()
		a.cron = c
		logger.WithComponent("app").Infof("backup job scheduled: %s", schedule)
	}
	return nil
}

// Backup writes a snapshot of every collection to the seed file and returns its path.
func (a *App) Backup(ctx context.Context) (string, error) {
	doc, err := a.Facade.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	if err := a.Seed.Save(&doc); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return a.Seed.Path(), nil
}

func (a *App) scheduledBackup() {
	ctx, cancel := context.WithTimeout(a.BaseCtx, time.Minute)
	defer cancel()
	path, err := a.Backup(ctx)
	if err != nil {
		logger.WithComponent("backup").Errorf("scheduled backup failed: %v", err)
		return
	}
	logger.WithComponent("backup").Infof("scheduled backup written to %s", path)
}

// Shutdown stops background jobs, waits for the final sync flush and closes the stores.
func (a *App) Shutdown() {
	if a == nil || a.Cancel == nil {
		return
	}
	a.Cancel()

	if a.cron != nil {
		<-a.cron.Stop().Done()
	}
	if a.syncDone != nil {
		<-a.syncDone
	}
	if a.Remote != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		if err := a.Remote.Close(ctx); err != nil {
			logger.WithComponent("app").Warnf("closing remote store: %v", err)
		}
		cancel()
	}
	if err := a.KV.Close(); err != nil {
		logger.WithComponent("app").Warnf("closing cache: %v", err)
	}
}
