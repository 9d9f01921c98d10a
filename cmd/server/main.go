package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"syscall"

	"github.com/enrichman/httpgrace"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	route "github.com/bassista/go_storefront/internal/api/route"
	appctx "github.com/bassista/go_storefront/internal/app"
	"github.com/bassista/go_storefront/internal/cache"
	"github.com/bassista/go_storefront/internal/config"
	"github.com/bassista/go_storefront/internal/logger"
	"github.com/bassista/go_storefront/internal/media"
	"github.com/bassista/go_storefront/internal/remote"
	"github.com/bassista/go_storefront/internal/repository"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithComponent("main").Fatalf("configuration error: %v", err)
	}

	// Set log level from configuration
	logLevel, err := logrus.ParseLevel(cfg.Misc.LogLevel)
	if err != nil {
		logger.WithComponent("main").Warnf("invalid log level '%s', using 'info': %v", cfg.Misc.LogLevel, err)
		logLevel = logrus.InfoLevel
	}
	logger.Logger.SetLevel(logLevel)
	logger.WithComponent("main").Debugf("log level set to: %s", logLevel.String())
	logger.WithComponent("main").Infof("App will run on port: %d", cfg.Server.Port)

	seed, err := repository.NewJSONRepository(cfg.Data.SeedPath)
	if err != nil {
		logger.WithComponent("main").Fatalf("cannot init seed repository: %v", err)
	}

	kv, err := cache.OpenBolt(cfg.Data.CachePath)
	if err != nil {
		logger.WithComponent("main").Fatalf("cannot open cache %s: %v", cfg.Data.CachePath, err)
	}

	rs, err := openRemote(context.Background(), cfg.Remote)
	if err != nil {
		logger.WithComponent("main").Fatalf("cannot init remote store: %v", err)
	}

	app, err := appctx.New(cfg, seed, kv, rs, openUploader(cfg.Misc))
	if err != nil {
		logger.WithComponent("main").Fatalf("cannot init app: %v", err)
	}
	defer app.Shutdown()

	if err := app.StartWatchers(); err != nil {
		logger.WithComponent("main").Fatalf("cannot start background jobs: %v", err)
	}

	gin.SetMode(cfg.Misc.GinMode)
	gin.DefaultWriter = logger.Logger.Writer()
	gin.DefaultErrorWriter = logger.Logger.Writer()

	r := route.SetupRoutes(app)
	srv := createGraceHttpServer(app.BaseCtx, "storefront", cfg.Server, r)

	if err := srv.ListenAndServe(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithComponent("main").Error(err)
	}
}

// openRemote returns a nil store when no remote is configured.
func openRemote(ctx context.Context, cfg config.RemoteConfig) (remote.Store, error) {
	rs, err := remote.NewFromConfig(ctx, cfg)
	if errors.Is(err, remote.ErrNotConfigured) {
		logger.WithComponent("main").Info("remote store disabled, serving from cache and defaults")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	logger.WithComponent("main").Infof("remote store: %s", cfg.Kind)
	return rs, nil
}

// openUploader returns nil when media storage is not configured or misconfigured.
func openUploader(cfg config.MiscConfig) media.Uploader {
	u, err := media.NewCloudinary(cfg.CloudinaryURL, cfg.MediaFolder)
	if err != nil {
		if errors.Is(err, media.ErrNotConfigured) {
			logger.WithComponent("main").Info("media uploads disabled, set CLOUDINARY_URL to enable")
		} else {
			logger.WithComponent("main").Warnf("media uploads disabled: %v", err)
		}
		return nil
	}
	return u
}

func createGraceHttpServer(ctx context.Context, name string, serverConfig config.ServerConfig, r *gin.Engine) *httpgrace.Server {
	slogLogger := slog.New(slog.NewTextHandler(logger.Logger.Writer(), nil))

	srv := httpgrace.NewServer(r,
		httpgrace.WithTimeout(serverConfig.ShutDownTimeout),
		httpgrace.WithSignals(syscall.SIGTERM, syscall.SIGINT),
		httpgrace.WithLogger(slogLogger),
		httpgrace.WithBeforeShutdown(func() {
			logger.WithComponent("http").Infof("Shutting down %s server....", name)
		}),
		httpgrace.WithServerOptions(
			httpgrace.WithReadTimeout(serverConfig.ReadTimeout),
			httpgrace.WithWriteTimeout(serverConfig.WriteTimeout),
			httpgrace.WithIdleTimeout(serverConfig.IdleTimeout),
			func(srv *http.Server) {
				srv.BaseContext = func(_ net.Listener) context.Context {
					return ctx
				}
			},
			func(srv *http.Server) {
				srv.ErrorLog = log.New(logger.Logger.Writer(), fmt.Sprintf("[%s] ", name), log.LstdFlags)
			},
		),
	)
	return srv
}
