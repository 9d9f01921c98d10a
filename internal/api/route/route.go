package route

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bassista/go_storefront/internal/api/middleware"
	"github.com/bassista/go_storefront/internal/app"
	"github.com/bassista/go_storefront/internal/logger"
)

// SetupRoutes builds the HTTP engine: public storefront API, admin API and the static site.
func SetupRoutes(appCtx *app.App) *gin.Engine {
	cfg := appCtx.Config

	r := gin.New()
	r.Use(middleware.HoneybadgerMiddleware(cfg.Misc.HoneybadgerAPIKey, cfg.Misc.Environment))
	r.Use(gin.LoggerWithWriter(logger.Logger.Writer()))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.Server.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "UP",
		})
	})

	api := r.Group("/api")
	NewPublicRouter(cfg.Server.RequestTimeout, api, appCtx.Facade)
	NewCatalogRouter(cfg.Server.ExportTimeout, api, appCtx.Facade, appCtx.Exporter, cfg.Catalog.CoverImage)

	admin := api.Group("/admin", middleware.AdminAuth(cfg.Admin.Username, cfg.Admin.PasswordHash))
	NewAdminRouter(cfg.Server.RequestTimeout, admin, AdminDeps{
		Facade:   appCtx.Facade,
		Backup:   appCtx,
		Uploader: appCtx.Uploader,
	})

	NewUIRouter(r, cfg.Server.WebDir, cfg.Catalog.AssetDir)
	return r
}
