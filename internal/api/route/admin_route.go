package route

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bassista/go_storefront/internal/api/controller"
	"github.com/bassista/go_storefront/internal/api/middleware"
	"github.com/bassista/go_storefront/internal/facade"
	"github.com/bassista/go_storefront/internal/media"
)

// AdminDeps are the collaborators of the admin API. Uploader may be nil.
type AdminDeps struct {
	Facade   *facade.Facade
	Backup   controller.Backuper
	Uploader media.Uploader
}

// NewAdminRouter registers the admin endpoints on a group already guarded by authentication.
// The live product stream is registered outside the request timeout.
func NewAdminRouter(timeout time.Duration, group *gin.RouterGroup, deps AdminDeps) {
	pc := controller.NewProductController(deps.Facade.Products)
	group.GET("products/live", pc.Live)

	timed := group.Group("", middleware.RequestTimeout(timeout))
	pc.RegisterAdminRoutes(timed)
	controller.NewCategoryController(deps.Facade.Categories).RegisterAdminRoutes(timed)
	controller.NewBlogController(deps.Facade.Blogs).RegisterAdminRoutes(timed)

	sc := controller.NewSettingsController(deps.Facade.Settings)
	timed.PATCH("settings", sc.PatchSettings)

	ac := controller.NewAdminController(deps.Backup, deps.Facade)
	timed.POST("backup", ac.Backup)
	timed.GET("status", ac.Status)

	mc := controller.NewMediaController(deps.Uploader)
	timed.POST("media", mc.Upload)
	timed.DELETE("media/*publicId", mc.Delete)
}
