package route

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bassista/go_storefront/internal/api/controller"
	"github.com/bassista/go_storefront/internal/api/middleware"
	"github.com/bassista/go_storefront/internal/catalog"
	"github.com/bassista/go_storefront/internal/facade"
)

// NewPublicRouter registers the read-only storefront endpoints.
func NewPublicRouter(timeout time.Duration, group *gin.RouterGroup, f *facade.Facade) {
	pc := controller.NewProductController(f.Products)
	cc := controller.NewCategoryController(f.Categories)
	bc := controller.NewBlogController(f.Blogs)
	sc := controller.NewSettingsController(f.Settings)
	timeoutMiddleware := middleware.RequestTimeout(timeout)

	group.GET("products", timeoutMiddleware, pc.PublicProducts)
	group.GET("products/:id", timeoutMiddleware, pc.PublicProduct)
	group.GET("categories", timeoutMiddleware, cc.PublicCategories)
	group.GET("blogs", timeoutMiddleware, bc.PublicBlogs)
	group.GET("blogs/:id", timeoutMiddleware, bc.PublicBlog)
	group.GET("settings", timeoutMiddleware, sc.GetSettings)
}

// NewCatalogRouter registers the PDF download. It runs under the export timeout
// instead of the request timeout.
func NewCatalogRouter(exportTimeout time.Duration, group *gin.RouterGroup, f *facade.Facade, exporter *catalog.Exporter, coverImage string) {
	cc := controller.NewCatalogController(f.Products, f.Settings, exporter, coverImage, exportTimeout)
	group.GET("catalog.pdf", cc.Download)
}
