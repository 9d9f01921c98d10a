package route

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// NewUIRouter serves the built storefront (SPA) from webDir and the product images
// from assetDir/images. Unknown non-API paths fall back to index.html for client-side routing.
func NewUIRouter(r *gin.Engine, webDir, assetDir string) {
	if webDir == "" {
		r.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		})
		return
	}

	index := filepath.Join(webDir, "index.html")
	r.Static("/assets", filepath.Join(webDir, "assets"))
	if assetDir != "" {
		r.Static("/images", filepath.Join(assetDir, "images"))
	}
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.File(filepath.Join(webDir, "favicon.ico"))
	})
	r.GET("/", func(c *gin.Context) {
		c.File(index)
	})

	r.NoRoute(func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == "/api" || strings.HasPrefix(p, "/api/") || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(index)
	})
}
