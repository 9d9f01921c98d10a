package controller

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bassista/go_storefront/internal/catalog"
	"github.com/bassista/go_storefront/internal/logger"
	"github.com/bassista/go_storefront/internal/repository"
)

// CatalogExporter renders the catalog artifact.
type CatalogExporter interface {
	Export(ctx context.Context, in catalog.Input) (*catalog.Document, error)
}

type CatalogController struct {
	products   CrudService[repository.Product]
	settings   SettingsService
	exporter   CatalogExporter
	coverImage string
	timeout    time.Duration
}

func NewCatalogController(products CrudService[repository.Product], settings SettingsService, exporter CatalogExporter, coverImage string, timeout time.Duration) *CatalogController {
	return &CatalogController{
		products:   products,
		settings:   settings,
		exporter:   exporter,
		coverImage: coverImage,
		timeout:    timeout,
	}
}

// Download handles GET /api/catalog.pdf.
func (cc *CatalogController) Download(c *gin.Context) {
	ctx := c.Request.Context()
	if cc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cc.timeout)
		defer cancel()
	}

	products, err := cc.products.List(ctx)
	if err != nil {
		respondError(c, "catalog-controller", "read products", err)
		return
	}
	settings, err := cc.settings.Get(ctx)
	if err != nil {
		respondError(c, "catalog-controller", "read settings", err)
		return
	}

	start := time.Now()
	doc, err := cc.exporter.Export(ctx, catalog.Input{
		Products:      products,
		Settings:      settings,
		CoverImageURL: cc.coverImage,
	})
	if err != nil {
		logger.WithComponent("catalog-controller").Errorf("catalog export failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate catalog"})
		return
	}
	logger.WithComponent("catalog-controller").Infof("catalog %s generated in %s (%d pages)", doc.Filename, time.Since(start).Round(time.Millisecond), doc.PageCount)

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	c.Header("X-Catalog-Pages", strconv.Itoa(doc.PageCount))
	c.Header("X-Catalog-Missing-Images", strconv.Itoa(doc.MissingImages))
	c.Data(http.StatusOK, "application/pdf", doc.Data)
}
