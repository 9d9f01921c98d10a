package controller

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/bassista/go_storefront/internal/catalog"
	"github.com/bassista/go_storefront/internal/facade"
	"github.com/bassista/go_storefront/internal/logger"
	"github.com/bassista/go_storefront/internal/remote"
	"github.com/bassista/go_storefront/internal/repository"
)

const maxCSVBytes = 5 << 20

// ProductService is the product collection of the facade.
type ProductService interface {
	CrudService[repository.Product]
	Watch(ctx context.Context) (<-chan remote.Event, error)
}

// ProductController handles public product reads and admin product management.
type ProductController struct {
	crud     *CrudController[repository.Product]
	products ProductService
}

func NewProductController(products ProductService) *ProductController {
	return &ProductController{
		crud:     &CrudController[repository.Product]{Service: products, Resource: "product", Plural: "products"},
		products: products,
	}
}

// RegisterAdminRoutes registers CRUD and CSV endpoints.
func (pc *ProductController) RegisterAdminRoutes(rg *gin.RouterGroup) {
	pc.crud.RegisterCrudRoutes(rg)
	rg.GET("/products/export.csv", pc.ExportCSV)
	rg.POST("/products/import", pc.ImportCSV)
}

// PublicProducts handles GET /api/products. Inactive products are hidden unless all=true.
func (pc *ProductController) PublicProducts(c *gin.Context) {
	logger.WithComponent("product-controller").Debugf("GET /products handler called")
	items, err := pc.products.List(c.Request.Context())
	if err != nil {
		respondError(c, "product-controller", "read products", err)
		return
	}
	if cast.ToBool(c.Query("all")) {
		c.JSON(http.StatusOK, items)
		return
	}
	active := make([]repository.Product, 0, len(items))
	for _, p := range items {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	c.JSON(http.StatusOK, active)
}

// PublicProduct handles GET /api/products/:id.
func (pc *ProductController) PublicProduct(c *gin.Context) {
	id := c.Param("id")
	p, err := pc.products.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "product-controller", "read product", err)
		return
	}
	if !p.IsActive() && !cast.ToBool(c.Query("all")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// ExportCSV handles GET /api/admin/products/export.csv.
func (pc *ProductController) ExportCSV(c *gin.Context) {
	items, err := pc.products.List(c.Request.Context())
	if err != nil {
		respondError(c, "product-controller", "export products", err)
		return
	}
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="products.csv"`)
	c.Status(http.StatusOK)
	if err := catalog.ExportCSV(c.Writer, items); err != nil {
		logger.WithComponent("product-controller").Errorf("export products: %v", err)
	}
}

type importFailure struct {
	Line  int    `json:"line"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

// ImportCSV handles POST /api/admin/products/import. The CSV is read from the "file"
// form field or, for non-multipart requests, from the body. Rows are saved one by one;
// rows failing validation are reported and skipped.
func (pc *ProductController) ImportCSV(c *gin.Context) {
	body, err := csvBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer body.Close()

	rows, err := catalog.ImportCSV(io.LimitReader(body, maxCSVBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	imported := 0
	failures := []importFailure{}
	for i, p := range rows {
		if _, err := pc.products.Save(ctx, p, ""); err != nil {
			if !errors.Is(err, facade.ErrInvalid) {
				respondError(c, "product-controller", "import products", err)
				return
			}
			failures = append(failures, importFailure{Line: i + 2, Code: p.Code, Error: err.Error()})
			continue
		}
		imported++
	}
	logger.WithComponent("product-controller").Infof("csv import: %d saved, %d rejected", imported, len(failures))
	c.JSON(http.StatusOK, gin.H{"imported": imported, "failed": failures})
}

func csvBody(c *gin.Context) (io.ReadCloser, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, errors.New("missing csv file")
		}
		return fh.Open()
	}
	if c.Request.Body == nil {
		return nil, errors.New("missing csv body")
	}
	return c.Request.Body, nil
}

// Live handles GET /api/admin/products/live: a server-sent event stream of remote
// product changes. The subscription ends with the request.
func (pc *ProductController) Live(c *gin.Context) {
	ctx := c.Request.Context()
	events, err := pc.products.Watch(ctx)
	if err != nil {
		if errors.Is(err, remote.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "remote store not configured"})
			return
		}
		logger.WithComponent("product-controller").Warnf("live products: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "remote store unavailable"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	logger.WithComponent("product-controller").Debugf("live products subscription opened")
	for {
		select {
		case <-ctx.Done():
			logger.WithComponent("product-controller").Debugf("live products subscription closed")
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.SSEvent(string(ev.Type), ev)
			c.Writer.Flush()
		}
	}
}
