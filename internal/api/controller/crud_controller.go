package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bassista/go_storefront/internal/facade"
	"github.com/bassista/go_storefront/internal/logger"
)

// CrudService is the subset of a facade collection used by the CRUD handlers.
type CrudService[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Save(ctx context.Context, item T, id string) (T, error)
	Update(ctx context.Context, id string, change func(item *T) error) (T, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CrudController provides generic CRUD handlers for a facade collection.
type CrudController[T any] struct {
	Service CrudService[T]
	// Resource is the singular route name, e.g. "product".
	Resource string
	// Plural is the list route name, e.g. "products".
	Plural string
}

func (cc *CrudController[T]) component() string { return cc.Resource + "-controller" }

// RegisterCrudRoutes registers the admin CRUD endpoints on the given router group.
func (cc *CrudController[T]) RegisterCrudRoutes(rg *gin.RouterGroup) {
	rg.GET("/"+cc.Plural, cc.GetAll)
	rg.GET("/"+cc.Resource+"/:id", cc.GetOne)
	rg.POST("/"+cc.Resource, cc.Create)
	rg.PUT("/"+cc.Resource+"/:id", cc.Update)
	rg.DELETE("/"+cc.Resource+"/:id", cc.Delete)
}

// GetAll handles GET requests to list all resources.
func (cc *CrudController[T]) GetAll(c *gin.Context) {
	items, err := cc.Service.List(c.Request.Context())
	if err != nil {
		respondError(c, cc.component(), "read "+cc.Plural, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetOne handles GET requests for a single resource.
func (cc *CrudController[T]) GetOne(c *gin.Context) {
	item, err := cc.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, cc.component(), "read "+cc.Resource, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create handles POST requests. An id in the payload turns the create into an overwrite.
func (cc *CrudController[T]) Create(c *gin.Context) {
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}
	saved, err := cc.Service.Save(c.Request.Context(), item, "")
	if err != nil {
		respondError(c, cc.component(), "save "+cc.Resource, err)
		return
	}
	logger.WithComponent(cc.component()).Debugf("%s saved", cc.Resource)
	c.JSON(http.StatusCreated, saved)
}

// Update handles PUT requests. The payload is decoded onto the stored resource,
// so omitted fields keep their values and present ones overwrite them.
func (cc *CrudController[T]) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + cc.Resource + " id"})
		return
	}
	body, err := c.GetRawData()
	if err != nil || !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: malformed JSON"})
		return
	}
	saved, err := cc.Service.Update(c.Request.Context(), id, func(item *T) error {
		if err := json.Unmarshal(body, item); err != nil {
			return fmt.Errorf("%w: %v", facade.ErrInvalid, err)
		}
		return nil
	})
	if err != nil {
		respondError(c, cc.component(), "save "+cc.Resource, err)
		return
	}
	logger.WithComponent(cc.component()).Debugf("%s %s updated", cc.Resource, id)
	c.JSON(http.StatusOK, saved)
}

// Delete handles DELETE requests to remove a resource by id.
func (cc *CrudController[T]) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + cc.Resource + " id"})
		return
	}
	deleted, err := cc.Service.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, cc.component(), "delete "+cc.Resource, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": cc.Resource + " not found"})
		return
	}
	logger.WithComponent(cc.component()).Debugf("%s %s deleted", cc.Resource, id)
	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}
