package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bassista/go_storefront/internal/repository"
)

// CategoryController serves categories publicly and manages them for admins.
type CategoryController struct {
	crud *CrudController[repository.Category]
}

func NewCategoryController(categories CrudService[repository.Category]) *CategoryController {
	return &CategoryController{
		crud: &CrudController[repository.Category]{Service: categories, Resource: "category", Plural: "categories"},
	}
}

func (cc *CategoryController) RegisterAdminRoutes(rg *gin.RouterGroup) {
	cc.crud.RegisterCrudRoutes(rg)
}

// PublicCategories handles GET /api/categories.
func (cc *CategoryController) PublicCategories(c *gin.Context) {
	items, err := cc.crud.Service.List(c.Request.Context())
	if err != nil {
		respondError(c, "category-controller", "read categories", err)
		return
	}
	c.JSON(http.StatusOK, items)
}
