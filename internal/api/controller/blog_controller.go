package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bassista/go_storefront/internal/repository"
)

// BlogView is the public rendering of a blog post.
type BlogView struct {
	ID       string                       `json:"id"`
	Title    string                       `json:"title"`
	Date     string                       `json:"date"`
	Author   string                       `json:"author"`
	Image    string                       `json:"image,omitempty"`
	Sections []repository.RenderedSection `json:"sections"`
}

func newBlogView(b repository.Blog) BlogView {
	return BlogView{
		ID:       b.ID,
		Title:    b.Title,
		Date:     b.Date,
		Author:   b.Author,
		Image:    b.Image,
		Sections: b.Sections.Render(),
	}
}

// BlogController serves the magazine publicly and manages posts for admins.
type BlogController struct {
	crud *CrudController[repository.Blog]
}

func NewBlogController(blogs CrudService[repository.Blog]) *BlogController {
	return &BlogController{
		crud: &CrudController[repository.Blog]{Service: blogs, Resource: "blog", Plural: "blogs"},
	}
}

func (bc *BlogController) RegisterAdminRoutes(rg *gin.RouterGroup) {
	bc.crud.RegisterCrudRoutes(rg)
}

// PublicBlogs handles GET /api/blogs, newest first.
func (bc *BlogController) PublicBlogs(c *gin.Context) {
	items, err := bc.crud.Service.List(c.Request.Context())
	if err != nil {
		respondError(c, "blog-controller", "read blogs", err)
		return
	}
	views := make([]BlogView, 0, len(items))
	for _, b := range items {
		views = append(views, newBlogView(b))
	}
	c.JSON(http.StatusOK, views)
}

// PublicBlog handles GET /api/blogs/:id.
func (bc *BlogController) PublicBlog(c *gin.Context) {
	b, err := bc.crud.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "blog-controller", "read blog", err)
		return
	}
	c.JSON(http.StatusOK, newBlogView(b))
}
