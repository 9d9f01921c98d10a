package controller

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bassista/go_storefront/internal/logger"
	"github.com/bassista/go_storefront/internal/media"
)

const maxUploadBytes = 10 << 20

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

type MediaController struct {
	uploader media.Uploader
}

// NewMediaController accepts a nil uploader; uploads then answer 503.
func NewMediaController(uploader media.Uploader) *MediaController {
	return &MediaController{uploader: uploader}
}

// Upload handles POST /api/admin/media with a multipart "file" field.
func (mc *MediaController) Upload(c *gin.Context) {
	if mc.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": media.ErrNotConfigured.Error()})
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image file"})
		return
	}
	if fh.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 10MB"})
		return
	}
	if !imageExtensions[strings.ToLower(filepath.Ext(fh.Filename))] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
		return
	}

	file, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}
	defer file.Close()

	asset, err := mc.uploader.Upload(c.Request.Context(), fh.Filename, file)
	if err != nil {
		logger.WithComponent("media-controller").Errorf("upload %s: %v", fh.Filename, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
		return
	}
	c.JSON(http.StatusCreated, asset)
}

// Delete handles DELETE /api/admin/media/*publicId.
func (mc *MediaController) Delete(c *gin.Context) {
	if mc.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": media.ErrNotConfigured.Error()})
		return
	}
	publicID := strings.TrimPrefix(c.Param("publicId"), "/")
	if publicID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing public id"})
		return
	}
	if err := mc.uploader.Destroy(c.Request.Context(), publicID); err != nil {
		logger.WithComponent("media-controller").Errorf("destroy %s: %v", publicID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "image delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"publicId": publicID, "deleted": true})
}
