package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bassista/go_storefront/internal/logger"
	"github.com/bassista/go_storefront/internal/repository"
)

// SettingsService is the settings repository of the facade.
type SettingsService interface {
	Get(ctx context.Context) (repository.Settings, error)
	Save(ctx context.Context, patch repository.SettingsPatch) (repository.Settings, error)
}

type SettingsController struct {
	settings SettingsService
}

func NewSettingsController(settings SettingsService) *SettingsController {
	return &SettingsController{settings: settings}
}

// GetSettings handles GET /api/settings.
func (sc *SettingsController) GetSettings(c *gin.Context) {
	s, err := sc.settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, "settings-controller", "read settings", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// PatchSettings handles PATCH /api/admin/settings. Absent fields keep their value.
func (sc *SettingsController) PatchSettings(c *gin.Context) {
	var patch repository.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}
	s, err := sc.settings.Save(c.Request.Context(), patch)
	if err != nil {
		respondError(c, "settings-controller", "save settings", err)
		return
	}
	logger.WithComponent("settings-controller").Infof("settings updated")
	c.JSON(http.StatusOK, s)
}
