package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bassista/go_storefront/internal/facade"
	"github.com/bassista/go_storefront/internal/logger"
)

// Backuper writes a snapshot of every collection and returns its location.
type Backuper interface {
	Backup(ctx context.Context) (string, error)
}

// StatusReporter describes the remote link and pending reconciliations.
type StatusReporter interface {
	Status(ctx context.Context) facade.Status
}

type AdminController struct {
	backup Backuper
	status StatusReporter
}

func NewAdminController(backup Backuper, status StatusReporter) *AdminController {
	return &AdminController{backup: backup, status: status}
}

// Backup handles POST /api/admin/backup.
func (ac *AdminController) Backup(c *gin.Context) {
	path, err := ac.backup.Backup(c.Request.Context())
	if err != nil {
		respondError(c, "admin-controller", "write backup", err)
		return
	}
	logger.WithComponent("admin-controller").Infof("backup written to %s", path)
	c.JSON(http.StatusOK, gin.H{"path": path})
}

// Status handles GET /api/admin/status.
func (ac *AdminController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, ac.status.Status(c.Request.Context()))
}
