package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookkeeper/internal/services"
)

// MaintenanceHandler exposes backup and reconciliation.
type MaintenanceHandler struct {
	backupService    services.BackupService
	reconcileService services.ReconcileService
	now              services.Clock
}

func NewMaintenanceHandler(backupService services.BackupService, reconcileService services.ReconcileService, clock services.Clock) *MaintenanceHandler {
	return &MaintenanceHandler{backupService: backupService, reconcileService: reconcileService, now: clock}
}

func (h *MaintenanceHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.backupService.Export(&buf); err != nil {
		respondError(c, err)
		return
	}
	name := h.backupService.DefaultFileName(h.now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
}

func (h *MaintenanceHandler) Import(c *gin.Context) {
	counts, err := h.backupService.Import(c.Request.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Database imported", "counts": counts})
}

func (h *MaintenanceHandler) Audit(c *gin.Context) {
	report, err := h.reconcileService.Audit()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consistent": report.Consistent(), "report": report})
}

func (h *MaintenanceHandler) Rebuild(c *gin.Context) {
	result, err := h.reconcileService.Repair()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
