package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cloudpanel/internal/monitor"
)

// SystemHandlers exposes panel-host health for the admin dashboard.
type SystemHandlers struct {
	telemetry *monitor.Telemetry
}

func NewSystemHandlers(telemetry *monitor.Telemetry) *SystemHandlers {
	return &SystemHandlers{telemetry: telemetry}
}

// Health returns the latest host telemetry sample.
func (h *SystemHandlers) Health(c *gin.Context) {
	snap := h.telemetry.Snapshot()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Telemetry not ready"})
		return
	}
	c.JSON(http.StatusOK, snap)
}
