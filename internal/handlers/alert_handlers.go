package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cloudpanel/internal/models"
	"cloudpanel/internal/store"
)

// AlertHandlers exposes the alert lifecycle and threshold settings.
type AlertHandlers struct {
	alerts *store.AlertsStore
}

func NewAlertHandlers(alerts *store.AlertsStore) *AlertHandlers {
	return &AlertHandlers{alerts: alerts}
}

// List returns all alerts with the counter block.
func (h *AlertHandlers) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"alerts":  h.alerts.Alerts(),
		"metrics": h.alerts.Metrics(),
	})
}

// Add creates an alert from a manual submission.
func (h *AlertHandlers) Add(c *gin.Context) {
	var in AlertSubmission
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if err := ValidateInput(in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	a := h.alerts.AddAlert(store.AlertInput{
		Type:           models.AlertType(in.Type),
		Title:          in.Title,
		Message:        in.Message,
		Category:       in.Category,
		Severity:       in.Severity,
		ActionRequired: in.ActionRequired,
	})
	c.JSON(http.StatusCreated, a)
}

// ToggleRead flips the read flag.
func (h *AlertHandlers) ToggleRead(c *gin.Context) {
	if out := h.alerts.ToggleRead(c.Param("id")); !out.Found() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Resolve deactivates an alert.
func (h *AlertHandlers) Resolve(c *gin.Context) {
	if out := h.alerts.MarkAsResolved(c.Param("id")); !out.Found() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
		return
	}
	ToastSuccess(c, "Alert resolved", "")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Delete removes an alert.
func (h *AlertHandlers) Delete(c *gin.Context) {
	if out := h.alerts.DeleteAlert(c.Param("id")); !out.Found() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GenerateMock replaces all alerts with the fixed demo catalog.
func (h *AlertHandlers) GenerateMock(c *gin.Context) {
	alerts := h.alerts.GenerateMockAlerts()
	c.JSON(http.StatusOK, alerts)
}

// Reset clears alerts and counters, leaving settings alone.
func (h *AlertHandlers) Reset(c *gin.Context) {
	h.alerts.ResetStore()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetSettings returns the threshold settings singleton.
func (h *AlertHandlers) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.alerts.Settings())
}

// UpdateSettings shallow-merges a partial settings update.
func (h *AlertHandlers) UpdateSettings(c *gin.Context) {
	var patch models.AlertSettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	settings := h.alerts.UpdateSettings(patch)
	ToastSuccess(c, "Settings saved", "")
	c.JSON(http.StatusOK, settings)
}
