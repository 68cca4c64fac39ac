package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cloudpanel/internal/middleware"
	"cloudpanel/internal/models"
	"cloudpanel/internal/store"
)

// ServerHandlers exposes the catalog, the recommendation flow, and the
// simulated instance lifecycle.
type ServerHandlers struct {
	servers *store.ServersStore
}

func NewServerHandlers(servers *store.ServersStore) *ServerHandlers {
	return &ServerHandlers{servers: servers}
}

// Catalog returns the static specification categories and plans.
func (h *ServerHandlers) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"specifications": store.SpecificationCatalog(),
		"plans":          store.PlanCatalog(),
	})
}

// Recommend scores the plans against a requirement selection.
func (h *ServerHandlers) Recommend(c *gin.Context) {
	var in struct {
		SelectedSpecs    []string `json:"selected_specs"`
		SelectedSubSpecs []string `json:"selected_sub_specs"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	recs := h.servers.RecommendServers(in.SelectedSpecs, in.SelectedSubSpecs)
	if recs == nil {
		recs = []models.ScoredPlan{}
	}
	c.JSON(http.StatusOK, recs)
}

// GetRequirements returns the current selection, or 204 when none is set.
func (h *ServerHandlers) GetRequirements(c *gin.Context) {
	req := h.servers.Requirements()
	if req == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, req)
}

// SetRequirements replaces the selection wholesale.
func (h *ServerHandlers) SetRequirements(c *gin.Context) {
	var req models.UserServerRequirements
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	req.AdditionalNotes = middleware.SanitizeString(req.AdditionalNotes)
	h.servers.SetRequirements(req)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearRequirements drops the selection.
func (h *ServerHandlers) ClearRequirements(c *gin.Context) {
	h.servers.ClearRequirements()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListInstances returns all instances with metrics and events.
func (h *ServerHandlers) ListInstances(c *gin.Context) {
	c.JSON(http.StatusOK, h.servers.Instances())
}

// GetInstance returns one instance.
func (h *ServerHandlers) GetInstance(c *gin.Context) {
	inst, ok := h.servers.InstanceByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Instance not found"})
		return
	}
	c.JSON(http.StatusOK, inst)
}

// CreateInstance provisions a stopped instance from a plan.
func (h *ServerHandlers) CreateInstance(c *gin.Context) {
	var in InstanceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	in.Name = middleware.SanitizeString(in.Name)
	if err := ValidateInput(in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	inst, ok := h.servers.CreateInstance(in.PlanID, in.Name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}
	ToastSuccess(c, "Server created", inst.Name)
	c.JSON(http.StatusCreated, inst)
}

// DeleteInstance removes an instance, cancelling any pending transition.
func (h *ServerHandlers) DeleteInstance(c *gin.Context) {
	if out := h.servers.DeleteInstance(c.Param("id")); !out.Found() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Instance not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// lifecycle translates an OpStatus into the HTTP response for a
// start/stop/restart request.
func (h *ServerHandlers) lifecycle(c *gin.Context, op *store.LifecycleOp, status store.OpStatus, action string) {
	switch status {
	case store.OpNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Instance not found"})
	case store.OpRejectedInFlight:
		ToastWarn(c, "Operation pending", "Another transition is already in progress")
		c.JSON(http.StatusConflict, gin.H{"error": "Transition already in progress"})
	default:
		c.JSON(http.StatusAccepted, gin.H{
			"status":   "scheduled",
			"action":   action,
			"ends_at":  op.Ends,
			"instance": op.InstanceID,
		})
	}
}

// Start schedules the delayed flip to running.
func (h *ServerHandlers) Start(c *gin.Context) {
	op, status := h.servers.StartInstance(c.Param("id"))
	h.lifecycle(c, op, status, "start")
}

// Stop schedules the delayed flip to stopped.
func (h *ServerHandlers) Stop(c *gin.Context) {
	op, status := h.servers.StopInstance(c.Param("id"))
	h.lifecycle(c, op, status, "stop")
}

// Restart schedules stop-then-start.
func (h *ServerHandlers) Restart(c *gin.Context) {
	op, status := h.servers.RestartInstance(c.Param("id"))
	h.lifecycle(c, op, status, "restart")
}

// CancelTransition aborts a pending lifecycle operation.
func (h *ServerHandlers) CancelTransition(c *gin.Context) {
	op, ok := h.servers.PendingOp(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending transition"})
		return
	}
	if !op.Cancel() {
		c.JSON(http.StatusConflict, gin.H{"error": "Transition already completed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListEvents returns an instance's lifecycle log.
func (h *ServerHandlers) ListEvents(c *gin.Context) {
	inst, ok := h.servers.InstanceByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Instance not found"})
		return
	}
	c.JSON(http.StatusOK, inst.Events)
}

// DeleteEvent removes one event; instance status is untouched.
func (h *ServerHandlers) DeleteEvent(c *gin.Context) {
	if out := h.servers.DeleteEvent(c.Param("id"), c.Param("event_id")); !out.Found() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Instance or event not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
