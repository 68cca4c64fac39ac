package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"cloudpanel/internal/middleware"
	"cloudpanel/internal/models"
	"cloudpanel/internal/store"
)

// SupportHandlers exposes ticket and FAQ operations. Store lookups that
// miss are 404s here; the store itself stays silent about them.
type SupportHandlers struct {
	support  *store.SupportStore
	identity *store.IdentityStore
}

func NewSupportHandlers(support *store.SupportStore, identity *store.IdentityStore) *SupportHandlers {
	return &SupportHandlers{support: support, identity: identity}
}

// SubmitTicket validates and creates a new open ticket.
func (h *SupportHandlers) SubmitTicket(c *gin.Context) {
	var in TicketSubmission
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	SanitizeTicket(&in)
	if err := ValidateInput(in); err != nil {
		ToastError(c, "Ticket rejected", err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	t := h.support.AddTicket(store.TicketInput{
		ServerName:   in.ServerName,
		Email:        in.Email,
		ProblemType:  in.ProblemType,
		ProblemDate:  in.ProblemDate,
		UrgencyLevel: urgencyFromString(in.UrgencyLevel),
		Details:      in.Details,
	})
	ToastSuccess(c, "Ticket submitted", "Our team will get back to you")
	c.JSON(http.StatusCreated, t)
}

// ListTickets returns all tickets (admin) or the caller's own, newest
// first for history views.
func (h *SupportHandlers) ListTickets(c *gin.Context) {
	email := middleware.SessionEmail(c)
	var tickets = h.support.Tickets()
	if c.Query("scope") == "mine" {
		tickets = h.support.TicketsByEmail(email)
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
	c.JSON(http.StatusOK, tickets)
}

// OpenTickets returns open tickets in insertion order.
func (h *SupportHandlers) OpenTickets(c *gin.Context) {
	c.JSON(http.StatusOK, h.support.OpenTickets())
}

// Respond records an admin response and closes the ticket.
func (h *SupportHandlers) Respond(c *gin.Context) {
	var in RespondInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if err := ValidateInput(in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	admin := h.identity.CurrentUser()
	adminID, adminName, adminEmail := "", "", ""
	if admin != nil {
		adminID, adminName, adminEmail = admin.ID, admin.Username, admin.Email
	}
	if out := h.support.RespondToTicket(c.Param("id"), in.Response, adminID, adminName, adminEmail); !out.Found() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}
	ToastSuccess(c, "Response sent", "Ticket closed")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AutoRespond closes a ticket with a predefined answer.
func (h *SupportHandlers) AutoRespond(c *gin.Context) {
	if out := h.support.SendAutomaticResponse(c.Param("id"), c.Param("answer_id")); !out.Found() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket or answer not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CloseTicket closes without a response.
func (h *SupportHandlers) CloseTicket(c *gin.Context) {
	if out := h.support.CloseTicket(c.Param("id")); !out.Found() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteTicket removes a ticket.
func (h *SupportHandlers) DeleteTicket(c *gin.Context) {
	if out := h.support.DeleteTicket(c.Param("id")); !out.Found() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearClosed drops all closed tickets.
func (h *SupportHandlers) ClearClosed(c *gin.Context) {
	removed := h.support.ClearClosedTickets()
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// ListAnswers returns the FAQ catalog.
func (h *SupportHandlers) ListAnswers(c *gin.Context) {
	c.JSON(http.StatusOK, h.support.PredefinedAnswers())
}

// AddAnswer creates an FAQ entry.
func (h *SupportHandlers) AddAnswer(c *gin.Context) {
	var in struct {
		Question string `json:"question" binding:"required"`
		Answer   string `json:"answer" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question and answer are required"})
		return
	}
	pa := h.support.AddPredefinedAnswer(middleware.SanitizeString(in.Question), middleware.SanitizeString(in.Answer))
	c.JSON(http.StatusCreated, pa)
}

func urgencyFromString(raw string) models.UrgencyLevel {
	switch raw {
	case "medium":
		return models.UrgencyMedium
	case "high":
		return models.UrgencyHigh
	case "critical":
		return models.UrgencyCritical
	default:
		return models.UrgencyLow
	}
}

// DeleteAnswer removes an FAQ entry.
func (h *SupportHandlers) DeleteAnswer(c *gin.Context) {
	if out := h.support.DeletePredefinedAnswer(c.Param("id")); !out.Found() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
