package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"cloudpanel/internal/middleware"
)

// Store actions never validate or fail; everything a user can get wrong is
// checked here at the boundary before a store is touched.

var validate = validator.New()

// RegisterInput is the raw registration request body.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput is the raw login request body.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TicketSubmission is the raw ticket form body.
type TicketSubmission struct {
	ServerName   string `json:"server_name" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email"`
	ProblemType  string `json:"problem_type" validate:"required"`
	ProblemDate  string `json:"problem_date"`
	UrgencyLevel string `json:"urgency_level" validate:"required,oneof=low medium high critical"`
	Details      string `json:"details" validate:"required,max=4000"`
}

// RespondInput is the admin response body for a ticket.
type RespondInput struct {
	Response string `json:"response" validate:"required,max=4000"`
}

// AlertSubmission is the manual alert creation body.
type AlertSubmission struct {
	Type           string `json:"type" validate:"required,oneof=critical warning info success"`
	Title          string `json:"title" validate:"required,max=200"`
	Message        string `json:"message" validate:"required,max=1000"`
	Category       string `json:"category" validate:"required,max=50"`
	Severity       int    `json:"severity" validate:"required,min=1,max=5"`
	ActionRequired bool   `json:"action_required"`
}

// InstanceInput is the create-instance body.
type InstanceInput struct {
	PlanID string `json:"plan_id" validate:"required"`
	Name   string `json:"name" validate:"required,min=3,max=100"`
}

// ValidateInput runs struct validation and flattens the first failure to a
// user-facing message.
func ValidateInput(v any) error {
	if err := validate.Struct(v); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("field %q failed %q validation", e.Field(), e.Tag())
		}
		return err
	}
	return nil
}

// SanitizeTicket normalizes free-text ticket fields in place.
func SanitizeTicket(in *TicketSubmission) {
	in.ServerName = middleware.SanitizeString(in.ServerName)
	in.Email = middleware.SanitizeString(in.Email)
	in.ProblemType = middleware.SanitizeString(in.ProblemType)
	in.Details = middleware.SanitizeString(in.Details)
}
