package models

import "time"

// UrgencyLevel classifies how pressing a support ticket is.
type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "low"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

// TicketStatus is the ticket lifecycle state. A ticket is closed exactly
// when a response has been recorded.
type TicketStatus string

const (
	TicketOpen   TicketStatus = "open"
	TicketClosed TicketStatus = "closed"
)

// Ticket is a user-submitted support request. Admin identity fields are
// populated when an admin responds manually; automatic responses close the
// ticket without one.
type Ticket struct {
	ID                  string       `json:"id"`
	ServerName          string       `json:"server_name"`
	Email               string       `json:"email"`
	ProblemType         string       `json:"problem_type"`
	ProblemDate         string       `json:"problem_date"`
	UrgencyLevel        UrgencyLevel `json:"urgency_level"`
	Details             string       `json:"details"`
	Status              TicketStatus `json:"status"`
	Response            string       `json:"response,omitempty"`
	AdminID             string       `json:"admin_id,omitempty"`
	AdminName           string       `json:"admin_name,omitempty"`
	AdminEmail          string       `json:"admin_email,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
	IsAutomaticQuestion bool         `json:"is_automatic_question,omitempty"`
}

// PredefinedAnswer is an admin-authored FAQ entry used for automatic
// ticket responses. Immutable once created.
type PredefinedAnswer struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
