// Package models defines the records held by the panel stores: users,
// support tickets, alerts, and server catalog/instance state.
package models

// Role represents a user's role in the panel.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is an account known to the panel, either registered locally or
// resolved through the external directory fallback.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	Role          Role   `json:"role"`
	IsSystemAdmin bool   `json:"is_system_admin,omitempty"`
	// PasswordHash is set only for locally registered users and never
	// leaves the store in API responses.
	PasswordHash string `json:"password_hash,omitempty"`
}

// LoginResult is the non-throwing outcome of a login attempt. Failures are
// carried in Error rather than raised.
type LoginResult struct {
	Success bool   `json:"success"`
	User    *User  `json:"user,omitempty"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
}
