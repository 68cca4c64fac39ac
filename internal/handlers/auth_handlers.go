package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cloudpanel/internal/directory"
	"cloudpanel/internal/middleware"
	"cloudpanel/internal/models"
	"cloudpanel/internal/store"
	"cloudpanel/internal/utils"
)

// AuthHandlers wires registration and login against the identity store,
// with the external directory as a lookup fallback.
type AuthHandlers struct {
	identity  *store.IdentityStore
	auth      *middleware.AuthService
	directory *directory.Client
	log       *utils.Logger
}

func NewAuthHandlers(identity *store.IdentityStore, auth *middleware.AuthService, dir *directory.Client, log *utils.Logger) *AuthHandlers {
	return &AuthHandlers{identity: identity, auth: auth, directory: dir, log: log}
}

// sanitizedUser strips the password hash before a user leaves the API.
func sanitizedUser(u models.User) models.User {
	u.PasswordHash = ""
	return u
}

// Register creates a local account. The duplicate-email check lives here,
// not in the store; the store's contract is pre-check-then-register.
func (h *AuthHandlers) Register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	in.Email = middleware.SanitizeString(in.Email)
	in.Username = middleware.SanitizeString(in.Username)
	if err := ValidateInput(in); err != nil {
		ToastError(c, "Registration failed", err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if _, exists := h.identity.FindLocalUserByEmail(in.Email); exists {
		ToastError(c, "Registration failed", "Email already registered")
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	hash, err := h.auth.HashPassword(in.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}
	u := h.identity.RegisterLocalUser(in.Email, in.Username, hash, models.RoleUser)
	h.log.Writef("Registered local user %s", u.Email)
	ToastSuccess(c, "Welcome", "Account created")
	c.JSON(http.StatusCreated, sanitizedUser(u))
}

// Login authenticates against the local directory first and falls back to
// the external directory service. Failures come back as a LoginResult, not
// an error payload shape of their own.
func (h *AuthHandlers) Login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	in.Email = middleware.SanitizeString(in.Email)
	if err := ValidateInput(in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.LoginResult{Success: false, Error: err.Error()})
		return
	}

	if local, ok := h.identity.FindLocalUserByEmail(in.Email); ok {
		if !h.auth.CheckPassword(in.Password, local.PasswordHash) {
			h.log.Writef("Login failed for %s: password mismatch", in.Email)
			c.JSON(http.StatusUnauthorized, models.LoginResult{Success: false, Error: "Invalid email or password"})
			return
		}
		h.issueSession(c, local)
		return
	}

	// Local miss: consult the external directory.
	remote, err := h.directory.LookupByEmail(in.Email)
	if err != nil {
		h.log.Writef("Directory fallback failed for %s: %v", in.Email, err)
		c.JSON(http.StatusBadGateway, models.LoginResult{Success: false, Error: "Directory service unavailable"})
		return
	}
	if remote == nil {
		c.JSON(http.StatusUnauthorized, models.LoginResult{Success: false, Error: "Invalid email or password"})
		return
	}
	h.issueSession(c, *remote)
}

func (h *AuthHandlers) issueSession(c *gin.Context, u models.User) {
	token, err := h.auth.GenerateToken(&u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.LoginResult{Success: false, Error: "Failed to generate token"})
		return
	}
	h.identity.SetCurrentUser(&u)
	middleware.SetAuthCookie(c, token, h.auth.TokenExpiry())
	h.log.Writef("Login successful for %s", u.Email)
	clean := sanitizedUser(u)
	c.JSON(http.StatusOK, models.LoginResult{Success: true, User: &clean, Token: token})
}

// Logout clears the session; the local user directory persists.
func (h *AuthHandlers) Logout(c *gin.Context) {
	h.identity.Logout()
	middleware.ClearAuthCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the current session user.
func (h *AuthHandlers) Me(c *gin.Context) {
	u := h.identity.CurrentUser()
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":     sanitizedUser(*u),
		"is_admin": h.identity.IsAdmin(),
	})
}
