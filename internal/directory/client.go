// Package directory implements the external user-lookup fallback used
// when a login email is not in the local directory.
package directory

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"cloudpanel/internal/models"
)

// directoryUser mirrors the wire shape of the placeholder endpoint. The
// role field arrives as "rol" and is mapped into the internal User shape.
type directoryUser struct {
	ID       json.Number `json:"id"`
	Email    string      `json:"email"`
	Username string      `json:"username"`
	Rol      string      `json:"rol"`
}

// Client queries the external directory service.
type Client struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a directory client for the given endpoint.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{BaseURL: baseURL, Timeout: timeout}
}

// LookupByEmail performs a GET user-by-email query and maps the response
// into the internal User shape. An empty result is (nil, nil).
func (c *Client) LookupByEmail(email string) (*models.User, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid directory URL: %w", err)
	}
	base.Path, err = url.JoinPath(base.Path, "users")
	if err != nil {
		return nil, fmt.Errorf("invalid directory URL: %w", err)
	}
	params := url.Values{}
	params.Add("email", email)
	base.RawQuery = params.Encode()

	client := &http.Client{Timeout: c.Timeout}
	resp, err := client.Get(base.String())
	if err != nil {
		return nil, fmt.Errorf("directory lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory service returned status %d", resp.StatusCode)
	}

	// The endpoint answers a filtered collection; the first entry wins.
	var users []directoryUser
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("failed to parse directory response: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}

	du := users[0]
	role := models.RoleUser
	if du.Rol == string(models.RoleAdmin) {
		role = models.RoleAdmin
	}
	return &models.User{
		ID:       du.ID.String(),
		Email:    du.Email,
		Username: du.Username,
		Role:     role,
	}, nil
}
