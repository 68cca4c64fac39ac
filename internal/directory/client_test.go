package directory

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cloudpanel/internal/models"
)

func TestLookupByEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users" {
			t.Errorf("path = %q, want /users", r.URL.Path)
		}
		if got := r.URL.Query().Get("email"); got != "a@b.com" {
			t.Errorf("email query = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 7, "email": "a@b.com", "username": "alice", "rol": "admin"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	u, err := c.LookupByEmail("a@b.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if u == nil {
		t.Fatalf("expected a user")
	}
	if u.ID != "7" || u.Email != "a@b.com" || u.Username != "alice" {
		t.Fatalf("user mismatch: %+v", u)
	}
	if u.Role != models.RoleAdmin {
		t.Fatalf("rol field not mapped to role: %q", u.Role)
	}
}

func TestLookupUnknownRoleDefaultsToUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": "abc", "email": "x@y.com", "username": "x", "rol": "manager"}]`))
	}))
	defer srv.Close()

	u, err := NewClient(srv.URL, time.Second).LookupByEmail("x@y.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if u.Role != models.RoleUser {
		t.Fatalf("unknown role must default to user, got %q", u.Role)
	}
	if u.ID != "abc" {
		t.Fatalf("string ids must pass through, got %q", u.ID)
	}
}

func TestLookupEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	u, err := NewClient(srv.URL, time.Second).LookupByEmail("nobody@x.com")
	if err != nil {
		t.Fatalf("empty result must not be an error: %v", err)
	}
	if u != nil {
		t.Fatalf("expected nil user for an empty result, got %+v", u)
	}
}

func TestLookupErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, time.Second).LookupByEmail("a@b.com"); err == nil {
		t.Fatalf("expected error for non-200 status")
	}
}

func TestLookupUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	if _, err := NewClient(srv.URL, time.Second).LookupByEmail("a@b.com"); err == nil {
		t.Fatalf("expected error for unreachable service")
	}
}
