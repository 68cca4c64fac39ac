package store

import (
	"sync"

	"github.com/google/uuid"

	"cloudpanel/internal/models"
)

// identitySnapshot is the persisted shape of the identity store.
type identitySnapshot struct {
	CurrentUser *models.User  `json:"current_user"`
	LocalUsers  []models.User `json:"local_users"`
}

// IdentityStore holds the session user and the locally-registered user
// directory. None of its actions return errors; absence is a zero value.
type IdentityStore struct {
	mu      sync.RWMutex
	current *models.User
	users   []models.User
	snaps   Snapshotter
}

// NewIdentityStore rehydrates from the auth slot when a snapshotter is
// provided; nil keeps the store memory-only (tests).
func NewIdentityStore(snaps Snapshotter) (*IdentityStore, error) {
	s := &IdentityStore{snaps: snaps}
	if snaps != nil {
		var snap identitySnapshot
		if err := snaps.Load(SlotAuth, &snap); err != nil {
			return nil, err
		}
		s.current = snap.CurrentUser
		s.users = snap.LocalUsers
	}
	return s, nil
}

// persistLocked writes the current snapshot. Caller must hold the write lock.
func (s *IdentityStore) persistLocked() {
	if s.snaps == nil {
		return
	}
	_ = s.snaps.Save(SlotAuth, identitySnapshot{CurrentUser: s.current, LocalUsers: s.users})
}

// SetCurrentUser replaces the session user. Passing nil clears the session.
// No validation is applied.
func (s *IdentityStore) SetCurrentUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.current = nil
	} else {
		cp := *u
		s.current = &cp
	}
	s.persistLocked()
}

// CurrentUser returns a copy of the session user, or nil.
func (s *IdentityStore) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// IsAuthenticated reports whether a session user is set.
func (s *IdentityStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// RegisterLocalUser appends a new user with a fresh id and returns the
// created record. Duplicate emails are NOT checked here; callers pre-check
// with FindLocalUserByEmail before registering.
func (s *IdentityStore) RegisterLocalUser(email, username, passwordHash string, role models.Role) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		Role:         role,
		PasswordHash: passwordHash,
	}
	s.users = append(s.users, u)
	s.persistLocked()
	return u
}

// FindLocalUserByEmail scans the directory for an exact, case-sensitive
// email match and returns the first hit.
func (s *IdentityStore) FindLocalUserByEmail(email string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

// IsAdmin reports whether the session user has the admin role or the
// system-admin flag.
func (s *IdentityStore) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && (s.current.Role == models.RoleAdmin || s.current.IsSystemAdmin)
}

// IsUser reports whether the session user has the plain user role.
func (s *IdentityStore) IsUser() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.Role == models.RoleUser && !s.current.IsSystemAdmin
}

// Logout clears session fields only; the local directory persists.
func (s *IdentityStore) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.persistLocked()
}

// LocalUsers returns a snapshot copy of the directory.
func (s *IdentityStore) LocalUsers() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}
