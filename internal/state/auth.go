package state

import (
	"sync"

	"github.com/chukanavi/chukanavi/internal/model"
)

// AuthState holds the current user and token.
type AuthState struct {
	mu    sync.RWMutex
	user  *model.User
	token string

	notifier
}

// NewAuthState creates an empty AuthState.
func NewAuthState() *AuthState {
	return &AuthState{}
}

// Subscribe registers a listener invoked after every mutation.
func (s *AuthState) Subscribe(fn func()) Unsubscribe {
	return s.subscribe(fn)
}

// SetSession stores the logged-in user and token.
func (s *AuthState) SetSession(user *model.User, token string) {
	s.mu.Lock()
	if user != nil {
		copied := *user
		s.user = &copied
	} else {
		s.user = nil
	}
	s.token = token
	s.mu.Unlock()
	s.notify()
}

// Clear drops the session. Used on logout and auth failures.
func (s *AuthState) Clear() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
	s.notify()
}

// User returns the current user, or nil when logged out.
func (s *AuthState) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

// Token returns the current token, empty when logged out.
func (s *AuthState) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a session is present.
func (s *AuthState) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}
