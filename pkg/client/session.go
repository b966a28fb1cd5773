package client

import "sync"

// Session holds the bearer token and the signed-in user. The caller owns it and
// may share one Session between several clients.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *User
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}

	u := *s.user

	return &u
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) Set(token string, user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.user = user
}

func (s *Session) Clear() {
	s.Set("", nil)
}
