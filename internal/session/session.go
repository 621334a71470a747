// Package session holds the active user identifier for a page/dashboard
// view. The identifier is a convenience label, not a credential: it is
// trusted at face value and anyone supplying the same string sees the
// same history. There is no expiry and no verification.
package session

import (
	"errors"
	"net/url"
	"strings"
	"sync"
)

// QueryParam carries the active identifier through the URL so dashboard
// views stay addressable and reload-safe.
const QueryParam = "userId"

// ErrEmptyIdentifier rejects a login with a blank identifier.
var ErrEmptyIdentifier = errors.New("session: empty identifier")

// State of the session: anonymous (forms disabled) or active.
type State int

const (
	Anonymous State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "anonymous"
}

// Session is safe for concurrent use.
type Session struct {
	mu     sync.Mutex
	userID string
}

// FromQuery hydrates a session from a URL query string. A missing or
// blank parameter yields an anonymous session.
func FromQuery(v url.Values) *Session {
	s := &Session{}
	if id := strings.TrimSpace(v.Get(QueryParam)); id != "" {
		s.userID = id
	}
	return s
}

// State reports whether an identifier is held.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == "" {
		return Anonymous
	}
	return Active
}

// UserID returns the held identifier, or "" when anonymous.
func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// Login transitions anonymous -> active with a non-empty trimmed identifier.
func (s *Session) Login(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrEmptyIdentifier
	}
	s.mu.Lock()
	s.userID = id
	s.mu.Unlock()
	return nil
}

// Logout clears the held identifier.
func (s *Session) Logout() {
	s.mu.Lock()
	s.userID = ""
	s.mu.Unlock()
}

// Reflect writes the session state into a query string: the identifier
// when active, removal of the parameter when anonymous.
func (s *Session) Reflect(v url.Values) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == "" {
		v.Del(QueryParam)
		return
	}
	v.Set(QueryParam, s.userID)
}
