package auth

import (
	"sync"
	"time"

	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/google/uuid"
)

// GuestUsername is the display name of an anonymous session.
const GuestUsername = "guest"

// Session holds at most one identity. It starts empty, is filled by a login
// and emptied by Clear; after Clear every call to Current fails.
type Session struct {
	mu       sync.RWMutex
	id       uuid.UUID
	issuedAt time.Time
	user     *domain.User
}

func NewSession() *Session {
	return &Session{}
}

// Begin replaces any identity the session held.
func (s *Session) Begin(u domain.User, now time.Time) {
	s.BeginWithID(uuid.New(), u, now)
}

// BeginWithID restores a session under a known id, used when resuming from a
// token.
func (s *Session) BeginWithID(id uuid.UUID, u domain.User, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Password = ""
	s.id = id
	s.issuedAt = now
	s.user = &u
}

// Current returns the signed-in user or domain.ErrNoSession.
func (s *Session) Current() (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, domain.ErrNoSession
	}
	return *s.user, nil
}

func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Session) ID() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

func (s *Session) IssuedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.issuedAt
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = uuid.Nil
	s.issuedAt = time.Time{}
	s.user = nil
}

// GuestUser is the identity behind an anonymous session.
func GuestUser() domain.User {
	return domain.User{Username: GuestUsername, Role: domain.RoleGuest}
}
