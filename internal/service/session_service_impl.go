package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/clubdeck/internal/auth"
	"github.com/alexanderramin/clubdeck/internal/domain"
)

type sessionService struct {
	board    *Board
	identity IdentityService
	tokens   *auth.TokenIssuer
	observer UseCaseObserver
}

// NewSessionService builds the login gate. tokens may be nil when sessions
// never outlive the process.
func NewSessionService(board *Board, identity IdentityService, tokens *auth.TokenIssuer, observers ...UseCaseObserver) SessionService {
	return &sessionService{board: board, identity: identity, tokens: tokens, observer: useCaseObserverOrNoop(observers)}
}

// Login replaces whatever identity sess held. On failure the session is left
// as it was.
func (s *sessionService) Login(ctx context.Context, sess *auth.Session, username, password string) (domain.User, error) {
	u, err := s.identity.Authenticate(ctx, username, password)
	if err != nil {
		return domain.User{}, err
	}
	sess.Begin(u, s.board.now())
	return u, nil
}

func (s *sessionService) Guest(ctx context.Context, sess *auth.Session) domain.User {
	u := auth.GuestUser()
	sess.Begin(u, s.board.now())
	s.observer.ObserveUseCase(ctx, UseCaseEvent{Name: "guest-login", Actor: u.Username, StartedAt: s.board.now(), Success: true})
	return u
}

func (s *sessionService) Logout(ctx context.Context, sess *auth.Session) {
	name := sessionName(sess)
	sess.Clear()
	s.observer.ObserveUseCase(ctx, UseCaseEvent{Name: "logout", Actor: name, StartedAt: s.board.now(), Success: true})
}

// Resume restores a session from a signed token. The user record is re-read
// so role and team changes made since the token was issued apply; a user
// that no longer exists fails with domain.ErrAuth.
func (s *sessionService) Resume(ctx context.Context, sess *auth.Session, token string) (u domain.User, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name: "resume-session", Actor: u.Username, StartedAt: startedAt,
			Duration: time.Since(startedAt), Success: err == nil, Err: err,
		})
	}()

	if s.tokens == nil {
		return domain.User{}, fmt.Errorf("resume session: %w", auth.ErrInvalidToken)
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return domain.User{}, err
	}
	if claims.Role == domain.RoleGuest {
		u = auth.GuestUser()
		sess.BeginWithID(claims.SessionID, u, claims.IssuedAt)
		return u, nil
	}

	var found bool
	_ = s.board.read(func(st *domain.State) error {
		u, found = st.Users[claims.Username]
		return nil
	})
	if !found {
		return domain.User{}, domain.ErrAuth
	}
	u = publicUser(u)
	sess.BeginWithID(claims.SessionID, u, claims.IssuedAt)
	return u, nil
}

func (s *sessionService) IssueToken(sess *auth.Session) (string, error) {
	if s.tokens == nil {
		return "", fmt.Errorf("issue token: %w", auth.ErrInvalidToken)
	}
	if !sess.Active() {
		return "", domain.ErrNoSession
	}
	return s.tokens.Issue(sess)
}

func (s *sessionService) VisibleActions(sess *auth.Session) ([]auth.Action, error) {
	u, err := actor(sess)
	if err != nil {
		return nil, err
	}
	return auth.VisibleActions(u.Role), nil
}
