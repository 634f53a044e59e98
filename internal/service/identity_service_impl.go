package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/clubdeck/internal/auth"
	"github.com/alexanderramin/clubdeck/internal/domain"
)

type identityService struct {
	board    *Board
	hasher   *auth.Hasher
	observer UseCaseObserver
}

func NewIdentityService(board *Board, hasher *auth.Hasher, observers ...UseCaseObserver) IdentityService {
	return &identityService{board: board, hasher: hasher, observer: useCaseObserverOrNoop(observers)}
}

// Authenticate checks a credential. Unknown users and wrong passwords fail
// with the same domain.ErrAuth. A legacy plaintext credential is rehashed
// after a successful check.
func (s *identityService) Authenticate(ctx context.Context, username, password string) (u domain.User, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name: "authenticate", Actor: username, StartedAt: startedAt,
			Duration: time.Since(startedAt), Success: err == nil, Err: err,
		})
	}()

	var found bool
	_ = s.board.read(func(st *domain.State) error {
		u, found = st.Users[username]
		return nil
	})
	if !found {
		s.hasher.VerifyMissing(password)
		return domain.User{}, domain.ErrAuth
	}
	if !s.hasher.Verify(u.Password, password) {
		return domain.User{}, domain.ErrAuth
	}

	if s.hasher.NeedsUpgrade(u.Password) {
		s.upgrade(ctx, username, password)
	}
	return publicUser(u), nil
}

func (s *identityService) upgrade(ctx context.Context, username, password string) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.board.log.Warnw("password rehash failed", "user", username, "error", err)
		return
	}
	if err := s.board.mutate(ctx, "rehash password", func(st *domain.State) error {
		return st.SetPassword(username, hashed)
	}); err != nil {
		s.board.log.Warnw("password rehash failed", "user", username, "error", err)
	}
}

func (s *identityService) AddUser(ctx context.Context, sess *auth.Session, u domain.User) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, useCaseEvent("add-user", sess, startedAt, err,
			map[string]any{"user": u.Username, "role": string(u.Role)}))
	}()

	if _, err := authorize(sess, auth.ActionManageTeams, u.Team); err != nil {
		return err
	}
	if err := u.Validate(); err != nil {
		return err
	}
	hashed, err := s.hasher.Hash(u.Password)
	if err != nil {
		return fmt.Errorf("add user %q: %w", u.Username, err)
	}
	u.Password = hashed
	return s.board.mutate(ctx, "add user "+u.Username, func(st *domain.State) error {
		return st.AddUser(u)
	})
}

func (s *identityService) ListUsers(_ context.Context, sess *auth.Session) ([]domain.User, error) {
	if _, err := authorize(sess, auth.ActionViewMembers, ""); err != nil {
		return nil, err
	}
	var out []domain.User
	_ = s.board.read(func(st *domain.State) error {
		out = publicUsers(st.UserList())
		return nil
	})
	return out, nil
}
