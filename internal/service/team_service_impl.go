package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/clubdeck/internal/auth"
	"github.com/alexanderramin/clubdeck/internal/domain"
)

type teamService struct {
	board           *Board
	hasher          *auth.Hasher
	defaultPassword string
	observer        UseCaseObserver
}

// NewTeamService builds the team registry. defaultPassword is given to
// accounts the registry creates without an explicit password.
func NewTeamService(board *Board, hasher *auth.Hasher, defaultPassword string, observers ...UseCaseObserver) TeamService {
	return &teamService{
		board:           board,
		hasher:          hasher,
		defaultPassword: defaultPassword,
		observer:        useCaseObserverOrNoop(observers),
	}
}

func (s *teamService) Create(ctx context.Context, sess *auth.Session, name, lead string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, useCaseEvent("create-team", sess, startedAt, err,
			map[string]any{"team": name, "lead": lead}))
	}()

	if _, err := authorize(sess, auth.ActionManageTeams, name); err != nil {
		return err
	}
	var leadPassword string
	if strings.TrimSpace(lead) != "" {
		if leadPassword, err = s.hasher.Hash(s.defaultPassword); err != nil {
			return fmt.Errorf("create team %q: %w", name, err)
		}
	}
	return s.board.mutate(ctx, "create team "+name, func(st *domain.State) error {
		return st.CreateTeam(name, lead, leadPassword)
	})
}

// AddMember creates the account and puts it on the roster in one step.
func (s *teamService) AddMember(ctx context.Context, sess *auth.Session, team, username, password string, role domain.Role) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, useCaseEvent("add-member", sess, startedAt, err,
			map[string]any{"team": team, "user": username, "role": string(role)}))
	}()

	if _, err := authorize(sess, auth.ActionManageTeams, team); err != nil {
		return err
	}
	if role == "" {
		role = domain.RoleMember
	}
	if password == "" {
		password = s.defaultPassword
	}
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("add member %q: %w", username, err)
	}
	u := domain.User{Username: strings.TrimSpace(username), Password: hashed, Role: role, Team: team}
	return s.board.mutate(ctx, "add member "+u.Username, func(st *domain.State) error {
		return st.AddMember(team, u)
	})
}

func (s *teamService) ListMembers(_ context.Context, sess *auth.Session, team string) ([]domain.User, error) {
	u, err := actor(sess)
	if err != nil {
		return nil, err
	}
	team = scopeTeam(u, team)
	if err := auth.Authorize(u, auth.ActionViewTeams, team); err != nil {
		return nil, err
	}
	var out []domain.User
	err = s.board.read(func(st *domain.State) error {
		members, err := st.Members(team)
		out = publicUsers(members)
		return err
	})
	return out, err
}

// List returns the teams the session may see, ordered by name.
func (s *teamService) List(_ context.Context, sess *auth.Session) ([]domain.Team, error) {
	u, err := actor(sess)
	if err != nil {
		return nil, err
	}
	grant := auth.GrantFor(u.Role, auth.ActionViewTeams)
	if grant == auth.GrantNone {
		return nil, auth.Authorize(u, auth.ActionViewTeams, "")
	}
	var out []domain.Team
	_ = s.board.read(func(st *domain.State) error {
		for _, t := range st.TeamList() {
			if grant == auth.GrantAll || t.Name == u.Team {
				out = append(out, t)
			}
		}
		return nil
	})
	return out, nil
}

// Dashboard shows one team's lead, roster and board. An empty team means the
// session user's own.
func (s *teamService) Dashboard(_ context.Context, sess *auth.Session, team string) (*TeamView, error) {
	u, err := actor(sess)
	if err != nil {
		return nil, err
	}
	team = scopeTeam(u, team)
	if team == "" {
		return nil, fmt.Errorf("team name is required: %w", domain.ErrInvalidInput)
	}
	if err := auth.Authorize(u, auth.ActionViewTeams, team); err != nil {
		return nil, err
	}
	view := &TeamView{}
	err = s.board.read(func(st *domain.State) error {
		t, err := st.Team(team)
		if err != nil {
			return err
		}
		members, err := st.Members(team)
		if err != nil {
			return err
		}
		view.Team = t
		view.Members = publicUsers(members)
		view.Board = boardView(st, team)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
