package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/clubdeck/internal/auth"
	"github.com/alexanderramin/clubdeck/internal/domain"
)

type eventService struct {
	board    *Board
	observer UseCaseObserver
}

func NewEventService(board *Board, observers ...UseCaseObserver) EventService {
	return &eventService{board: board, observer: useCaseObserverOrNoop(observers)}
}

// Create adds an event. Admin may leave the team empty for a public event;
// a Team Lead's event always belongs to the lead's team.
func (s *eventService) Create(ctx context.Context, sess *auth.Session, e domain.Event) (_ domain.Event, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, useCaseEvent("create-event", sess, startedAt, err,
			map[string]any{"title": e.Title, "team": e.Team}))
	}()

	u, err := actor(sess)
	if err != nil {
		return domain.Event{}, err
	}
	e.Title = strings.TrimSpace(e.Title)
	e.Team = strings.TrimSpace(e.Team)
	if e.Team == "" && auth.GrantFor(u.Role, auth.ActionManageEvents) == auth.GrantOwnTeam {
		e.Team = u.Team
	}
	if err := auth.Authorize(u, auth.ActionManageEvents, e.Team); err != nil {
		return domain.Event{}, err
	}
	err = s.board.mutate(ctx, "create event", func(st *domain.State) error {
		return st.AddEvent(e)
	})
	if err != nil {
		return domain.Event{}, err
	}
	return e, nil
}

// List returns the events visible to the session in insertion order: all of
// them for Admin, otherwise public ones plus the user's team's.
func (s *eventService) List(_ context.Context, sess *auth.Session) ([]domain.Event, error) {
	u, err := actor(sess)
	if err != nil {
		return nil, err
	}
	grant := auth.GrantFor(u.Role, auth.ActionViewEvents)
	if grant == auth.GrantNone {
		return nil, auth.Authorize(u, auth.ActionViewEvents, "")
	}
	out := []domain.Event{}
	_ = s.board.read(func(st *domain.State) error {
		for _, e := range st.Events {
			if grant == auth.GrantAll || e.IsPublic() || e.Team == u.Team {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, nil
}
