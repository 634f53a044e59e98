package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/clubdeck/internal/auth"
	"github.com/alexanderramin/clubdeck/internal/domain"
)

type taskService struct {
	board           *Board
	strictAssignees bool
	observer        UseCaseObserver
}

// NewTaskService builds the task board. With strictAssignees set, an
// assignee must be on the task's team roster.
func NewTaskService(board *Board, strictAssignees bool, observers ...UseCaseObserver) TaskService {
	return &taskService{board: board, strictAssignees: strictAssignees, observer: useCaseObserverOrNoop(observers)}
}

func (s *taskService) checkAssignee(st *domain.State, team, assignee string) error {
	if !s.strictAssignees || assignee == "" {
		return nil
	}
	t, err := st.Team(team)
	if err != nil {
		return err
	}
	if !t.HasMember(assignee) {
		return fmt.Errorf("%q on team %q: %w", assignee, team, domain.ErrNotTeamMember)
	}
	return nil
}

func (s *taskService) Create(ctx context.Context, sess *auth.Session, in domain.TaskInput) (task domain.Task, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, useCaseEvent("create-task", sess, startedAt, err,
			map[string]any{"team": in.Team, "task_id": task.ID}))
	}()

	u, err := actor(sess)
	if err != nil {
		return domain.Task{}, err
	}
	in.Team = scopeTeam(u, in.Team)
	if err := auth.Authorize(u, auth.ActionCreateTask, in.Team); err != nil {
		return domain.Task{}, err
	}
	in.CreatedBy = u.Username
	in.Assignee = strings.TrimSpace(in.Assignee)

	err = s.board.mutate(ctx, "create task", func(st *domain.State) error {
		if _, err := st.Team(in.Team); err != nil {
			return err
		}
		if err := s.checkAssignee(st, in.Team, in.Assignee); err != nil {
			return err
		}
		var err error
		task, err = st.CreateTask(in, s.board.now())
		return err
	})
	if err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// updateTask authorizes action against the task's team and applies fn, all
// under one write lock.
func (s *taskService) updateTask(ctx context.Context, sess *auth.Session, action auth.Action, id int64, reason string, fn func(st *domain.State, t domain.Task) error) error {
	u, err := actor(sess)
	if err != nil {
		return err
	}
	return s.board.mutate(ctx, reason, func(st *domain.State) error {
		t, err := st.Task(id)
		if err != nil {
			return err
		}
		if err := auth.Authorize(u, action, t.Team); err != nil {
			return err
		}
		return fn(st, t)
	})
}

func (s *taskService) SetStatus(ctx context.Context, sess *auth.Session, id int64, status domain.TaskStatus) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, useCaseEvent("move-task", sess, startedAt, err,
			map[string]any{"task_id": id, "status": string(status)}))
	}()

	if !status.Valid() {
		return fmt.Errorf("status %q: %w", status, domain.ErrInvalidInput)
	}
	return s.updateTask(ctx, sess, auth.ActionMoveTask, id, fmt.Sprintf("move task %d", id),
		func(st *domain.State, _ domain.Task) error {
			return st.SetTaskStatus(id, status)
		})
}

// SetAssignee sets the assignee; an empty username unassigns.
func (s *taskService) SetAssignee(ctx context.Context, sess *auth.Session, id int64, username string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, useCaseEvent("assign-task", sess, startedAt, err,
			map[string]any{"task_id": id, "assignee": username}))
	}()

	username = strings.TrimSpace(username)
	return s.updateTask(ctx, sess, auth.ActionAssignTask, id, fmt.Sprintf("assign task %d", id),
		func(st *domain.State, t domain.Task) error {
			if err := s.checkAssignee(st, t.Team, username); err != nil {
				return err
			}
			return st.SetTaskAssignee(id, username)
		})
}

func (s *taskService) Get(_ context.Context, sess *auth.Session, id int64) (domain.Task, error) {
	u, err := actor(sess)
	if err != nil {
		return domain.Task{}, err
	}
	var t domain.Task
	err = s.board.read(func(st *domain.State) error {
		var err error
		if t, err = st.Task(id); err != nil {
			return err
		}
		return auth.Authorize(u, auth.ActionViewTasks, t.Team)
	})
	if err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

func (s *taskService) teamRead(sess *auth.Session, team string, fn func(st *domain.State, team string) error) error {
	u, err := actor(sess)
	if err != nil {
		return err
	}
	team = scopeTeam(u, team)
	if err := auth.Authorize(u, auth.ActionViewTasks, team); err != nil {
		return err
	}
	return s.board.read(func(st *domain.State) error {
		if _, err := st.Team(team); err != nil {
			return err
		}
		return fn(st, team)
	})
}

// ListByTeam returns a team's tasks in creation order. An empty team means
// the session user's own.
func (s *taskService) ListByTeam(_ context.Context, sess *auth.Session, team string) ([]domain.Task, error) {
	var out []domain.Task
	err := s.teamRead(sess, team, func(st *domain.State, team string) error {
		out = st.TasksByTeam(team)
		return nil
	})
	return out, err
}

func (s *taskService) ListByStatus(_ context.Context, sess *auth.Session, team string, status domain.TaskStatus) ([]domain.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("status %q: %w", status, domain.ErrInvalidInput)
	}
	var out []domain.Task
	err := s.teamRead(sess, team, func(st *domain.State, team string) error {
		out = st.TasksByStatus(team, status)
		return nil
	})
	return out, err
}

func (s *taskService) Board(_ context.Context, sess *auth.Session, team string) (*BoardView, error) {
	var v BoardView
	err := s.teamRead(sess, team, func(st *domain.State, team string) error {
		v = boardView(st, team)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Projects groups every task the session may see by status. For Admin that
// spans all teams.
func (s *taskService) Projects(_ context.Context, sess *auth.Session) (*BoardView, error) {
	u, err := actor(sess)
	if err != nil {
		return nil, err
	}
	grant := auth.GrantFor(u.Role, auth.ActionViewTasks)
	if grant == auth.GrantNone {
		return nil, auth.Authorize(u, auth.ActionViewTasks, u.Team)
	}
	v := &BoardView{Columns: make([]Column, 0, len(domain.BoardColumns))}
	if grant == auth.GrantOwnTeam {
		v.Team = u.Team
	}
	_ = s.board.read(func(st *domain.State) error {
		for _, status := range domain.BoardColumns {
			col := Column{Status: status, Tasks: []domain.Task{}}
			for _, t := range st.Tasks {
				if t.Status == status && (grant == auth.GrantAll || t.Team == u.Team) {
					col.Tasks = append(col.Tasks, t)
				}
			}
			v.Columns = append(v.Columns, col)
		}
		return nil
	})
	return v, nil
}
