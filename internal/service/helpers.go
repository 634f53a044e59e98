package service

import (
	"time"

	"github.com/alexanderramin/clubdeck/internal/auth"
	"github.com/alexanderramin/clubdeck/internal/domain"
)

// actor returns the signed-in user of sess.
func actor(sess *auth.Session) (domain.User, error) {
	if sess == nil {
		return domain.User{}, domain.ErrNoSession
	}
	return sess.Current()
}

// authorize resolves the session user and checks one action against
// targetTeam.
func authorize(sess *auth.Session, action auth.Action, targetTeam string) (domain.User, error) {
	u, err := actor(sess)
	if err != nil {
		return domain.User{}, err
	}
	if err := auth.Authorize(u, action, targetTeam); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// scopeTeam picks the team an own-team action applies to when the caller did
// not name one.
func scopeTeam(u domain.User, team string) string {
	if team == "" {
		return u.Team
	}
	return team
}

func publicUser(u domain.User) domain.User {
	u.Password = ""
	return u
}

func publicUsers(us []domain.User) []domain.User {
	for i := range us {
		us[i].Password = ""
	}
	return us
}

func boardView(s *domain.State, team string) BoardView {
	v := BoardView{Team: team, Columns: make([]Column, 0, len(domain.BoardColumns))}
	for _, status := range domain.BoardColumns {
		v.Columns = append(v.Columns, Column{Status: status, Tasks: s.TasksByStatus(team, status)})
	}
	return v
}

func sessionName(sess *auth.Session) string {
	if sess == nil {
		return ""
	}
	u, err := sess.Current()
	if err != nil {
		return ""
	}
	return u.Username
}

func useCaseEvent(name string, sess *auth.Session, startedAt time.Time, err error, fields map[string]any) UseCaseEvent {
	return UseCaseEvent{
		Name:      name,
		Actor:     sessionName(sess),
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	}
}
