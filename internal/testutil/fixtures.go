package testutil

import (
	"time"

	"github.com/alexanderramin/clubdeck/internal/domain"
)

// FixedNow is the clock reading used by fixtures.
var FixedNow = time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)

// FixedClock returns a clock that always reads t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// StateOption customises NewTestState.
type StateOption func(*domain.State)

// WithAdmin adds an Admin account with a plaintext password.
func WithAdmin(username, password string) StateOption {
	return func(s *domain.State) {
		s.Users[username] = domain.User{Username: username, Password: password, Role: domain.RoleAdmin}
	}
}

// WithTeam adds a team led by lead (may be empty) with the given members.
// Every member gets a plaintext password equal to their username.
func WithTeam(name, lead string, members ...string) StateOption {
	return func(s *domain.State) {
		roster := []string{}
		if lead != "" {
			roster = append(roster, lead)
			s.Users[lead] = domain.User{Username: lead, Password: lead, Role: domain.RoleTeamLead, Team: name}
		}
		for _, m := range members {
			roster = append(roster, m)
			s.Users[m] = domain.User{Username: m, Password: m, Role: domain.RoleMember, Team: name}
		}
		s.Teams[name] = domain.Team{Name: name, Lead: lead, Members: roster}
	}
}

// WithTask appends a task in the To Do column.
func WithTask(team, title, assignee string) StateOption {
	return func(s *domain.State) {
		s.Tasks = append(s.Tasks, domain.Task{
			ID:        s.NextTaskID,
			Title:     title,
			Status:    domain.StatusToDo,
			Team:      team,
			Assignee:  assignee,
			CreatedBy: "admin",
			CreatedAt: FixedNow,
		})
		s.NextTaskID++
	}
}

// WithAnnouncement prepends a post to the feed.
func WithAnnouncement(title, author string) StateOption {
	return func(s *domain.State) {
		a := domain.Announcement{ID: s.NextAnnouncementID, Title: title, Author: author, CreatedAt: FixedNow}
		s.Announcements = append([]domain.Announcement{a}, s.Announcements...)
		s.NextAnnouncementID++
	}
}

// WithEvent appends an event; an empty team makes it public.
func WithEvent(title, date, team string) StateOption {
	return func(s *domain.State) {
		s.Events = append(s.Events, domain.Event{Title: title, Date: date, Team: team})
	}
}

// NewTestState builds a small club: admin/admin plus whatever the options add.
func NewTestState(opts ...StateOption) *domain.State {
	s := domain.NewState()
	s.Club = domain.Club{Name: "Test Club", Description: "fixture"}
	WithAdmin("admin", "admin")(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}
