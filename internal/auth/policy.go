package auth

import (
	"fmt"

	"github.com/alexanderramin/clubdeck/internal/domain"
)

type Action string

const (
	ActionViewClub          Action = "club.view"
	ActionViewDashboard     Action = "dashboard.view"
	ActionViewMembers       Action = "members.view"
	ActionViewTeams         Action = "teams.view"
	ActionManageTeams       Action = "teams.manage"
	ActionViewTasks         Action = "tasks.view"
	ActionCreateTask        Action = "tasks.create"
	ActionMoveTask          Action = "tasks.move"
	ActionAssignTask        Action = "tasks.assign"
	ActionViewAnnouncements Action = "announcements.view"
	ActionPostAnnouncement  Action = "announcements.post"
	ActionViewEvents        Action = "events.view"
	ActionManageEvents      Action = "events.manage"
	ActionTransferData      Action = "data.transfer"
)

// Actions is the menu order used when listing visible actions.
var Actions = []Action{
	ActionViewClub,
	ActionViewDashboard,
	ActionViewMembers,
	ActionViewTeams,
	ActionManageTeams,
	ActionViewTasks,
	ActionCreateTask,
	ActionMoveTask,
	ActionAssignTask,
	ActionViewAnnouncements,
	ActionPostAnnouncement,
	ActionViewEvents,
	ActionManageEvents,
	ActionTransferData,
}

// Grant is how far a role may exercise an action.
type Grant int

const (
	GrantNone Grant = iota
	GrantOwnTeam
	GrantAll
)

func (g Grant) String() string {
	switch g {
	case GrantOwnTeam:
		return "own team"
	case GrantAll:
		return "all"
	default:
		return "none"
	}
}

// policy is the single role x action table. Actions missing from a role's
// row are denied. An own-team grant with an empty target team covers the
// club-wide (public) part of a resource, which is how Guests see public
// events.
var policy = map[domain.Role]map[Action]Grant{
	domain.RoleAdmin: allActions(),
	domain.RoleTeamLead: {
		ActionViewClub:          GrantAll,
		ActionViewTeams:         GrantOwnTeam,
		ActionViewTasks:         GrantOwnTeam,
		ActionCreateTask:        GrantOwnTeam,
		ActionMoveTask:          GrantOwnTeam,
		ActionAssignTask:        GrantOwnTeam,
		ActionViewAnnouncements: GrantAll,
		ActionPostAnnouncement:  GrantAll,
		ActionViewEvents:        GrantOwnTeam,
		ActionManageEvents:      GrantOwnTeam,
	},
	domain.RoleMember: {
		ActionViewClub:          GrantAll,
		ActionViewTeams:         GrantOwnTeam,
		ActionViewTasks:         GrantOwnTeam,
		ActionViewAnnouncements: GrantAll,
		ActionViewEvents:        GrantOwnTeam,
	},
	domain.RoleGuest: {
		ActionViewClub:          GrantAll,
		ActionViewAnnouncements: GrantAll,
		ActionViewEvents:        GrantOwnTeam,
	},
}

func allActions() map[Action]Grant {
	m := make(map[Action]Grant, len(Actions))
	for _, a := range Actions {
		m[a] = GrantAll
	}
	return m
}

// GrantFor looks up the table.
func GrantFor(role domain.Role, action Action) Grant {
	return policy[role][action]
}

// Authorize checks one action for the session user. Own-team grants require
// the target team to equal the user's team; Admin holds GrantAll everywhere
// and so skips the team check.
func Authorize(u domain.User, action Action, targetTeam string) error {
	switch GrantFor(u.Role, action) {
	case GrantAll:
		return nil
	case GrantOwnTeam:
		if targetTeam == u.Team {
			return nil
		}
		return fmt.Errorf("%s on team %q as %s of %q: %w", action, targetTeam, u.Role, u.Team, domain.ErrForbidden)
	default:
		return fmt.Errorf("%s as %s: %w", action, u.Role, domain.ErrForbidden)
	}
}

// VisibleActions returns the role's permitted actions in menu order.
func VisibleActions(role domain.Role) []Action {
	var out []Action
	for _, a := range Actions {
		if GrantFor(role, a) != GrantNone {
			out = append(out, a)
		}
	}
	return out
}
