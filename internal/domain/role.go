package domain

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleTeamLead Role = "Team Lead"
	RoleMember   Role = "Member"
	RoleGuest    Role = "Guest"
)

// Roles lists every role in descending order of privilege.
var Roles = []Role{RoleAdmin, RoleTeamLead, RoleMember, RoleGuest}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeamLead, RoleMember, RoleGuest:
		return true
	}
	return false
}

// RequiresTeam reports whether users holding the role must belong to a team.
func (r Role) RequiresTeam() bool {
	return r == RoleTeamLead || r == RoleMember
}

// ParseRole accepts the canonical role names as well as the lower-case
// spellings used on the command line ("lead", "team_lead", "member", ...).
func ParseRole(s string) (Role, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	switch key {
	case "admin":
		return RoleAdmin, nil
	case "teamlead", "lead":
		return RoleTeamLead, nil
	case "member":
		return RoleMember, nil
	case "guest":
		return RoleGuest, nil
	}
	return "", fmt.Errorf("unknown role %q: %w", s, ErrInvalidInput)
}
