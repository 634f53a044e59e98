package domain

import "slices"

// Team is a named roster. Members keeps insertion order; Lead, when set, is
// always one of Members.
type Team struct {
	Name    string
	Lead    string
	Members []string
}

func (t *Team) HasMember(username string) bool {
	return slices.Contains(t.Members, username)
}

func (t Team) clone() Team {
	t.Members = append(make([]string, 0, len(t.Members)), t.Members...)
	return t
}
