package domain

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// State is the whole board aggregate: accounts, rosters, tasks, the
// announcement feed, events and the id counters. It is not safe for
// concurrent use; service.Board guards it.
type State struct {
	Club               Club
	Users              map[string]User
	Teams              map[string]Team
	Tasks              []Task
	Announcements      []Announcement // newest first
	Events             []Event
	NextTaskID         int64
	NextAnnouncementID int64
}

func NewState() *State {
	return &State{
		Users:              map[string]User{},
		Teams:              map[string]Team{},
		Tasks:              []Task{},
		Announcements:      []Announcement{},
		Events:             []Event{},
		NextTaskID:         1,
		NextAnnouncementID: 1,
	}
}

// Clone returns a deep copy that shares no mutable memory with s.
func (s *State) Clone() *State {
	c := &State{
		Club:               s.Club,
		Users:              make(map[string]User, len(s.Users)),
		Teams:              make(map[string]Team, len(s.Teams)),
		Tasks:              append(make([]Task, 0, len(s.Tasks)), s.Tasks...),
		Announcements:      append(make([]Announcement, 0, len(s.Announcements)), s.Announcements...),
		Events:             append(make([]Event, 0, len(s.Events)), s.Events...),
		NextTaskID:         s.NextTaskID,
		NextAnnouncementID: s.NextAnnouncementID,
	}
	for k, u := range s.Users {
		c.Users[k] = u
	}
	for k, t := range s.Teams {
		c.Teams[k] = t.clone()
	}
	return c
}

// --- users ---

func (s *State) User(username string) (User, error) {
	u, ok := s.Users[username]
	if !ok {
		return User{}, fmt.Errorf("user %q: %w", username, ErrUserNotFound)
	}
	return u, nil
}

func (s *State) AddUser(u User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if _, ok := s.Users[u.Username]; ok {
		return fmt.Errorf("user %q: %w", u.Username, ErrDuplicateUser)
	}
	if u.Team != "" {
		if _, ok := s.Teams[u.Team]; !ok {
			return fmt.Errorf("team %q: %w", u.Team, ErrTeamNotFound)
		}
	}
	s.Users[u.Username] = u
	return nil
}

// SetPassword replaces a stored credential, used when upgrading legacy
// plaintext values to hashes.
func (s *State) SetPassword(username, credential string) error {
	u, ok := s.Users[username]
	if !ok {
		return fmt.Errorf("user %q: %w", username, ErrUserNotFound)
	}
	u.Password = credential
	s.Users[username] = u
	return nil
}

// UserList returns every user ordered by username.
func (s *State) UserList() []User {
	out := make([]User, 0, len(s.Users))
	for _, u := range s.Users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// --- teams ---

func (s *State) Team(name string) (Team, error) {
	t, ok := s.Teams[name]
	if !ok {
		return Team{}, fmt.Errorf("team %q: %w", name, ErrTeamNotFound)
	}
	return t.clone(), nil
}

// TeamList returns every team ordered by name.
func (s *State) TeamList() []Team {
	out := make([]Team, 0, len(s.Teams))
	for _, t := range s.Teams {
		out = append(out, t.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CreateTeam registers a team. A named lead becomes the first member; an
// existing lead account is moved to the new team as its Team Lead and taken
// off its old roster, a missing one is created with leadPassword. Admins
// cannot be named as leads.
func (s *State) CreateTeam(name, lead, leadPassword string) error {
	if err := checkText("team", name, lead, leadPassword); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("team name is required: %w", ErrInvalidInput)
	}
	if _, ok := s.Teams[name]; ok {
		return fmt.Errorf("team %q: %w", name, ErrDuplicateTeam)
	}
	lead = strings.TrimSpace(lead)
	existing, hasAccount := s.Users[lead]
	if hasAccount && existing.Role == RoleAdmin {
		return fmt.Errorf("admin %q cannot lead a team: %w", lead, ErrInvalidInput)
	}
	team := Team{Name: name, Members: []string{}}
	if lead != "" {
		team.Lead = lead
		team.Members = append(team.Members, lead)
	}
	s.Teams[name] = team

	if lead == "" {
		return nil
	}
	if hasAccount {
		s.leaveTeam(lead, existing.Team)
		existing.Role = RoleTeamLead
		existing.Team = name
		s.Users[lead] = existing
		return nil
	}
	s.Users[lead] = User{Username: lead, Password: leadPassword, Role: RoleTeamLead, Team: name}
	return nil
}

// leaveTeam drops username from a roster, clearing the lead slot if it held
// it.
func (s *State) leaveTeam(username, teamName string) {
	team, ok := s.Teams[teamName]
	if !ok {
		return
	}
	team.Members = slices.DeleteFunc(team.Members, func(m string) bool { return m == username })
	if team.Lead == username {
		team.Lead = ""
	}
	s.Teams[teamName] = team
}

// AddMember creates the account and appends it to the team roster. Adding a
// Team Lead replaces the team's lead without demoting the previous one.
func (s *State) AddMember(teamName string, u User) error {
	team, ok := s.Teams[teamName]
	if !ok {
		return fmt.Errorf("team %q: %w", teamName, ErrTeamNotFound)
	}
	if u.Role != RoleMember && u.Role != RoleTeamLead {
		return fmt.Errorf("members join as %s or %s, not %q: %w", RoleMember, RoleTeamLead, u.Role, ErrInvalidInput)
	}
	u.Team = teamName
	if err := s.AddUser(u); err != nil {
		return err
	}
	if !team.HasMember(u.Username) {
		team.Members = append(team.Members, u.Username)
	}
	if u.Role == RoleTeamLead {
		team.Lead = u.Username
	}
	s.Teams[teamName] = team
	return nil
}

// Members returns the roster of a team in insertion order. Names without an
// account record come back with only Username and Team set.
func (s *State) Members(teamName string) ([]User, error) {
	team, ok := s.Teams[teamName]
	if !ok {
		return nil, fmt.Errorf("team %q: %w", teamName, ErrTeamNotFound)
	}
	out := make([]User, 0, len(team.Members))
	for _, name := range team.Members {
		u, ok := s.Users[name]
		if !ok {
			u = User{Username: name, Team: teamName}
		}
		out = append(out, u)
	}
	return out, nil
}

// --- tasks ---

func (s *State) CreateTask(in TaskInput, now time.Time) (Task, error) {
	if err := checkText("task", in.Title, in.Description, in.Team, in.Assignee, in.CreatedBy); err != nil {
		return Task{}, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Task{}, fmt.Errorf("task title is required: %w", ErrInvalidInput)
	}
	if _, ok := s.Teams[in.Team]; !ok {
		return Task{}, fmt.Errorf("team %q: %w", in.Team, ErrTeamNotFound)
	}
	t := Task{
		ID:          s.NextTaskID,
		Title:       title,
		Description: in.Description,
		Status:      StatusToDo,
		Team:        in.Team,
		Assignee:    strings.TrimSpace(in.Assignee),
		CreatedBy:   in.CreatedBy,
		CreatedAt:   now,
	}
	s.Tasks = append(s.Tasks, t)
	s.NextTaskID++
	return t, nil
}

func (s *State) taskIndex(id int64) (int, error) {
	i := slices.IndexFunc(s.Tasks, func(t Task) bool { return t.ID == id })
	if i < 0 {
		return -1, fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
	}
	return i, nil
}

func (s *State) Task(id int64) (Task, error) {
	i, err := s.taskIndex(id)
	if err != nil {
		return Task{}, err
	}
	return s.Tasks[i], nil
}

// SetTaskStatus overwrites the status; every transition is allowed.
func (s *State) SetTaskStatus(id int64, status TaskStatus) error {
	if !status.Valid() {
		return fmt.Errorf("status %q: %w", status, ErrInvalidInput)
	}
	i, err := s.taskIndex(id)
	if err != nil {
		return err
	}
	s.Tasks[i].Status = status
	return nil
}

// SetTaskAssignee sets or, with an empty username, clears the assignee.
func (s *State) SetTaskAssignee(id int64, username string) error {
	if err := checkText("assignee", username); err != nil {
		return err
	}
	i, err := s.taskIndex(id)
	if err != nil {
		return err
	}
	s.Tasks[i].Assignee = strings.TrimSpace(username)
	return nil
}

// TasksByTeam returns the team's tasks in creation order.
func (s *State) TasksByTeam(team string) []Task {
	out := []Task{}
	for _, t := range s.Tasks {
		if t.Team == team {
			out = append(out, t)
		}
	}
	return out
}

// TasksByStatus filters a team's tasks down to one board column.
func (s *State) TasksByStatus(team string, status TaskStatus) []Task {
	out := []Task{}
	for _, t := range s.Tasks {
		if t.Team == team && t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// StatusCounts tallies a team's tasks per column.
func (s *State) StatusCounts(team string) map[TaskStatus]int {
	counts := make(map[TaskStatus]int, len(BoardColumns))
	for _, c := range BoardColumns {
		counts[c] = 0
	}
	for _, t := range s.Tasks {
		if t.Team == team {
			counts[t.Status]++
		}
	}
	return counts
}

// --- announcements ---

// PostAnnouncement prepends to the feed. Ids keep increasing even though the
// feed reads newest first.
func (s *State) PostAnnouncement(title, body, author string, now time.Time) (Announcement, error) {
	if err := checkText("announcement", title, body, author); err != nil {
		return Announcement{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Announcement{}, fmt.Errorf("announcement title is required: %w", ErrInvalidInput)
	}
	a := Announcement{
		ID:        s.NextAnnouncementID,
		Title:     title,
		Body:      body,
		Author:    author,
		CreatedAt: now,
	}
	s.Announcements = append([]Announcement{a}, s.Announcements...)
	s.NextAnnouncementID++
	return a, nil
}

// RecentAnnouncements returns up to limit posts, newest first. A limit of
// zero or less returns the whole feed.
func (s *State) RecentAnnouncements(limit int) []Announcement {
	n := len(s.Announcements)
	if limit > 0 && limit < n {
		n = limit
	}
	return append(make([]Announcement, 0, n), s.Announcements[:n]...)
}

func (s *State) Announcement(id int64) (Announcement, error) {
	for _, a := range s.Announcements {
		if a.ID == id {
			return a, nil
		}
	}
	return Announcement{}, fmt.Errorf("announcement %d: %w", id, ErrAnnouncementNotFound)
}

// --- events ---

func (s *State) AddEvent(e Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.Team != "" {
		if _, ok := s.Teams[e.Team]; !ok {
			return fmt.Errorf("team %q: %w", e.Team, ErrTeamNotFound)
		}
	}
	s.Events = append(s.Events, e)
	return nil
}
