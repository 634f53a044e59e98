package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var boardNow = time.Date(2025, 9, 1, 17, 0, 0, 0, time.UTC)

func newOpsState(t *testing.T) *State {
	t.Helper()
	s := NewState()
	require.NoError(t, s.AddUser(User{Username: "admin", Password: "pw", Role: RoleAdmin}))
	require.NoError(t, s.CreateTeam("Ops", "alice", "pw"))
	return s
}

func TestCreateTeam_WithLeadCreatesLeadAccount(t *testing.T) {
	s := newOpsState(t)

	team, err := s.Team("Ops")
	require.NoError(t, err)
	assert.Equal(t, "alice", team.Lead)
	assert.Equal(t, []string{"alice"}, team.Members)

	alice, err := s.User("alice")
	require.NoError(t, err)
	assert.Equal(t, RoleTeamLead, alice.Role)
	assert.Equal(t, "Ops", alice.Team)
	assert.Equal(t, "pw", alice.Password)
}

func TestCreateTeam_ExistingLeadKeepsPassword(t *testing.T) {
	s := newOpsState(t)
	require.NoError(t, s.AddMember("Ops", User{Username: "bob", Password: "bobpw", Role: RoleMember}))

	require.NoError(t, s.CreateTeam("Infra", "bob", "ignored"))

	bob, err := s.User("bob")
	require.NoError(t, err)
	assert.Equal(t, "bobpw", bob.Password)
	assert.Equal(t, RoleTeamLead, bob.Role)
	assert.Equal(t, "Infra", bob.Team)
}

func TestCreateTeam_ExistingLeadLeavesOldRoster(t *testing.T) {
	s := newOpsState(t)

	require.NoError(t, s.CreateTeam("Infra", "alice", "ignored"))

	ops, err := s.Team("Ops")
	require.NoError(t, err)
	assert.Empty(t, ops.Lead)
	assert.Empty(t, ops.Members)

	infra, err := s.Team("Infra")
	require.NoError(t, err)
	assert.Equal(t, "alice", infra.Lead)
	assert.Equal(t, []string{"alice"}, infra.Members)
}

func TestCreateTeam_RefusesAdminLead(t *testing.T) {
	s := newOpsState(t)

	err := s.CreateTeam("Infra", "admin", "")
	require.ErrorIs(t, err, ErrInvalidInput)

	admin, err := s.User("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, admin.Role)
	assert.NotContains(t, s.Teams, "Infra")
}

func TestRejectsInvalidUTF8(t *testing.T) {
	bad := "caf\xe9"
	s := newOpsState(t)
	before := s.Clone()

	cases := map[string]error{
		"user":      s.AddUser(User{Username: bad, Password: "pw", Role: RoleAdmin}),
		"password":  s.AddUser(User{Username: "zed", Password: bad, Role: RoleAdmin}),
		"team":      s.CreateTeam(bad, "", ""),
		"team lead": s.CreateTeam("Infra", bad, "pw"),
		"member":    s.AddMember("Ops", User{Username: bad, Password: "pw", Role: RoleMember}),
		"event":     s.AddEvent(Event{Title: bad, Date: "2025-10-01"}),
		"assignee":  s.SetTaskAssignee(1, bad),
	}
	_, cases["task title"] = s.CreateTask(TaskInput{Title: bad, Team: "Ops"}, boardNow)
	_, cases["task description"] = s.CreateTask(TaskInput{Title: "ok", Description: bad, Team: "Ops"}, boardNow)
	_, cases["announcement"] = s.PostAnnouncement("Hi", bad, "admin", boardNow)

	for name, err := range cases {
		assert.ErrorIs(t, err, ErrInvalidInput, name)
	}
	assert.Equal(t, before, s)

	_, err := s.CreateTask(TaskInput{Title: "café ☕", Team: "Ops"}, boardNow)
	assert.NoError(t, err)
}

func TestCreateTeam_WithoutLead(t *testing.T) {
	s := NewState()
	require.NoError(t, s.CreateTeam("General", "", ""))

	team, err := s.Team("General")
	require.NoError(t, err)
	assert.Empty(t, team.Lead)
	assert.NotNil(t, team.Members)
	assert.Empty(t, team.Members)
}

func TestCreateTeam_Duplicate(t *testing.T) {
	s := newOpsState(t)
	err := s.CreateTeam("Ops", "", "")
	assert.ErrorIs(t, err, ErrDuplicateTeam)
}

func TestCreateTeam_BlankName(t *testing.T) {
	s := NewState()
	assert.ErrorIs(t, s.CreateTeam("  ", "", ""), ErrInvalidInput)
}

func TestAddMember_AppendsInInsertionOrder(t *testing.T) {
	s := newOpsState(t)
	require.NoError(t, s.AddMember("Ops", User{Username: "bob", Password: "x", Role: RoleMember}))
	require.NoError(t, s.AddMember("Ops", User{Username: "carol", Password: "x", Role: RoleMember}))

	members, err := s.Members("Ops")
	require.NoError(t, err)
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Username)
	}
	assert.Equal(t, []string{"alice", "bob", "carol"}, names)
}

func TestAddMember_TeamLeadOverwritesLead(t *testing.T) {
	s := newOpsState(t)
	require.NoError(t, s.AddMember("Ops", User{Username: "dave", Password: "x", Role: RoleTeamLead}))

	team, err := s.Team("Ops")
	require.NoError(t, err)
	assert.Equal(t, "dave", team.Lead)
	assert.True(t, team.HasMember("dave"))

	alice, err := s.User("alice")
	require.NoError(t, err)
	assert.Equal(t, RoleTeamLead, alice.Role, "previous lead is not demoted")
}

func TestAddMember_UnknownTeam(t *testing.T) {
	s := newOpsState(t)
	err := s.AddMember("Nope", User{Username: "bob", Password: "x", Role: RoleMember})
	assert.ErrorIs(t, err, ErrTeamNotFound)
	_, err = s.User("bob")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAddMember_ExistingUserLeavesRosterAlone(t *testing.T) {
	s := newOpsState(t)
	err := s.AddMember("Ops", User{Username: "alice", Password: "x", Role: RoleMember})
	assert.ErrorIs(t, err, ErrDuplicateUser)

	team, err := s.Team("Ops")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, team.Members)
}

func TestAddMember_RejectsAdminRole(t *testing.T) {
	s := newOpsState(t)
	err := s.AddMember("Ops", User{Username: "eve", Password: "x", Role: RoleAdmin})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddUser_Duplicate(t *testing.T) {
	s := newOpsState(t)
	err := s.AddUser(User{Username: "admin", Password: "other", Role: RoleAdmin})
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestAddUser_MemberNeedsTeam(t *testing.T) {
	s := NewState()
	err := s.AddUser(User{Username: "x", Role: RoleMember})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateTask_DefaultsAndSequentialIDs(t *testing.T) {
	s := newOpsState(t)

	first, err := s.CreateTask(TaskInput{Title: "Deploy", Team: "Ops", Assignee: "bob", CreatedBy: "admin"}, boardNow)
	require.NoError(t, err)
	second, err := s.CreateTask(TaskInput{Title: "Monitor", Team: "Ops", CreatedBy: "alice"}, boardNow)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, StatusToDo, first.Status)
	assert.Equal(t, boardNow, first.CreatedAt)
	assert.Equal(t, int64(3), s.NextTaskID)

	tasks := s.TasksByTeam("Ops")
	require.Len(t, tasks, 2)
	assert.Equal(t, "Deploy", tasks[0].Title)
	assert.Equal(t, "bob", tasks[0].Assignee)
	assert.Equal(t, "admin", tasks[0].CreatedBy)
}

func TestCreateTask_AcceptsUnknownAssignee(t *testing.T) {
	s := newOpsState(t)
	task, err := s.CreateTask(TaskInput{Title: "Deploy", Team: "Ops", Assignee: "nobody", CreatedBy: "admin"}, boardNow)
	require.NoError(t, err)
	assert.Equal(t, "nobody", task.Assignee)
}

func TestCreateTask_Rejections(t *testing.T) {
	s := newOpsState(t)

	_, err := s.CreateTask(TaskInput{Title: "   ", Team: "Ops"}, boardNow)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.CreateTask(TaskInput{Title: "Deploy", Team: "Nope"}, boardNow)
	assert.ErrorIs(t, err, ErrTeamNotFound)

	assert.Equal(t, int64(1), s.NextTaskID, "failed creates do not consume ids")
}

func TestSetTaskStatus_AllTransitions(t *testing.T) {
	for _, from := range BoardColumns {
		for _, to := range BoardColumns {
			s := newOpsState(t)
			task, err := s.CreateTask(TaskInput{Title: "Deploy", Team: "Ops"}, boardNow)
			require.NoError(t, err)
			require.NoError(t, s.SetTaskStatus(task.ID, from))

			require.NoError(t, s.SetTaskStatus(task.ID, to), "%s -> %s", from, to)

			got, err := s.Task(task.ID)
			require.NoError(t, err)
			assert.Equal(t, to, got.Status, "%s -> %s", from, to)
		}
	}
}

func TestSetTaskStatus_Errors(t *testing.T) {
	s := newOpsState(t)
	assert.ErrorIs(t, s.SetTaskStatus(42, StatusDone), ErrTaskNotFound)

	task, err := s.CreateTask(TaskInput{Title: "Deploy", Team: "Ops"}, boardNow)
	require.NoError(t, err)
	assert.ErrorIs(t, s.SetTaskStatus(task.ID, TaskStatus("Blocked")), ErrInvalidInput)
}

func TestSetTaskAssignee_SetAndClear(t *testing.T) {
	s := newOpsState(t)
	task, err := s.CreateTask(TaskInput{Title: "Deploy", Team: "Ops"}, boardNow)
	require.NoError(t, err)

	require.NoError(t, s.SetTaskAssignee(task.ID, "alice"))
	got, _ := s.Task(task.ID)
	assert.Equal(t, "alice", got.Assignee)

	require.NoError(t, s.SetTaskAssignee(task.ID, ""))
	got, _ = s.Task(task.ID)
	assert.False(t, got.IsAssigned())

	assert.ErrorIs(t, s.SetTaskAssignee(99, "alice"), ErrTaskNotFound)
}

func TestTasksByStatus_FiltersColumn(t *testing.T) {
	s := newOpsState(t)
	require.NoError(t, s.CreateTeam("Infra", "", ""))
	a, _ := s.CreateTask(TaskInput{Title: "A", Team: "Ops"}, boardNow)
	_, _ = s.CreateTask(TaskInput{Title: "B", Team: "Ops"}, boardNow)
	_, _ = s.CreateTask(TaskInput{Title: "C", Team: "Infra"}, boardNow)
	require.NoError(t, s.SetTaskStatus(a.ID, StatusDone))

	assert.Len(t, s.TasksByStatus("Ops", StatusToDo), 1)
	assert.Len(t, s.TasksByStatus("Ops", StatusDone), 1)
	assert.Empty(t, s.TasksByStatus("Ops", StatusInProgress))
	assert.Equal(t, map[TaskStatus]int{StatusToDo: 1, StatusInProgress: 0, StatusDone: 1}, s.StatusCounts("Ops"))
}

func TestPostAnnouncement_NewestFirst(t *testing.T) {
	s := NewState()
	first, err := s.PostAnnouncement("Kickoff", "Friday", "admin", boardNow)
	require.NoError(t, err)
	second, err := s.PostAnnouncement("Hackathon", "Sept", "alice", boardNow.Add(time.Hour))
	require.NoError(t, err)

	assert.Less(t, first.ID, second.ID)
	recent := s.RecentAnnouncements(1)
	require.Len(t, recent, 1)
	assert.Equal(t, second, recent[0])
	assert.Len(t, s.RecentAnnouncements(0), 2)
	assert.Len(t, s.RecentAnnouncements(10), 2)

	got, err := s.Announcement(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kickoff", got.Title)

	_, err = s.Announcement(99)
	assert.ErrorIs(t, err, ErrAnnouncementNotFound)
}

func TestPostAnnouncement_RequiresTitle(t *testing.T) {
	s := NewState()
	_, err := s.PostAnnouncement("", "body", "admin", boardNow)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, int64(1), s.NextAnnouncementID)
}

func TestAddEvent(t *testing.T) {
	s := newOpsState(t)
	require.NoError(t, s.AddEvent(Event{Title: "Hackathon", Date: "2025-09-15"}))
	require.NoError(t, s.AddEvent(Event{Title: "Retro", Date: "2025-10-01", Team: "Ops"}))

	assert.ErrorIs(t, s.AddEvent(Event{Title: "Retro", Date: "2025-10-01", Team: "Nope"}), ErrTeamNotFound)
	assert.ErrorIs(t, s.AddEvent(Event{Title: "Retro", Date: "next week"}), ErrInvalidInput)
	assert.ErrorIs(t, s.AddEvent(Event{Date: "2025-10-01"}), ErrInvalidInput)
	assert.Len(t, s.Events, 2)
}

func TestClone_IsIndependent(t *testing.T) {
	s := newOpsState(t)
	_, err := s.CreateTask(TaskInput{Title: "Deploy", Team: "Ops"}, boardNow)
	require.NoError(t, err)

	c := s.Clone()
	require.Equal(t, s, c)

	require.NoError(t, c.AddMember("Ops", User{Username: "bob", Password: "x", Role: RoleMember}))
	require.NoError(t, c.SetTaskStatus(1, StatusDone))

	team, _ := s.Team("Ops")
	assert.Equal(t, []string{"alice"}, team.Members)
	task, _ := s.Task(1)
	assert.Equal(t, StatusToDo, task.Status)
}

func TestDefaultState_Seed(t *testing.T) {
	s := DefaultState(boardNow)

	assert.Len(t, s.Teams, 7)
	assert.Len(t, s.Users, 11)
	assert.Len(t, s.Tasks, 3)
	assert.Len(t, s.Announcements, 1)
	assert.Equal(t, int64(4), s.NextTaskID)
	assert.Equal(t, int64(2), s.NextAnnouncementID)

	for _, team := range s.Teams {
		if team.Lead != "" {
			assert.True(t, team.HasMember(team.Lead), "lead of %s must be a member", team.Name)
		}
		for _, m := range team.Members {
			u, err := s.User(m)
			require.NoError(t, err)
			assert.Equal(t, team.Name, u.Team)
		}
	}
	admin, err := s.User("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, admin.Role)
	assert.Empty(t, admin.Team)
}

func TestUserListAndTeamList_Sorted(t *testing.T) {
	s := DefaultState(boardNow)
	users := s.UserList()
	for i := 1; i < len(users); i++ {
		assert.Less(t, users[i-1].Username, users[i].Username)
	}
	teams := s.TeamList()
	for i := 1; i < len(teams); i++ {
		assert.Less(t, teams[i-1].Name, teams[i].Name)
	}
}
