package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/clubdeck/internal/auth"
	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/alexanderramin/clubdeck/internal/repository"
	"github.com/alexanderramin/clubdeck/internal/service"
	"github.com/alexanderramin/clubdeck/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// testApp wires a full App over an in-memory board. The session token is
// kept in a temp file so separate runs can share it.
func testApp(t *testing.T) *App {
	t.Helper()
	state := testutil.NewTestState(
		testutil.WithTeam("Web", "wendy", "mo"),
		testutil.WithTeam("Ops", "olga", "oscar"),
		testutil.WithTask("Web", "Landing page", "mo"),
		testutil.WithTask("Ops", "Rotate keys", "oscar"),
		testutil.WithAnnouncement("Welcome", "admin"),
		testutil.WithEvent("Open day", "2025-10-01", ""),
		testutil.WithEvent("Web sync", "2025-10-02", "Web"),
		testutil.WithEvent("Ops drill", "2025-10-03", "Ops"),
	)
	log := zap.NewNop().Sugar()
	clock := testutil.FixedClock(testutil.FixedNow)
	board := service.NewBoard(state, service.NewPersister(repository.NewMemorySnapshotRepo(10), log), clock, log)
	hasher := auth.NewHasher(true, bcrypt.MinCost)
	identity := service.NewIdentityService(board, hasher)

	return &App{
		Identity:      identity,
		Sessions:      service.NewSessionService(board, identity, auth.NewTokenIssuer("cli-secret", time.Hour, clock)),
		Teams:         service.NewTeamService(board, hasher, domain.SeedPassword),
		Tasks:         service.NewTaskService(board, false),
		Announcements: service.NewAnnouncementService(board),
		Events:        service.NewEventService(board),
		Dashboard:     service.NewDashboardService(board),
		Transfer:      service.NewTransferService(board),
		Tokens:        FileTokenStore{Path: filepath.Join(t.TempDir(), "session")},
		Now:           clock,
	}
}

// nextRun simulates a new process: same services and token file, fresh
// in-memory session.
func nextRun(app *App) *App {
	next := *app
	next.Session = nil
	return &next
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func login(t *testing.T, app *App, username, password string) {
	t.Helper()
	_, err := executeCmd(t, app, "login", "-u", username, "-p", password)
	require.NoError(t, err)
}

func TestLogin_SessionSurvivesAcrossRuns(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "login", "-u", "wendy", "-p", "wendy")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as wendy")

	out, err = executeCmd(t, nextRun(app), "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "wendy")
	assert.Contains(t, out, "Web")
}

func TestLogin_FailuresShareOneMessage(t *testing.T) {
	app := testApp(t)

	_, errUnknown := executeCmd(t, app, "login", "-u", "nobody", "-p", "x")
	_, errWrong := executeCmd(t, app, "login", "-u", "wendy", "-p", "nope")

	require.ErrorIs(t, errUnknown, domain.ErrAuth)
	require.ErrorIs(t, errWrong, domain.ErrAuth)
	assert.Equal(t, ErrorMessage(errUnknown), ErrorMessage(errWrong))

	token, err := app.Tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestLogin_MissingCredentialsWithoutTerminal(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "login", "-u", "wendy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestLogin_PromptsOnTerminal(t *testing.T) {
	app := testApp(t)
	app.IsInteractive = func() bool { return true }
	prompted := false
	app.PromptLogin = func(username, password *string) error {
		prompted = true
		*username, *password = "olga", "olga"
		return nil
	}

	out, err := executeCmd(t, app, "login")
	require.NoError(t, err)
	assert.True(t, prompted)
	assert.Contains(t, out, "Signed in as olga")
}

func TestLogin_GuestAndUserAreExclusive(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "login", "--guest", "-u", "wendy")
	require.Error(t, err)
}

func TestLogout_ForgetsSavedSession(t *testing.T) {
	app := testApp(t)
	login(t, app, "admin", "admin")

	_, err := executeCmd(t, nextRun(app), "logout")
	require.NoError(t, err)

	_, err = executeCmd(t, nextRun(app), "whoami")
	require.ErrorIs(t, err, domain.ErrNoSession)
}

func TestResume_TamperedTokenIsDiscarded(t *testing.T) {
	app := testApp(t)
	require.NoError(t, app.Tokens.Save("not-a-token"))

	_, err := executeCmd(t, app, "whoami")
	require.ErrorIs(t, err, domain.ErrNoSession)

	token, err := app.Tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestGuest_ReadsButCannotWrite(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "login", "--guest")
	require.NoError(t, err)

	out, err := executeCmd(t, nextRun(app), "announce", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome")

	out, err = executeCmd(t, nextRun(app), "event", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Open day")
	assert.NotContains(t, out, "Web sync")

	_, err = executeCmd(t, nextRun(app), "task", "create", "--title", "Sneaky", "--team", "Web")
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "your role does not allow that", ErrorMessage(err))
}

func TestTask_LeadLifecycle(t *testing.T) {
	app := testApp(t)
	login(t, app, "wendy", "wendy")

	out, err := executeCmd(t, app, "task", "create", "--title", "Deploy", "--assign", "mo")
	require.NoError(t, err)
	assert.Contains(t, out, "Created task #3")
	assert.Contains(t, out, "on Web")

	out, err = executeCmd(t, app, "task", "move", "3", "in-progress")
	require.NoError(t, err)
	assert.Contains(t, out, "In Progress")

	out, err = executeCmd(t, app, "task", "list", "--status", "in_progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Deploy")
	assert.NotContains(t, out, "Landing page")

	out, err = executeCmd(t, app, "task", "assign", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "unassigned")

	out, err = executeCmd(t, app, "task", "show", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Deploy")
	assert.Contains(t, out, "wendy")
}

func TestTask_CannotTouchOtherTeam(t *testing.T) {
	app := testApp(t)
	login(t, app, "mo", "mo")

	_, err := executeCmd(t, app, "task", "move", "2", "done")
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = executeCmd(t, app, "task", "list", "--team", "Ops")
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTask_BadArguments(t *testing.T) {
	app := testApp(t)
	login(t, app, "admin", "admin")

	_, err := executeCmd(t, app, "task", "move", "1", "blocked")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = executeCmd(t, app, "task", "show", "abc")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = executeCmd(t, app, "task", "move", "99", "done")
	require.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = executeCmd(t, app, "task", "list", "--status", "later")
	require.Error(t, err)
}

func TestTask_AllSpansTeamsForAdmin(t *testing.T) {
	app := testApp(t)
	login(t, app, "admin", "admin")

	out, err := executeCmd(t, app, "task", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "Landing page")
	assert.Contains(t, out, "Rotate keys")
}

func TestTask_BoardInteractiveRunsModel(t *testing.T) {
	app := testApp(t)
	login(t, app, "wendy", "wendy")
	var ran tea.Model
	app.RunProgram = func(m tea.Model) (tea.Model, error) {
		ran = m
		return m, nil
	}

	_, err := executeCmd(t, app, "task", "board", "-i")
	require.NoError(t, err)
	bm, ok := ran.(boardModel)
	require.True(t, ok)
	assert.Equal(t, "Web", bm.team)
}

func TestDashboard_AdminOverviewAndLeadFallback(t *testing.T) {
	app := testApp(t)
	login(t, app, "admin", "admin")
	out, err := executeCmd(t, app, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "TEST CLUB")
	assert.Contains(t, out, "Ops")

	login(t, app, "olga", "olga")
	out, err = executeCmd(t, app, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "lead:")
	assert.Contains(t, out, "Rotate keys")
	assert.NotContains(t, out, "Landing page")
}

func TestTeam_AdminCreatesAndNewLeadLogsIn(t *testing.T) {
	app := testApp(t)
	login(t, app, "admin", "admin")

	out, err := executeCmd(t, app, "team", "create", "Design", "--lead", "dana")
	require.NoError(t, err)
	assert.Contains(t, out, "led by dana")

	out, err = executeCmd(t, app, "team", "add-member", "Design", "dev", "--password", "s3cret", "--role", "member")
	require.NoError(t, err)
	assert.Contains(t, out, "Added dev")

	out, err = executeCmd(t, app, "team", "show", "Design")
	require.NoError(t, err)
	assert.Contains(t, out, "dana")
	assert.Contains(t, out, "dev")

	out, err = executeCmd(t, app, "members")
	require.NoError(t, err)
	assert.Contains(t, out, "dana")
	assert.NotContains(t, out, "s3cret")

	login(t, app, "dana", domain.SeedPassword)
	login(t, app, "dev", "s3cret")
}

func TestTeam_MemberCannotManage(t *testing.T) {
	app := testApp(t)
	login(t, app, "mo", "mo")

	_, err := executeCmd(t, app, "team", "create", "Rogue")
	require.ErrorIs(t, err, domain.ErrForbidden)

	out, err := executeCmd(t, app, "team", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Web")
	assert.NotContains(t, out, "Ops")
}

func TestAnnounce_PostShowAndList(t *testing.T) {
	app := testApp(t)
	login(t, app, "olga", "olga")

	out, err := executeCmd(t, app, "announce", "post", "--title", "Drill moved", "--body", "Now on Friday")
	require.NoError(t, err)
	assert.Contains(t, out, "Posted announcement #2")

	out, err = executeCmd(t, app, "announce", "show", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Now on Friday")

	out, err = executeCmd(t, app, "announce", "list", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Drill moved")
	assert.NotContains(t, out, "Welcome")
}

func TestEvent_LeadCreatesTeamEvent(t *testing.T) {
	app := testApp(t)
	login(t, app, "wendy", "wendy")

	out, err := executeCmd(t, app, "event", "create", "--title", "Retro", "--date", "2025-11-01")
	require.NoError(t, err)
	assert.Contains(t, out, "(Web)")

	login(t, app, "oscar", "oscar")
	out, err = executeCmd(t, app, "event", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Retro")
	assert.Contains(t, out, "Ops drill")
}

func TestData_ExportResetImport(t *testing.T) {
	app := testApp(t)
	login(t, app, "admin", "admin")
	file := filepath.Join(t.TempDir(), "club.json")

	_, err := executeCmd(t, app, "task", "create", "--title", "Keep me", "--team", "Web")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "data", "export", "--out", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported")

	_, err = executeCmd(t, app, "data", "reset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	_, err = executeCmd(t, app, "data", "reset", "--yes")
	require.NoError(t, err)
	out, err = executeCmd(t, app, "task", "show", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Deploy Site Revamp")

	_, err = executeCmd(t, app, "data", "import", file)
	require.NoError(t, err)
	out, err = executeCmd(t, app, "task", "show", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Keep me")

	out, err = executeCmd(t, app, "data", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "import")
	assert.Contains(t, out, "reset")
}

func TestData_ImportRejectsGarbage(t *testing.T) {
	app := testApp(t)
	login(t, app, "admin", "admin")
	file := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"users": 7}`), 0o600))

	_, err := executeCmd(t, app, "data", "import", file)
	require.ErrorIs(t, err, domain.ErrParse)

	out, err := executeCmd(t, app, "task", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Landing page")
}

func TestData_AdminOnly(t *testing.T) {
	app := testApp(t)
	login(t, app, "wendy", "wendy")
	_, err := executeCmd(t, app, "data", "export")
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrAuth, "invalid username or password"},
		{domain.ErrNoSession, "not logged in; run 'clubdeck login' first"},
		{domain.ErrForbidden, "your role does not allow that"},
		{auth.ErrInvalidToken, "saved session is no longer valid; log in again"},
		{errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}

func TestFlagValues(t *testing.T) {
	var st domain.TaskStatus
	sv := newStatusValue(&st)
	require.NoError(t, sv.Set("in-progress"))
	assert.Equal(t, domain.StatusInProgress, st)
	assert.Equal(t, "In Progress", sv.String())
	assert.Error(t, sv.Set("waiting"))

	var r domain.Role
	rv := newRoleValue(&r)
	require.NoError(t, rv.Set("lead"))
	assert.Equal(t, domain.RoleTeamLead, r)
	assert.Equal(t, "role", rv.Type())

	assert.Equal(t, "to-do|in-progress|done", statusNames())
}
