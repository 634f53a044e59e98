package cli

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/clubdeck/internal/auth"
	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/alexanderramin/clubdeck/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// App holds references to all services used by CLI commands plus the
// session the commands act as.
type App struct {
	Identity      service.IdentityService
	Sessions      service.SessionService
	Teams         service.TeamService
	Tasks         service.TaskService
	Announcements service.AnnouncementService
	Events        service.EventService
	Dashboard     service.DashboardService
	Transfer      service.TransferService

	Session *auth.Session
	// Tokens carries the session between runs. Nil keeps it in memory.
	Tokens      TokenStore
	HistoryFile string

	Now           func() time.Time
	IsInteractive func() bool
	// PromptLogin asks for missing credentials on a terminal.
	PromptLogin func(username, password *string) error
	// RunProgram runs a bubbletea model; replaced in tests.
	RunProgram func(m tea.Model) (tea.Model, error)

	inShell bool
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) runProgram(m tea.Model) (tea.Model, error) {
	if a.RunProgram != nil {
		return a.RunProgram(m)
	}
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

// resume restores a saved session when none is active. A stale or
// tampered token is discarded.
func (a *App) resume(ctx context.Context) {
	if a.Session.Active() || a.Tokens == nil {
		return
	}
	token, err := a.Tokens.Load()
	if err != nil || token == "" {
		return
	}
	if _, err := a.Sessions.Resume(ctx, a.Session, token); err != nil {
		_ = a.Tokens.Clear()
	}
}

// NewRootCmd creates the top-level "clubdeck" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	if app.Session == nil {
		app.Session = auth.NewSession()
	}
	root := &cobra.Command{
		Use:           "clubdeck",
		Short:         "Role-scoped task board for a student tech club",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.resume(cmdContext(cmd))
		},
	}

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoAmICmd(app),
		newClubCmd(app),
		newDashboardCmd(app),
		newMembersCmd(app),
		newTeamCmd(app),
		newTaskCmd(app),
		newAnnounceCmd(app),
		newEventCmd(app),
		newDataCmd(app),
		newShellCmd(app),
	)

	return root
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// ErrorMessage turns a service error into the short line shown to users.
// Login failures stay generic.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuth):
		return domain.ErrAuth.Error()
	case errors.Is(err, domain.ErrNoSession):
		return "not logged in; run 'clubdeck login' first"
	case errors.Is(err, domain.ErrForbidden):
		return "your role does not allow that"
	case errors.Is(err, auth.ErrInvalidToken):
		return "saved session is no longer valid; log in again"
	default:
		return err.Error()
	}
}
