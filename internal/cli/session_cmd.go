package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/clubdeck/internal/cli/formatter"
	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var username, password string
	var guest bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as a club member or as a guest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			var u domain.User
			if guest {
				u = app.Sessions.Guest(ctx, app.Session)
			} else {
				if (username == "" || password == "") && app.interactive() && app.PromptLogin != nil {
					if err := app.PromptLogin(&username, &password); err != nil {
						return err
					}
				}
				if strings.TrimSpace(username) == "" || password == "" {
					return errors.New("username and password are required (or use --guest)")
				}
				var err error
				if u, err = app.Sessions.Login(ctx, app.Session, username, password); err != nil {
					return err
				}
			}
			if err := saveSession(app); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", formatter.Bold(u.Username), formatter.RoleBadge(u.Role))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	cmd.Flags().BoolVar(&guest, "guest", false, "Browse as a guest")
	cmd.MarkFlagsMutuallyExclusive("guest", "user")
	return cmd
}

func saveSession(app *App) error {
	if app.Tokens == nil {
		return nil
	}
	token, err := app.Sessions.IssueToken(app.Session)
	if err != nil {
		return err
	}
	return app.Tokens.Save(token)
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Sessions.Logout(cmdContext(cmd), app.Session)
			if app.Tokens != nil {
				if err := app.Tokens.Clear(); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoAmICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and what they can do",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := sessionUser(app)
			if err != nil {
				return err
			}
			actions, err := app.Sessions.VisibleActions(app.Session)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(actions))
			for _, a := range actions {
				names = append(names, string(a))
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWhoAmI(u, names))
			return nil
		},
	}
}

func clubdeckHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

// loginForm collects credentials. Fields already filled in are kept.
func loginForm(username, password *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(required("password")),
		),
	).WithTheme(clubdeckHuhTheme()).WithShowHelp(false)
}

// PromptLogin runs the login form on the terminal.
func PromptLogin(username, password *string) error {
	if err := loginForm(username, password).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("login cancelled")
		}
		return err
	}
	return nil
}

// sessionUser is the current identity or domain.ErrNoSession.
func sessionUser(app *App) (domain.User, error) {
	if app.Session == nil {
		return domain.User{}, domain.ErrNoSession
	}
	return app.Session.Current()
}
