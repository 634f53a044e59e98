package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/clubdeck/internal/cli/formatter"
	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/spf13/cobra"
)

func newClubCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "club",
		Short: "Show club information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			club, err := app.Dashboard.Club(cmdContext(cmd), app.Session)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatClub(club))
			return nil
		},
	}
}

// newDashboardCmd shows the club overview to Admins and the team dashboard
// to everyone with a team.
func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the club overview (Admin) or your team's dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			overview, err := app.Dashboard.Overview(ctx, app.Session)
			if err == nil {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOverview(overview, app.now()))
				return nil
			}
			if !errors.Is(err, domain.ErrForbidden) {
				return err
			}
			view, err := app.Teams.Dashboard(ctx, app.Session, "")
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTeamView(view))
			return nil
		},
	}
}

func newMembersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "members",
		Short: "List every club account (Admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Identity.ListUsers(cmdContext(cmd), app.Session)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUsers(users))
			return nil
		},
	}
}
