package cli

import (
	"fmt"

	"github.com/alexanderramin/clubdeck/internal/cli/formatter"
	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/spf13/cobra"
)

func newTeamCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage teams and rosters",
	}
	cmd.AddCommand(
		newTeamListCmd(app),
		newTeamShowCmd(app),
		newTeamCreateCmd(app),
		newTeamAddMemberCmd(app),
	)
	return cmd
}

func newTeamListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List teams you can see",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			teams, err := app.Teams.List(cmdContext(cmd), app.Session)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTeams(teams))
			return nil
		},
	}
}

func newTeamShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [TEAM]",
		Short: "Show a team's lead, members and board",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			team := ""
			if len(args) == 1 {
				team = args[0]
			}
			view, err := app.Teams.Dashboard(cmdContext(cmd), app.Session, team)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTeamView(view))
			return nil
		},
	}
}

func newTeamCreateCmd(app *App) *cobra.Command {
	var lead string
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a team, optionally with a lead (Admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Teams.Create(cmdContext(cmd), app.Session, args[0], lead); err != nil {
				return err
			}
			msg := fmt.Sprintf("Created team %s", formatter.Bold(args[0]))
			if lead != "" {
				msg += " led by " + lead
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&lead, "lead", "", "Lead username (created if missing)")
	return cmd
}

func newTeamAddMemberCmd(app *App) *cobra.Command {
	var password string
	role := domain.RoleMember
	cmd := &cobra.Command{
		Use:   "add-member TEAM USER",
		Short: "Create an account and add it to a team (Admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Teams.AddMember(cmdContext(cmd), app.Session, args[0], args[1], password, role); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s as %s\n", formatter.Bold(args[1]), args[0], role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Initial password (default from config)")
	cmd.Flags().Var(newRoleValue(&role), "role", "member|lead")
	return cmd
}
