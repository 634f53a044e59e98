package cli

import (
	"fmt"

	"github.com/alexanderramin/clubdeck/internal/cli/formatter"
	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/spf13/cobra"
)

func newEventCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Club and team events",
	}
	cmd.AddCommand(newEventListCmd(app), newEventCreateCmd(app))
	return cmd
}

func newEventListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List events you can see",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := app.Events.List(cmdContext(cmd), app.Session)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEvents(events))
			return nil
		},
	}
}

func newEventCreateCmd(app *App) *cobra.Command {
	var e domain.Event
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add an event; without --team an Admin's event is public",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := app.Events.Create(cmdContext(cmd), app.Session, e)
			if err != nil {
				return err
			}
			scope := "public"
			if !created.IsPublic() {
				scope = created.Team
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added event %s on %s (%s)\n", formatter.Bold(created.Title), created.Date, scope)
			return nil
		},
	}
	cmd.Flags().StringVar(&e.Title, "title", "", "Event title")
	cmd.Flags().StringVar(&e.Date, "date", "", "Date as YYYY-MM-DD")
	cmd.Flags().StringVarP(&e.Team, "team", "t", "", "Team the event belongs to")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
